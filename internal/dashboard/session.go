package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/regdash/pkg/regulation"
)

// TableLoader loads a table, possibly from a memo.
type TableLoader interface {
	Load(ctx context.Context, src regulation.Source) (*regulation.Table, error)
}

// Session couples a source with the current state. Every state change
// recomputes the view from scratch; the previous view is discarded.
// A Session is not safe for concurrent use.
type Session struct {
	loader   TableLoader
	source   regulation.Source
	mappings regulation.Mappings
	logger   *slog.Logger

	table *regulation.Table
	state State
	view  View
}

// SessionConfig holds the collaborators of a session.
type SessionConfig struct {
	Loader   TableLoader
	Source   regulation.Source
	Mappings regulation.Mappings
	Logger   *slog.Logger
}

type loadFunc func(ctx context.Context, src regulation.Source) (*regulation.Table, error)

func (f loadFunc) Load(ctx context.Context, src regulation.Source) (*regulation.Table, error) {
	return f(ctx, src)
}

// NewSession loads the table and starts with initial as the selection. A
// nil initial selects the default countries of the table.
func NewSession(ctx context.Context, cfg SessionConfig, initial []string) (*Session, error) {
	if cfg.Loader == nil {
		cfg.Loader = loadFunc(regulation.Load)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	s := &Session{
		loader:   cfg.Loader,
		source:   cfg.Source,
		mappings: cfg.Mappings,
		logger:   cfg.Logger,
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}

	if initial == nil {
		initial = regulation.DefaultSelection(s.table)
	}
	s.Apply(NewState(initial...))
	return s, nil
}

// Reload reads the table again and recomputes the view for the current state.
// On failure the previous table and view are kept.
func (s *Session) Reload(ctx context.Context) error {
	t, err := s.loader.Load(ctx, s.source)
	if err != nil {
		return fmt.Errorf("failed to load regulation data: %w", err)
	}
	s.table = t
	s.logger.Debug("regulation data loaded", slog.String("source", t.Source), slog.Int("rows", t.Len()))
	s.view = Recompute(s.table, s.mappings, s.state)
	return nil
}

// Apply replaces the state and returns the recomputed view.
func (s *Session) Apply(next State) View {
	s.state = next
	s.view = Recompute(s.table, s.mappings, s.state)
	s.logger.Debug("view recomputed",
		slog.Any("selected", s.state.Selected),
		slog.Int("rows", s.view.Rows))
	return s.view
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// View returns the view for the current state.
func (s *Session) View() View {
	return s.view
}

// Table returns the loaded table.
func (s *Session) Table() *regulation.Table {
	return s.table
}

// Mappings returns the lookup tables used for derived columns.
func (s *Session) Mappings() regulation.Mappings {
	return s.mappings
}
