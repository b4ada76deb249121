package commands

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/regdash/internal/cli/config"
	"github.com/leapstack-labs/regdash/internal/cli/output"
	"github.com/leapstack-labs/regdash/internal/dashboard"
	"github.com/leapstack-labs/regdash/internal/source"
	"github.com/leapstack-labs/regdash/pkg/regulation"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Loader   *source.Loader
}

// NewCommandContext creates a CommandContext with a memoizing loader and renderer.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
		Loader:   source.NewLoader(cfg.CacheTTL, logger),
	}
}

// Source resolves the configured data descriptor.
func (c *CommandContext) Source() (regulation.Source, error) {
	if err := c.Cfg.ValidateData(); err != nil {
		return nil, err
	}
	src, err := source.ParseDescriptor(c.Cfg.Data, c.Cfg.DelimiterRune())
	if err != nil {
		return nil, err
	}
	if s, ok := src.(*source.SQLSource); ok {
		s.Logger = c.Logger
	}
	return src, nil
}

// LoadTable loads the configured data source.
func (c *CommandContext) LoadTable(ctx context.Context) (*regulation.Table, error) {
	src, err := c.Source()
	if err != nil {
		return nil, err
	}
	return c.Loader.Load(ctx, src)
}

// NewSession loads the data source and applies the configured selection.
func (c *CommandContext) NewSession(ctx context.Context) (*dashboard.Session, error) {
	src, err := c.Source()
	if err != nil {
		return nil, err
	}

	var initial []string
	if len(c.Cfg.Countries) > 0 {
		initial = c.Cfg.Countries
	}

	sess, err := dashboard.NewSession(ctx, dashboard.SessionConfig{
		Loader:   c.Loader,
		Source:   src,
		Mappings: c.Cfg.RegulationMappings(),
		Logger:   c.Logger,
	}, initial)
	if err != nil {
		return nil, err
	}

	// --all wins over any configured countries.
	if c.Cfg.All {
		sess.Apply(dashboard.NewState(regulation.Countries(sess.Table())...))
	}
	return sess, nil
}

// LoadView loads the data source and computes the view for the configured selection.
func (c *CommandContext) LoadView(ctx context.Context) (dashboard.View, error) {
	sess, err := c.NewSession(ctx)
	if err != nil {
		return dashboard.View{}, err
	}
	return sess.View(), nil
}

// getConfig returns the current configuration, or defaults when no
// configuration has been loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		Data:         config.DefaultData,
		OutputFormat: config.DefaultOutput,
		CacheTTL:     config.DefaultCacheTTL,
	}
}
