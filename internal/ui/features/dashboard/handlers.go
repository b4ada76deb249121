// Package dashboard provides the dashboard page feature for the UI.
package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	dash "github.com/leapstack-labs/regdash/internal/dashboard"
	"github.com/leapstack-labs/regdash/internal/ui/notifier"
	"github.com/leapstack-labs/regdash/pkg/regulation"
)

// Session cookie name and keys.
const (
	SessionName     = "regdash"
	sessionIDKey    = "id"
	sessionCountKey = "countries"
)

// TableSource provides the current regulation table.
type TableSource interface {
	Table(ctx context.Context) (*regulation.Table, error)
}

// SelectSignals are the datastar signals posted to /select.
type SelectSignals struct {
	Countries []string `json:"countries"`
}

// Handlers provides HTTP handlers for the dashboard feature.
type Handlers struct {
	tables       TableSource
	mappings     regulation.Mappings
	initial      []string
	sessionStore sessions.Store
	notifier     *notifier.Notifier
	logger       *slog.Logger
	isDev        bool

	// live holds the latest selection of every browser session with an open
	// update stream, so the stream follows selections posted after it
	// connected. Entries are dropped when the session's last stream closes.
	mu   sync.RWMutex
	live map[string]*liveSession
}

type liveSession struct {
	streams  int
	selected []string
	set      bool
}

// Options configures Handlers.
type Options struct {
	Tables       TableSource
	Mappings     regulation.Mappings
	Initial      []string // nil selects the default countries of the table
	SessionStore sessions.Store
	Notifier     *notifier.Notifier
	Logger       *slog.Logger
	IsDev        bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(opts Options) *Handlers {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		tables:       opts.Tables,
		mappings:     opts.Mappings,
		initial:      opts.Initial,
		sessionStore: opts.SessionStore,
		notifier:     opts.Notifier,
		logger:       logger,
		isDev:        opts.IsDev,
		live:         make(map[string]*liveSession),
	}
}

// DashboardPage renders the dashboard with full content for the session's selection.
func (h *Handlers) DashboardPage(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	v, err := h.view(r.Context(), sess)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Persist a new session ID before the first byte is written.
	if sess.IsNew {
		if err := sess.Save(r, w); err != nil {
			h.logger.Warn("failed to save session", "error", err)
		}
	}

	if err := Page("Dashboard", h.isDev, v).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// DashboardUpdates is the long-lived SSE endpoint for the dashboard page.
// It sends nothing initially and pushes re-rendered panels whenever the
// data changes.
func (h *Handlers) DashboardUpdates(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	sse := datastar.NewSSE(w, r)

	id := h.openStream(sess)
	defer h.closeStream(id)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := h.sendView(ctx, sse, sess); err != nil {
				_ = sse.ConsoleError(err)
				// Keep the stream open; the next change may load fine.
			}
		}
	}
}

// Select stores the posted selection in the session and patches the panels.
func (h *Handlers) Select(w http.ResponseWriter, r *http.Request) {
	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var signals SelectSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "failed to read signals: "+err.Error(), http.StatusBadRequest)
		return
	}

	sess := h.session(r)
	selected := dash.NewState(signals.Countries...).Selected
	sess.Values[sessionCountKey] = selected
	if err := sess.Save(r, w); err != nil {
		http.Error(w, "failed to save session: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.setLive(sess, selected)
	h.logger.Debug("selection changed", slog.Any("selected", selected))

	sse := datastar.NewSSE(w, r)
	if err := h.sendView(r.Context(), sse, sess); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// ViewJSON writes the view for the session's selection as JSON.
func (h *Handlers) ViewJSON(w http.ResponseWriter, r *http.Request) {
	v, err := h.view(r.Context(), h.session(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func (h *Handlers) sendView(ctx context.Context, sse *datastar.ServerSentEventGenerator, sess *sessions.Session) error {
	v, err := h.view(ctx, sess)
	if err != nil {
		return err
	}
	if err := sse.PatchElementTempl(Selection(v)); err != nil {
		return err
	}
	return sse.PatchElementTempl(Panels(v))
}

// view recomputes the dashboard for the session's selection.
func (h *Handlers) view(ctx context.Context, sess *sessions.Session) (dash.View, error) {
	t, err := h.tables.Table(ctx)
	if err != nil {
		return dash.View{}, err
	}

	selected, ok := h.selection(sess)
	if !ok {
		selected = h.initial
		if selected == nil {
			selected = regulation.DefaultSelection(t)
		}
	}
	return dash.Recompute(t, h.mappings, dash.NewState(selected...)), nil
}

// session returns the browser session, assigning an ID to new ones. A
// cookie that fails to decode starts a fresh session.
func (h *Handlers) session(r *http.Request) *sessions.Session {
	sess, err := h.sessionStore.Get(r, SessionName)
	if err != nil {
		h.logger.Debug("discarding invalid session", "error", err)
	}
	if sess == nil {
		sess = sessions.NewSession(h.sessionStore, SessionName)
		sess.IsNew = true
	}
	if _, ok := sess.Values[sessionIDKey].(string); !ok {
		sess.Values[sessionIDKey] = uuid.NewString()
	}
	return sess
}

func (h *Handlers) selection(sess *sessions.Session) ([]string, bool) {
	id, _ := sess.Values[sessionIDKey].(string)
	h.mu.RLock()
	ls, ok := h.live[id]
	if ok && ls.set {
		selected := ls.selected
		h.mu.RUnlock()
		return selected, true
	}
	h.mu.RUnlock()
	selected, ok := sess.Values[sessionCountKey].([]string)
	return selected, ok
}

// setLive records selected for the session's open streams. Sessions without
// an open stream only keep the selection in their cookie.
func (h *Handlers) setLive(sess *sessions.Session, selected []string) {
	id, _ := sess.Values[sessionIDKey].(string)
	h.mu.Lock()
	if ls, ok := h.live[id]; ok {
		ls.selected = selected
		ls.set = true
	}
	h.mu.Unlock()
}

func (h *Handlers) openStream(sess *sessions.Session) string {
	id, _ := sess.Values[sessionIDKey].(string)
	h.mu.Lock()
	ls, ok := h.live[id]
	if !ok {
		ls = &liveSession{}
		h.live[id] = ls
	}
	ls.streams++
	h.mu.Unlock()
	return id
}

func (h *Handlers) closeStream(id string) {
	h.mu.Lock()
	if ls, ok := h.live[id]; ok {
		ls.streams--
		if ls.streams <= 0 {
			delete(h.live, id)
		}
	}
	h.mu.Unlock()
}

// liveSessions returns the number of sessions with an open update stream.
func (h *Handlers) liveSessions() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.live)
}
