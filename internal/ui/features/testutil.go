// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/regdash/internal/ui/notifier"
	"github.com/leapstack-labs/regdash/pkg/regulation"
)

// TestHeader is the header row used by TestRows.
var TestHeader = []string{
	regulation.ColCountry,
	regulation.ColRegulationName,
	regulation.ColEnforcementLevel,
	regulation.ColPenalties,
	regulation.ColComplianceSteps,
	regulation.ColLawLink,
}

// TestRows is a small data set covering mapped and unmapped countries.
var TestRows = [][]string{
	{"European Union", "EU AI Act", "4", "Fines up to 7% of global turnover", "Risk classification, Conformity assessment", "https://ec.europa.eu/ai-act"},
	{"United States", "Algorithmic Accountability Act", "3", "FTC enforcement actions", "Impact assessments, Reporting to FTC", ""},
	{"France", "Digital Republic Act", "3", "Administrative fines", "Transparency notices", ""},
	{"Atlantis", "Sea Code <draft>", "1", "", "", "javascript:alert(1)"},
}

// StaticTables serves a fixed table and can be switched to fail.
type StaticTables struct {
	mu    sync.RWMutex
	table *regulation.Table
	err   error
}

// Table implements dashboard.TableSource.
func (s *StaticTables) Table(_ context.Context) (*regulation.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table, s.err
}

// Set replaces the served table.
func (s *StaticTables) Set(t *regulation.Table) {
	s.mu.Lock()
	s.table, s.err = t, nil
	s.mu.Unlock()
}

// Fail makes every following Table call return err.
func (s *StaticTables) Fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Tables       *StaticTables
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore
}

// SetupTestFixture builds a fixture over rows, or TestRows when rows is empty.
func SetupTestFixture(t *testing.T, rows ...[]string) *TestFixture {
	t.Helper()

	if len(rows) == 0 {
		rows = TestRows
	}
	table, err := regulation.FromRows("test.csv", TestHeader, rows)
	require.NoError(t, err)

	return &TestFixture{
		Tables:       &StaticTables{table: table},
		Notifier:     notifier.New(),
		SessionStore: NewTestSessionStore(),
	}
}

// ErrUnavailable is a canned load failure for error-path tests.
var ErrUnavailable = errors.New("data source unavailable")

// RequestWithTimeout wraps a request with a context timeout.
func RequestWithTimeout(r *http.Request, timeout time.Duration) (*http.Request, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	return r.WithContext(ctx), cancel
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}

// CountEvents returns the number of SSE events in body.
func CountEvents(body string) int {
	return strings.Count(body, "event:")
}

// SyncRecorder is a ResponseRecorder that may be read while a streaming
// handler is still writing to it.
type SyncRecorder struct {
	mu  sync.Mutex
	rec *httptest.ResponseRecorder
}

// NewSyncRecorder returns an empty SyncRecorder.
func NewSyncRecorder() *SyncRecorder {
	return &SyncRecorder{rec: httptest.NewRecorder()}
}

// Header implements http.ResponseWriter.
func (s *SyncRecorder) Header() http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Header()
}

// Write implements http.ResponseWriter.
func (s *SyncRecorder) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Write(p)
}

// WriteHeader implements http.ResponseWriter.
func (s *SyncRecorder) WriteHeader(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.WriteHeader(code)
}

// Flush implements http.Flusher.
func (s *SyncRecorder) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.Flush()
}

// BodyString returns what has been written so far.
func (s *SyncRecorder) BodyString() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Body.String()
}
