package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/leapstack-labs/regdash/pkg/regulation"
)

// Memo expiration defaults.
const (
	DefaultTTL             = 10 * time.Minute
	DefaultCleanupInterval = 30 * time.Minute
)

// Loader memoizes successful loads. File-backed sources are keyed by path,
// modification time and size so an edited file is re-read; other sources are
// keyed by ID alone until the TTL expires or Invalidate is called.
type Loader struct {
	cache  *gocache.Cache
	logger *slog.Logger
}

// NewLoader creates a loader whose entries live for ttl. A zero ttl uses
// DefaultTTL; a negative ttl disables memoization.
func NewLoader(ttl time.Duration, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if ttl == 0 {
		ttl = DefaultTTL
	}
	var cache *gocache.Cache
	if ttl > 0 {
		cache = gocache.New(ttl, DefaultCleanupInterval)
	}
	return &Loader{cache: cache, logger: logger}
}

// Load returns the table for src, reading it only on a memo miss. The
// returned table is a private copy. Failed loads are never memoized.
func (l *Loader) Load(ctx context.Context, src regulation.Source) (*regulation.Table, error) {
	if l.cache == nil || src == nil {
		return regulation.Load(ctx, src)
	}

	key, ok := memoKey(src)
	if !ok {
		return regulation.Load(ctx, src)
	}

	if v, found := l.cache.Get(key); found {
		if t, ok := v.(*regulation.Table); ok {
			l.logger.Debug("memo hit", slog.String("source", src.ID()))
			return t.Clone(), nil
		}
	}

	t, err := regulation.Load(ctx, src)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("memo store", slog.String("source", src.ID()), slog.Int("rows", t.Len()))
	l.cache.Set(key, t.Clone(), gocache.DefaultExpiration)
	return t, nil
}

// Invalidate drops every memo entry for the source with the given ID.
func (l *Loader) Invalidate(id string) {
	if l.cache == nil {
		return
	}
	prefix := id + "|"
	for key := range l.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			l.cache.Delete(key)
		}
	}
}

// Flush drops every memo entry.
func (l *Loader) Flush() {
	if l.cache != nil {
		l.cache.Flush()
	}
}

// Len returns the number of memoized tables.
func (l *Loader) Len() int {
	if l.cache == nil {
		return 0
	}
	return l.cache.ItemCount()
}

// memoKey returns false when a file-backed source cannot be stat'ed; the
// load then runs unmemoized and reports the error itself.
func memoKey(src regulation.Source) (string, bool) {
	id := src.ID()
	path, isFile := FilePath(src)
	if !isFile {
		return id + "|", true
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%s|%d|%d", id, info.ModTime().UnixNano(), info.Size()), true
}
