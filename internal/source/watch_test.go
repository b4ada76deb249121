package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_NotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "regs.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvHeader), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		}, WatchOptions{Debounce: 10 * time.Millisecond})
	}()

	// unrelated files in the same directory are ignored
	require.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644)
		_ = os.WriteFile(path, []byte(csvHeader+"France,Law1,3,Fines,A\n"), 0o644)
		select {
		case <-changed:
			return true
		default:
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "missing", "regs.csv"), func() {}, WatchOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch")
}

func TestRelevant(t *testing.T) {
	path := filepath.Join(string(filepath.Separator)+"data", "regs.csv")

	assert.True(t, relevant(fsnotify.Event{Name: path, Op: fsnotify.Write}, path))
	assert.True(t, relevant(fsnotify.Event{Name: path, Op: fsnotify.Rename}, path))
	assert.False(t, relevant(fsnotify.Event{Name: path, Op: fsnotify.Chmod}, path))
	assert.False(t, relevant(fsnotify.Event{Name: path + ".bak", Op: fsnotify.Write}, path))
}
