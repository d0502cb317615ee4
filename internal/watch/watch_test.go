package watch

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mesh-intelligence/shopmap/internal/exchange"
	"github.com/mesh-intelligence/shopmap/pkg/types"
)

// recorder collects delivered snapshots.
type recorder struct {
	mu    sync.Mutex
	snaps []types.Slots
}

func (r *recorder) handle(s types.Slots) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

func (r *recorder) last() types.Slots {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snaps[len(r.snaps)-1]
}

// start runs w in the background and returns a stop function that
// cancels it and returns Run's error.
func start(t *testing.T, w *Watcher) func() error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case <-w.Ready():
	case err := <-done:
		cancel()
		t.Fatalf("watcher exited early: %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("watcher never became ready")
	}

	return func() error {
		cancel()
		return <-done
	}
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fsnotify Windows goroutines are not tracked reliably by goleak")
	}
}

func shelfAt(index int, items ...string) types.Slots {
	var s types.Slots
	s[index] = &types.Shelf{Index: index, Name: types.ShelfName(types.DefaultNamePrefix, index), Color: types.DefaultShelfColor, Items: items}
	return s
}

func TestNew(t *testing.T) {
	_, err := New("map.json", nil)
	assert.Error(t, err)

	w, err := New("map.json", func(types.Slots) {})
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(w.Path()))
	assert.Equal(t, DefaultDebounce, w.debounce)

	w, err = New("map.json", func(types.Slots) {}, WithDebounce(-time.Second))
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.debounce)
}

func TestWatcher_DeliversAtomicReplace(t *testing.T) {
	skipOnWindows(t)
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, exchange.FileName)
	require.NoError(t, exchange.Save(path, types.Slots{}))

	var rec recorder
	w, err := New(path, rec.handle, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	stop := start(t, w)

	require.NoError(t, exchange.Save(path, shelfAt(5, "Rice", "Beans")))

	require.Eventually(t, func() bool { return rec.count() > 0 }, 5*time.Second, 10*time.Millisecond)
	got := rec.last()
	require.NotNil(t, got[5])
	assert.Equal(t, []string{"Rice", "Beans"}, got[5].Items)

	require.NoError(t, stop())
}

func TestWatcher_SkipsMalformedWrites(t *testing.T) {
	skipOnWindows(t)
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, exchange.FileName)
	require.NoError(t, exchange.Save(path, types.Slots{}))

	var rec recorder
	w, err := New(path, rec.handle, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	stop := start(t, w)

	require.NoError(t, os.WriteFile(path, []byte(`[null, null]`), 0o644))
	require.Eventually(t, func() bool { return w.Stats().Rejected > 0 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, rec.count())

	// A valid write afterwards is still picked up.
	require.NoError(t, exchange.Save(path, shelfAt(0, "Milk")))
	require.Eventually(t, func() bool { return rec.count() > 0 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"Milk"}, rec.last()[0].Items)

	require.NoError(t, stop())
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	skipOnWindows(t)
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, exchange.FileName)

	var rec recorder
	w, err := New(path, rec.handle, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	stop := start(t, w)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644))
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, stop())
	assert.Equal(t, 0, w.Stats().Events)
	assert.Equal(t, 0, rec.count())
}

func TestWatcher_StrictRejectsMismatch(t *testing.T) {
	skipOnWindows(t)
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, exchange.FileName)

	var rec recorder
	w, err := New(path, rec.handle, WithDebounce(10*time.Millisecond), WithStrict(true))
	require.NoError(t, err)
	stop := start(t, w)

	var s types.Slots
	s[3] = &types.Shelf{Index: 9, Name: "Moved", Items: []string{}}
	require.NoError(t, exchange.Save(path, s))

	require.Eventually(t, func() bool { return w.Stats().Rejected > 0 }, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, stop())
	assert.Equal(t, 0, rec.count())
}

func TestWatcher_MissingDirectory(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := New(filepath.Join(t.TempDir(), "absent", exchange.FileName), func(types.Slots) {})
	require.NoError(t, err)
	assert.Error(t, w.Run(context.Background()))
}
