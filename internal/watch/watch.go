// Package watch reloads a shop map file whenever it changes on disk.
//
// The watcher observes the file's parent directory rather than the file
// itself: editors and exchange.Save replace the file by rename, which
// drops a watch placed on the old inode.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/shopmap/internal/exchange"
	"github.com/mesh-intelligence/shopmap/internal/logging"
	"github.com/mesh-intelligence/shopmap/pkg/types"
)

// DefaultDebounce is how long the file must stay quiet before it is read.
const DefaultDebounce = 100 * time.Millisecond

// Handler receives every snapshot that loads successfully.
type Handler func(types.Slots)

// Stats tracks watcher activity.
type Stats struct {
	Events        int
	Loads         int
	Rejected      int
	Errors        int
	LastEventTime time.Time
}

// Watcher watches one map file.
type Watcher struct {
	path     string
	dir      string
	handler  Handler
	debounce time.Duration
	strict   bool
	logger   *zap.Logger

	ready     chan struct{}
	readyOnce sync.Once

	mu    sync.Mutex
	stats Stats
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Non-positive values keep the default.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.logger = logging.OrNop(l) }
}

// WithStrict rejects files whose shelf indices disagree with their
// positions.
func WithStrict(strict bool) Option {
	return func(w *Watcher) { w.strict = strict }
}

// New creates a watcher for path. It does not touch the filesystem until
// Run is called.
func New(path string, handler Handler, opts ...Option) (*Watcher, error) {
	if handler == nil {
		return nil, errors.New("watch: nil handler")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	w := &Watcher{
		path:     abs,
		dir:      filepath.Dir(abs),
		handler:  handler,
		debounce: DefaultDebounce,
		logger:   zap.NewNop(),
		ready:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Ready is closed once Run has installed its watch.
func (w *Watcher) Ready() <-chan struct{} { return w.ready }

// Stats returns a copy of the activity counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Run watches until ctx is cancelled. It returns nil on cancellation and
// an error only when the watch cannot be set up or fsnotify shuts down.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.readyOnce.Do(func() { close(w.ready) })
	w.logger.Debug("watching map file", zap.String("path", w.path))

	// fire is nil while no change is pending.
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("watcher stopped", zap.String("path", w.path))
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			w.mu.Lock()
			w.stats.Events++
			w.stats.LastEventTime = time.Now()
			w.mu.Unlock()
			fire = time.After(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			w.logger.Error("watcher error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-fire:
			fire = nil
			w.reload()
		}
	}
}

// relevant reports whether event concerns the watched file and may have
// changed its contents.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0
}

func (w *Watcher) reload() {
	slots, err := exchange.Load(w.path, exchange.StrictIf(w.strict))
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		// Moved away mid-replace; the Create that follows triggers a reload.
		w.logger.Debug("map file missing", zap.String("path", w.path))
		return
	case errors.Is(err, types.ErrFormat):
		w.logger.Warn("ignoring malformed map file", zap.String("path", w.path), zap.Error(err))
		w.mu.Lock()
		w.stats.Rejected++
		w.mu.Unlock()
		return
	default:
		w.logger.Error("read map file failed", zap.String("path", w.path), zap.Error(err))
		w.mu.Lock()
		w.stats.Errors++
		w.mu.Unlock()
		return
	}

	w.mu.Lock()
	w.stats.Loads++
	w.mu.Unlock()
	w.logger.Debug("map file reloaded", zap.String("path", w.path), zap.Int("shelves", slots.Occupied()))
	w.handler(slots)
}
