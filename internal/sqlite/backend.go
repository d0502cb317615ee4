package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/shopmap/internal/exchange"
	"github.com/mesh-intelligence/shopmap/internal/grid"
	"github.com/mesh-intelligence/shopmap/internal/logging"
	"github.com/mesh-intelligence/shopmap/pkg/types"
)

// Compile-time interface check: Backend must implement Shop.
var _ types.Shop = (*Backend)(nil)

// Backend implements the Shop interface with the map file as the source
// of truth and SQLite as the item index.
type Backend struct {
	mu        sync.RWMutex
	attached  bool
	config    types.Config
	db        *sql.DB
	grid      *grid.Grid
	mapPath   string
	sessionID string
	cancel    func()
	logger    *zap.Logger
	baseLog   *zap.Logger

	// Sync state. syncMu serializes change handling so the index and the
	// map file always reflect the latest grid state.
	syncMu       sync.Mutex
	syncStrategy string
	dirty        bool
	syncErr      error
	recent       []types.Slots // states written since Attach, newest last
	lastWrite    os.FileInfo   // map file as left by the newest write
}

// recentWrites is how many written states OwnWrite remembers.
const recentWrites = 4

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(b *Backend) { b.baseLog = logging.OrNop(l) }
}

// NewBackend creates a new backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{baseLog: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.baseLog
	return b
}

// Attach opens the workspace in config.DataDir. It creates the directory,
// rebuilds the SQLite index from scratch, loads shop_map.json (writing an
// empty map when the file is missing), and subscribes to grid changes.
// A malformed map file aborts the attach.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	// The index is derived data; start from a fresh database every time.
	dbPath := filepath.Join(dataDir, DBFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	if err := createSchema(db); err != nil {
		db.Close()
		return err
	}

	mapPath := filepath.Join(dataDir, exchange.FileName)
	slots, err := loadOrInitMap(mapPath, config)
	if err != nil {
		db.Close()
		return err
	}

	g := grid.New(
		grid.WithNamePrefix(config.GetNamePrefix()),
		grid.WithColor(config.GetShelfColor()),
		grid.WithBlankItems(config.AllowBlankItems),
	)
	if err := g.ReplaceAll(slots); err != nil {
		db.Close()
		return err
	}
	if err := reindex(db, slots); err != nil {
		db.Close()
		return fmt.Errorf("index map: %w", err)
	}

	b.db = db
	b.config = config
	b.grid = g
	b.mapPath = mapPath
	b.syncStrategy = config.GetSyncStrategy()
	b.dirty = false
	b.syncErr = nil
	b.recent = nil
	b.lastWrite = nil
	b.sessionID = generateUUID()
	b.logger = b.baseLog.With(zap.String("session", b.sessionID))
	b.attached = true
	b.cancel = g.Subscribe(b.onChange)

	b.logger.Info("workspace attached",
		zap.String("data_dir", dataDir),
		zap.Int("shelves", slots.Occupied()),
		zap.String("sync", b.syncStrategy),
	)
	return nil
}

// Detach stops tracking changes, writes any pending map update, and
// closes the index. Detach is idempotent. A map write that failed earlier
// is retried here; its error is returned only if the retry also fails.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}

	var errs []error

	b.syncMu.Lock()
	if b.dirty {
		slots := b.grid.Observe()
		if err := exchange.Save(b.mapPath, slots); err != nil {
			errs = append(errs, fmt.Errorf("flush map file: %w", err))
		} else {
			b.rememberLocked(slots)
			b.dirty = false
			b.syncErr = nil
		}
	}
	b.syncMu.Unlock()

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			errs = append(errs, err)
		}
		b.db = nil
	}

	b.attached = false
	b.logger.Info("workspace detached")
	return errors.Join(errs...)
}

// Layout returns the attached grid.
func (b *Backend) Layout() (types.Layout, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrShopDetached
	}
	return b.grid, nil
}

// FindItems searches the item index; see types.Shop.
func (b *Backend) FindItems(query string) ([]types.ItemLocation, error) {
	if strings.TrimSpace(query) == "" {
		return nil, types.ErrInvalidQuery
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrShopDetached
	}
	b.syncMu.Lock()
	defer b.syncMu.Unlock()
	return findItems(b.db, query)
}

// MapPath returns the path of shop_map.json, empty before the first
// Attach.
func (b *Backend) MapPath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.mapPath
}

// SessionID identifies the current attach; empty when never attached.
func (b *Backend) SessionID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sessionID
}

// Counts returns the number of indexed shelves and items.
func (b *Backend) Counts() (shelves, items int, err error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return 0, 0, types.ErrShopDetached
	}
	b.syncMu.Lock()
	defer b.syncMu.Unlock()
	return countIndexed(b.db)
}

// onChange is the grid listener. It reads the grid again instead of using
// the delivered snapshot, so concurrent mutations cannot leave an older
// state written last.
func (b *Backend) onChange(types.Slots) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return
	}

	b.syncMu.Lock()
	defer b.syncMu.Unlock()

	slots := b.grid.Observe()
	if err := reindex(b.db, slots); err != nil {
		b.logger.Error("reindex failed", zap.Error(err))
	}

	if !b.shouldPersistImmediately() {
		b.dirty = true
		b.logger.Debug("map change queued", zap.Int("shelves", slots.Occupied()))
		return
	}

	if err := exchange.Save(b.mapPath, slots); err != nil {
		// Detach retries the write.
		b.dirty = true
		b.syncErr = err
		b.logger.Error("persist map failed", zap.String("path", b.mapPath), zap.Error(err))
		return
	}
	b.rememberLocked(slots)
	b.logger.Debug("map persisted", zap.String("path", b.mapPath), zap.Int("shelves", slots.Occupied()))
}

// rememberLocked records a state just written to the map file along with
// the file's identity. syncMu must be held.
func (b *Backend) rememberLocked(slots types.Slots) {
	b.recent = append(b.recent, slots)
	if len(b.recent) > recentWrites {
		b.recent = b.recent[len(b.recent)-recentWrites:]
	}
	fi, err := os.Stat(b.mapPath)
	if err != nil {
		b.logger.Warn("stat map file failed", zap.String("path", b.mapPath), zap.Error(err))
		b.lastWrite = nil
		return
	}
	b.lastWrite = fi
}

// OwnWrite reports whether slots, read from the map file, is an echo of
// this backend's own writes: the file on disk is still the one the backend
// wrote last, and slots is one of the states it wrote since Attach. Any
// other program replacing or rewriting the file, even with an older state,
// makes OwnWrite false.
func (b *Backend) OwnWrite(slots types.Slots) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return false
	}
	b.syncMu.Lock()
	defer b.syncMu.Unlock()

	if b.lastWrite == nil {
		return false
	}
	fi, err := os.Stat(b.mapPath)
	if err != nil || !sameWrite(b.lastWrite, fi) {
		return false
	}
	for _, s := range b.recent {
		if s.Equal(slots) {
			return true
		}
	}
	return false
}

// sameWrite reports whether two stats describe the same write of a file.
func sameWrite(a, b os.FileInfo) bool {
	return os.SameFile(a, b) && a.Size() == b.Size() && a.ModTime().Equal(b.ModTime())
}

// SyncErr returns the last map write failure not yet recovered by a
// successful write.
func (b *Backend) SyncErr() error {
	b.syncMu.Lock()
	defer b.syncMu.Unlock()
	return b.syncErr
}

// shouldPersistImmediately returns true if map writes should happen on
// every change.
func (b *Backend) shouldPersistImmediately() bool {
	return b.syncStrategy == types.SyncImmediate || b.syncStrategy == ""
}

// createSchema executes all table and index DDL.
func createSchema(db *sql.DB) error {
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}
	return nil
}

// loadOrInitMap reads the map file, or writes an all-empty one when it
// does not exist yet.
func loadOrInitMap(path string, config types.Config) (types.Slots, error) {
	slots, err := exchange.Load(path, exchange.StrictIf(config.StrictImport))
	if err == nil {
		return slots, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return types.Slots{}, fmt.Errorf("load map: %w", err)
	}
	if err := exchange.Save(path, types.Slots{}); err != nil {
		return types.Slots{}, fmt.Errorf("init map: %w", err)
	}
	return types.Slots{}, nil
}

// generateUUID generates a new UUID v7 for session IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
