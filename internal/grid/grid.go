// Package grid implements the shelf grid state: a fixed 60-slot layout
// with copy-on-read snapshots and change subscriptions.
package grid

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/mesh-intelligence/shopmap/pkg/types"
)

// Compile-time interface check: Grid must implement Layout.
var _ types.Layout = (*Grid)(nil)

// Grid owns one shop layout. Mutations are serialized by mu; listeners run
// after the lock is released so they may call back into the Grid.
type Grid struct {
	mu    sync.Mutex
	slots types.Slots

	prefix      string
	color       types.Color
	allowBlank  bool
	listeners   map[int]types.Listener
	nextID      int
	listenOrder []int
}

// Option configures a Grid.
type Option func(*Grid)

// WithNamePrefix sets the label prefix for new shelves.
func WithNamePrefix(prefix string) Option {
	return func(g *Grid) {
		if prefix != "" {
			g.prefix = prefix
		}
	}
}

// WithColor sets the color assigned to new shelves.
func WithColor(c types.Color) Option {
	return func(g *Grid) { g.color = c }
}

// WithBlankItems controls whether AddItem accepts blank text.
func WithBlankItems(allow bool) Option {
	return func(g *Grid) { g.allowBlank = allow }
}

// New returns a Grid with all slots empty.
func New(opts ...Option) *Grid {
	g := &Grid{
		prefix:    types.DefaultNamePrefix,
		color:     types.DefaultShelfColor,
		listeners: make(map[int]types.Listener),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// OccupySlot creates a shelf at index. An occupied slot is rejected with
// ErrInvalidTransition and left as it is.
func (g *Grid) OccupySlot(index int) (*types.Shelf, error) {
	if !types.ValidIndex(index) {
		return nil, fmt.Errorf("occupy slot %d: %w", index, types.ErrIndexOutOfRange)
	}

	g.mu.Lock()
	if g.slots[index] != nil {
		g.mu.Unlock()
		return nil, fmt.Errorf("occupy slot %d: already occupied: %w", index, types.ErrInvalidTransition)
	}
	shelf := types.NewShelf(index, g.prefix, g.color)
	g.slots[index] = shelf
	snapshot, listeners := g.commitLocked()
	g.mu.Unlock()

	notify(listeners, snapshot)
	return shelf.Clone(), nil
}

// AddItem appends text to the shelf at index. The stored shelf is replaced
// rather than modified, so earlier snapshots keep their item lists.
func (g *Grid) AddItem(index int, text string) (*types.Shelf, error) {
	if !types.ValidIndex(index) {
		return nil, fmt.Errorf("add item to slot %d: %w", index, types.ErrIndexOutOfRange)
	}
	// JSON cannot carry invalid UTF-8; the map file would not round-trip.
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("add item to slot %d: %w", index, types.ErrInvalidItem)
	}
	if !g.allowBlank && strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("add item to slot %d: %w", index, types.ErrBlankItem)
	}

	g.mu.Lock()
	current := g.slots[index]
	if current == nil {
		g.mu.Unlock()
		return nil, fmt.Errorf("add item to slot %d: slot is empty: %w", index, types.ErrInvalidTransition)
	}
	next := current.WithItem(text)
	g.slots[index] = next
	snapshot, listeners := g.commitLocked()
	g.mu.Unlock()

	notify(listeners, snapshot)
	return next.Clone(), nil
}

// Shelf returns a copy of the shelf at index, nil when the slot is empty.
func (g *Grid) Shelf(index int) (*types.Shelf, error) {
	if !types.ValidIndex(index) {
		return nil, fmt.Errorf("get slot %d: %w", index, types.ErrIndexOutOfRange)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.slots[index].Clone(), nil
}

// Observe returns a deep copy of the current layout.
func (g *Grid) Observe() types.Slots {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.slots.Clone()
}

// ReplaceAll installs a copy of slots as the whole layout. No validation
// of shelf indices is performed.
func (g *Grid) ReplaceAll(slots types.Slots) error {
	next := slots.Clone()

	g.mu.Lock()
	g.slots = next
	snapshot, listeners := g.commitLocked()
	g.mu.Unlock()

	notify(listeners, snapshot)
	return nil
}

// Subscribe registers l. Listeners are called in subscription order with
// a private snapshot after every successful mutation.
func (g *Grid) Subscribe(l types.Listener) (cancel func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.nextID
	g.nextID++
	g.listeners[id] = l
	g.listenOrder = append(g.listenOrder, id)

	var once sync.Once
	return func() {
		once.Do(func() { g.unsubscribe(id) })
	}
}

func (g *Grid) unsubscribe(id int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.listeners, id)
	for i, v := range g.listenOrder {
		if v == id {
			g.listenOrder = append(g.listenOrder[:i:i], g.listenOrder[i+1:]...)
			break
		}
	}
}

// commitLocked captures what notify needs. The caller must hold g.mu.
func (g *Grid) commitLocked() (types.Slots, []types.Listener) {
	if len(g.listenOrder) == 0 {
		return types.Slots{}, nil
	}
	listeners := make([]types.Listener, 0, len(g.listenOrder))
	for _, id := range g.listenOrder {
		listeners = append(listeners, g.listeners[id])
	}
	return g.slots.Clone(), listeners
}

func notify(listeners []types.Listener, snapshot types.Slots) {
	last := len(listeners) - 1
	for i, l := range listeners {
		s := snapshot
		if i < last {
			s = snapshot.Clone()
		}
		l(s)
	}
}
