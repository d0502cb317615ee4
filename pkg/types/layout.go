package types

import "errors"

// Listener receives a snapshot of the layout after every successful
// mutation. The snapshot is a private copy.
type Listener func(Slots)

// Layout is the shelf grid state: the only sanctioned way to read or
// mutate a shop layout.
type Layout interface {
	// OccupySlot creates a shelf at index with a derived name, the
	// configured color and no items, and returns a copy of it.
	// Returns ErrIndexOutOfRange for an index outside [0, SlotCount) and
	// ErrInvalidTransition if the slot is already occupied.
	OccupySlot(index int) (*Shelf, error)

	// AddItem appends text to the item list of the shelf at index and
	// returns a copy of the updated shelf.
	// Returns ErrIndexOutOfRange, ErrInvalidTransition for an empty slot,
	// ErrInvalidItem for text that is not valid UTF-8, or ErrBlankItem
	// when blank items are not allowed.
	AddItem(index int, text string) (*Shelf, error)

	// Shelf returns a copy of the shelf at index, or nil for an empty slot.
	Shelf(index int) (*Shelf, error)

	// Observe returns a snapshot of all slots. Later mutations do not
	// alter a returned snapshot.
	Observe() Slots

	// ReplaceAll swaps in a new layout. Shelves are accepted as-is,
	// including ones whose Index differs from their position.
	ReplaceAll(slots Slots) error

	// Subscribe registers l for change notifications and returns a
	// function that removes it.
	Subscribe(l Listener) (cancel func())
}

// Layout operation errors.
var (
	ErrIndexOutOfRange   = errors.New("slot index out of range")
	ErrInvalidTransition = errors.New("invalid slot state transition")
	ErrBlankItem         = errors.New("item text must not be blank")
	ErrInvalidItem       = errors.New("item text must be valid UTF-8")
)
