package types

import "errors"

// ItemLocation is one match returned by Shop.FindItems.
type ItemLocation struct {
	Slot    int    `json:"slot"`    // Slot position holding the item.
	Shelf   string `json:"shelf"`   // Shelf name.
	Ordinal int    `json:"ordinal"` // Position within the shelf's item list.
	Item    string `json:"item"`
}

// Shop is a workspace: a data directory holding one shop map and the
// index built over it. Callers attach, work through the Layout, and
// detach when done.
type Shop interface {
	// Attach opens the workspace described by config. Creates DataDir if
	// it does not exist. Returns ErrAlreadyAttached when already attached.
	Attach(config Config) error

	// Detach flushes pending writes and releases resources. Idempotent.
	Detach() error

	// Layout returns the attached shelf grid.
	// Returns ErrShopDetached if not attached.
	Layout() (Layout, error)

	// FindItems returns every item whose text contains query, ignoring
	// case, ordered by slot and then by item order.
	FindItems(query string) ([]ItemLocation, error)

	// MapPath returns the path of the workspace map file.
	MapPath() string
}

// Shop lifecycle and query errors.
var (
	ErrShopDetached    = errors.New("shop is detached")
	ErrAlreadyAttached = errors.New("shop is already attached")
	ErrInvalidQuery    = errors.New("query must not be empty")
)
