package types

// Grid geometry. Slots are stored row-major: slot i sits in row
// i/GridColumns, column i%GridColumns.
const (
	SlotCount   = 60
	GridColumns = 6
	GridRows    = SlotCount / GridColumns
)

// Slots is the full shop layout. A nil entry is an empty slot. The array
// type fixes the length at SlotCount, so a Slots value always has exactly
// 60 positions.
type Slots [SlotCount]*Shelf

// ValidIndex reports whether index addresses a slot.
func ValidIndex(index int) bool {
	return index >= 0 && index < SlotCount
}

// RowCol returns the grid row and column of a slot index.
func RowCol(index int) (row, col int) {
	return index / GridColumns, index % GridColumns
}

// IndexAt returns the slot index for a grid row and column, or -1 when the
// position is outside the grid.
func IndexAt(row, col int) int {
	if row < 0 || row >= GridRows || col < 0 || col >= GridColumns {
		return -1
	}
	return row*GridColumns + col
}

// Clone returns a deep copy. Shelves in the copy share nothing with the
// receiver.
func (s Slots) Clone() Slots {
	var out Slots
	for i, shelf := range s {
		out[i] = shelf.Clone()
	}
	return out
}

// Occupied returns the number of non-empty slots.
func (s Slots) Occupied() int {
	n := 0
	for _, shelf := range s {
		if shelf != nil {
			n++
		}
	}
	return n
}

// Equal reports whether two layouts hold equal shelves in every position.
func (s Slots) Equal(other Slots) bool {
	for i := range s {
		if !s[i].Equal(other[i]) {
			return false
		}
	}
	return true
}
