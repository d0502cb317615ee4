package types

import "fmt"

// DefaultNamePrefix is the label prefix for newly occupied slots.
const DefaultNamePrefix = "Shelf"

// Shelf is the record stored in an occupied slot.
type Shelf struct {
	Index int      // Slot position the shelf was created at (0..59).
	Name  string   // Display label, derived from the index on creation.
	Color Color    // Display color, ARGB.
	Items []string // Item list in entry order.
}

// NewShelf creates a shelf for the slot at index with a derived name and an
// empty item list.
func NewShelf(index int, prefix string, color Color) *Shelf {
	return &Shelf{
		Index: index,
		Name:  ShelfName(prefix, index),
		Color: color,
		Items: []string{},
	}
}

// ShelfName returns the default label for the slot at index, e.g.
// "Shelf 6" for index 5.
func ShelfName(prefix string, index int) string {
	if prefix == "" {
		prefix = DefaultNamePrefix
	}
	return fmt.Sprintf("%s %d", prefix, index+1)
}

// Clone returns a deep copy of the shelf. Clone of nil is nil.
func (s *Shelf) Clone() *Shelf {
	if s == nil {
		return nil
	}
	items := make([]string, len(s.Items))
	copy(items, s.Items)
	return &Shelf{
		Index: s.Index,
		Name:  s.Name,
		Color: s.Color,
		Items: items,
	}
}

// WithItem returns a copy of the shelf with item appended. The receiver
// is not modified.
func (s *Shelf) WithItem(item string) *Shelf {
	next := s.Clone()
	next.Items = append(next.Items, item)
	return next
}

// Equal compares two shelves field by field. A nil and an empty item list
// are equal.
func (s *Shelf) Equal(other *Shelf) bool {
	if s == nil || other == nil {
		return s == nil && other == nil
	}
	if s.Index != other.Index || s.Name != other.Name || s.Color != other.Color {
		return false
	}
	if len(s.Items) != len(other.Items) {
		return false
	}
	for i := range s.Items {
		if s.Items[i] != other.Items[i] {
			return false
		}
	}
	return true
}
