// Package exchange converts a shop layout to and from the JSON exchange
// format: an array of exactly 60 elements, null for an empty slot and an
// object {"index","name","color","items"} for a shelf.
package exchange

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/shopmap/pkg/types"
)

// shelfJSON is the wire form of a shelf.
type shelfJSON struct {
	Index int         `json:"index"`
	Name  string      `json:"name"`
	Color types.Color `json:"color"`
	Items []string    `json:"items"`
}

// shelfInJSON mirrors shelfJSON with pointer fields so that missing and
// null values can be told apart from zero values.
type shelfInJSON struct {
	Index *int       `json:"index"`
	Name  *string    `json:"name"`
	Color *uint32    `json:"color"`
	Items *[]*string `json:"items"`
}

var nullLiteral = []byte("null")

// Option configures Deserialize.
type Option func(*options)

type options struct {
	strict bool
}

// Strict rejects records whose index differs from their array position.
func Strict() Option {
	return func(o *options) { o.strict = true }
}

// StrictIf applies Strict when enabled is true.
func StrictIf(enabled bool) Option {
	return func(o *options) { o.strict = o.strict || enabled }
}

// EncodeShelf encodes one shelf in its wire form, or null for nil.
func EncodeShelf(shelf *types.Shelf, indent bool) ([]byte, error) {
	var record *shelfJSON
	if shelf != nil {
		record = toWire(shelf)
	}
	return marshal(record, indent)
}

// Serialize encodes slots as compact JSON.
func Serialize(slots types.Slots) ([]byte, error) {
	return encode(slots, false)
}

// SerializeIndent encodes slots as two-space indented JSON.
func SerializeIndent(slots types.Slots) ([]byte, error) {
	return encode(slots, true)
}

func encode(slots types.Slots, indent bool) ([]byte, error) {
	records := make([]*shelfJSON, types.SlotCount)
	for i, shelf := range slots {
		if shelf != nil {
			records[i] = toWire(shelf)
		}
	}
	return marshal(records, indent)
}

func toWire(shelf *types.Shelf) *shelfJSON {
	items := shelf.Items
	if items == nil {
		items = []string{}
	}
	return &shelfJSON{
		Index: shelf.Index,
		Name:  shelf.Name,
		Color: shelf.Color,
		Items: items,
	}
}

// marshal encodes v without HTML escaping and without a trailing newline.
func marshal(v any, indent bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding shop map: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Deserialize parses exchange data. Any structural problem is reported as
// a *types.FormatError and no partial result is returned.
func Deserialize(data []byte, opts ...Option) (types.Slots, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var slots types.Slots

	data = bytes.TrimSpace(data)
	if !json.Valid(data) {
		return slots, &types.FormatError{Reason: "not well-formed JSON"}
	}
	if data[0] != '[' {
		return slots, &types.FormatError{Reason: "top-level value is not an array"}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return slots, &types.FormatError{Reason: "decoding array", Err: err}
	}
	if len(raw) != types.SlotCount {
		return slots, &types.FormatError{
			Reason: fmt.Sprintf("expected %d slots, got %d", types.SlotCount, len(raw)),
		}
	}

	for i, elem := range raw {
		elem = bytes.TrimSpace(elem)
		if bytes.Equal(elem, nullLiteral) {
			continue
		}
		shelf, err := decodeShelf(i, elem, o)
		if err != nil {
			return types.Slots{}, err
		}
		slots[i] = shelf
	}
	return slots, nil
}

// decodeShelf decodes the non-null element at position pos.
func decodeShelf(pos int, elem json.RawMessage, o options) (*types.Shelf, error) {
	if len(elem) == 0 || elem[0] != '{' {
		return nil, &types.FormatError{Reason: fmt.Sprintf("slot %d: expected object or null", pos)}
	}

	var rec shelfInJSON
	if err := json.Unmarshal(elem, &rec); err != nil {
		return nil, &types.FormatError{Reason: fmt.Sprintf("slot %d", pos), Err: err}
	}

	switch {
	case rec.Index == nil:
		return nil, missingField(pos, "index")
	case rec.Name == nil:
		return nil, missingField(pos, "name")
	case rec.Color == nil:
		return nil, missingField(pos, "color")
	case rec.Items == nil:
		return nil, missingField(pos, "items")
	}

	if !types.ValidIndex(*rec.Index) {
		return nil, &types.FormatError{
			Reason: fmt.Sprintf("slot %d: index %d outside [0, %d)", pos, *rec.Index, types.SlotCount),
		}
	}
	if o.strict && *rec.Index != pos {
		return nil, &types.FormatError{
			Reason: fmt.Sprintf("slot %d: record index %d does not match its position", pos, *rec.Index),
		}
	}

	items := make([]string, 0, len(*rec.Items))
	for j, item := range *rec.Items {
		if item == nil {
			return nil, &types.FormatError{Reason: fmt.Sprintf("slot %d: items[%d] is null", pos, j)}
		}
		items = append(items, *item)
	}

	return &types.Shelf{
		Index: *rec.Index,
		Name:  *rec.Name,
		Color: types.Color(*rec.Color),
		Items: items,
	}, nil
}

func missingField(pos int, field string) error {
	return &types.FormatError{Reason: fmt.Sprintf("slot %d: missing or null field %q", pos, field)}
}
