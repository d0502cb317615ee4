package exchange

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/shopmap/internal/grid"
	"github.com/mesh-intelligence/shopmap/pkg/types"
)

// fullGrid returns a layout with every slot occupied and item lists of
// varying length.
func fullGrid() types.Slots {
	var s types.Slots
	for i := range s {
		shelf := types.NewShelf(i, "", types.Color(0xFF000000|uint32(i)))
		for j := 0; j < i%4; j++ {
			shelf = shelf.WithItem(fmt.Sprintf("item %d.%d", i, j))
		}
		s[i] = shelf
	}
	return s
}

func TestRoundTrip(t *testing.T) {
	sparse := types.Slots{}
	sparse[1] = &types.Shelf{Index: 1, Name: "Shelf 2", Color: types.DefaultShelfColor, Items: []string{"Milk", "Bread"}}
	sparse[42] = &types.Shelf{Index: 42, Name: "Ünïcode ✓ <&>", Color: 0, Items: []string{}}
	sparse[59] = &types.Shelf{Index: 59, Name: "", Color: 0xFFFFFFFF, Items: []string{"", "  spaced  "}}

	tests := []struct {
		name  string
		slots types.Slots
	}{
		{name: "all empty", slots: types.Slots{}},
		{name: "sparse", slots: sparse},
		{name: "fully occupied", slots: fullGrid()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, indent := range []bool{false, true} {
				data, err := encode(tt.slots, indent)
				require.NoError(t, err)

				got, err := Deserialize(data)
				require.NoError(t, err)
				if diff := cmp.Diff(tt.slots, got, cmpopts.EquateEmpty()); diff != "" {
					t.Fatalf("round trip mismatch (indent=%v) (-want +got):\n%s", indent, diff)
				}
			}
		})
	}
}

// Every item the grid accepts must survive the map file unchanged.
func TestGridItemsRoundTrip(t *testing.T) {
	g := grid.New()
	_, err := g.OccupySlot(5)
	require.NoError(t, err)
	for _, text := range []string{"Café", "日本茶", "tab\there", "Caf\xe9"} {
		_, _ = g.AddItem(5, text)
	}

	before := g.Observe()
	data, err := Serialize(before)
	require.NoError(t, err)
	after, err := Deserialize(data)
	require.NoError(t, err)
	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("grid state changed through the map file (-before +after):\n%s", diff)
	}
	assert.Equal(t, []string{"Café", "日本茶", "tab\there"}, after[5].Items)
}

func TestSerializeShape(t *testing.T) {
	var s types.Slots
	s[1] = &types.Shelf{Index: 1, Name: "Shelf 2", Color: types.DefaultShelfColor, Items: nil}

	data, err := Serialize(s)
	require.NoError(t, err)

	var decoded []any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, types.SlotCount)
	assert.Nil(t, decoded[0])

	rec, ok := decoded[1].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), rec["index"])
	assert.Equal(t, "Shelf 2", rec["name"])
	assert.Equal(t, float64(types.DefaultShelfColor), rec["color"])
	assert.Equal(t, []any{}, rec["items"], "nil items encode as an empty array")

	assert.True(t, strings.HasPrefix(string(data), `[null,{"index":1,"name":"Shelf 2","color":4289912795,"items":[]},null`))
}

func TestSerializeDeterministic(t *testing.T) {
	s := fullGrid()
	a, err := Serialize(s)
	require.NoError(t, err)
	b, err := Serialize(s.Clone())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// slotsJSON builds an array of n elements, all null except the given
// overrides.
func slotsJSON(n int, overrides map[int]string) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "null"
		if v, ok := overrides[i]; ok {
			parts[i] = v
		}
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func TestDeserializeFormatErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty input", data: ""},
		{name: "not json", data: "shop map"},
		{name: "truncated", data: `[null, null`},
		{name: "object at top level", data: `{"slots": []}`},
		{name: "null at top level", data: `null`},
		{name: "59 elements", data: slotsJSON(59, nil)},
		{name: "61 elements", data: slotsJSON(61, nil)},
		{name: "element is a string", data: slotsJSON(60, map[int]string{3: `"shelf"`})},
		{name: "element is an array", data: slotsJSON(60, map[int]string{3: `[]`})},
		{name: "missing index", data: slotsJSON(60, map[int]string{3: `{"name":"a","color":1,"items":[]}`})},
		{name: "missing name", data: slotsJSON(60, map[int]string{3: `{"index":3,"color":1,"items":[]}`})},
		{name: "missing color", data: slotsJSON(60, map[int]string{3: `{"index":3,"name":"a","items":[]}`})},
		{name: "missing items", data: slotsJSON(60, map[int]string{3: `{"index":3,"name":"a","color":1}`})},
		{name: "null items", data: slotsJSON(60, map[int]string{3: `{"index":3,"name":"a","color":1,"items":null}`})},
		{name: "index is a string", data: slotsJSON(60, map[int]string{3: `{"index":"3","name":"a","color":1,"items":[]}`})},
		{name: "index is fractional", data: slotsJSON(60, map[int]string{3: `{"index":3.5,"name":"a","color":1,"items":[]}`})},
		{name: "index out of range", data: slotsJSON(60, map[int]string{3: `{"index":60,"name":"a","color":1,"items":[]}`})},
		{name: "name is a number", data: slotsJSON(60, map[int]string{3: `{"index":3,"name":7,"color":1,"items":[]}`})},
		{name: "color is negative", data: slotsJSON(60, map[int]string{3: `{"index":3,"name":"a","color":-1,"items":[]}`})},
		{name: "color overflows", data: slotsJSON(60, map[int]string{3: `{"index":3,"name":"a","color":4294967296,"items":[]}`})},
		{name: "color is a string", data: slotsJSON(60, map[int]string{3: `{"index":3,"name":"a","color":"#FFB2DFDB","items":[]}`})},
		{name: "items is a string", data: slotsJSON(60, map[int]string{3: `{"index":3,"name":"a","color":1,"items":"Milk"}`})},
		{name: "item is a number", data: slotsJSON(60, map[int]string{3: `{"index":3,"name":"a","color":1,"items":["Milk",2]}`})},
		{name: "item is null", data: slotsJSON(60, map[int]string{3: `{"index":3,"name":"a","color":1,"items":["Milk",null]}`})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Deserialize([]byte(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrFormat)

			var fe *types.FormatError
			assert.True(t, errors.As(err, &fe))
			assert.Equal(t, 0, got.Occupied(), "no partial result on failure")
		})
	}
}

func TestDeserializeToleratesUnknownFields(t *testing.T) {
	data := slotsJSON(60, map[int]string{
		0: `{"index":0,"name":"Front","color":4289912795,"items":["Milk"],"aisle":"A"}`,
	})
	got, err := Deserialize([]byte(data))
	require.NoError(t, err)
	require.NotNil(t, got[0])
	assert.Equal(t, "Front", got[0].Name)
	assert.Equal(t, []string{"Milk"}, got[0].Items)
}

func TestDeserializeIndexMismatch(t *testing.T) {
	data := []byte(slotsJSON(60, map[int]string{
		10: `{"index":3,"name":"Moved","color":1,"items":[]}`,
	}))

	got, err := Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, 3, got[10].Index, "mismatch accepted by default")

	_, err = Deserialize(data, Strict())
	assert.ErrorIs(t, err, types.ErrFormat)

	_, err = Deserialize(data, StrictIf(false))
	assert.NoError(t, err)
	_, err = Deserialize(data, StrictIf(true))
	assert.ErrorIs(t, err, types.ErrFormat)
}

func TestRejectedImportLeavesGridUnchanged(t *testing.T) {
	g := grid.New()
	_, err := g.OccupySlot(2)
	require.NoError(t, err)
	_, err = g.AddItem(2, "Milk")
	require.NoError(t, err)
	before := g.Observe()

	for _, n := range []int{59, 61} {
		slots, err := Deserialize([]byte(slotsJSON(n, nil)))
		require.ErrorIs(t, err, types.ErrFormat)
		if err == nil {
			require.NoError(t, g.ReplaceAll(slots))
		}
	}

	assert.True(t, before.Equal(g.Observe()))
}

func TestScenarioRiceAndBeans(t *testing.T) {
	g := grid.New()
	_, err := g.OccupySlot(5)
	require.NoError(t, err)
	_, err = g.AddItem(5, "Rice")
	require.NoError(t, err)
	_, err = g.AddItem(5, "Beans")
	require.NoError(t, err)

	data, err := Serialize(g.Observe())
	require.NoError(t, err)

	got, err := Deserialize(data)
	require.NoError(t, err)

	for i, shelf := range got {
		if i == 5 {
			continue
		}
		assert.Nil(t, shelf, "slot %d", i)
	}
	require.NotNil(t, got[5])
	assert.Equal(t, 5, got[5].Index)
	assert.Equal(t, "Shelf 6", got[5].Name)
	assert.Equal(t, []string{"Rice", "Beans"}, got[5].Items)
}

func TestEncodeShelf(t *testing.T) {
	data, err := EncodeShelf(&types.Shelf{Index: 2, Name: "Shelf 3", Color: types.DefaultShelfColor}, false)
	require.NoError(t, err)
	assert.Equal(t, `{"index":2,"name":"Shelf 3","color":4289912795,"items":[]}`, string(data))

	data, err = EncodeShelf(nil, true)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}
