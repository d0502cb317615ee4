package sqlite

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/shopmap/pkg/types"
)

func openIndex(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), DBFileName))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, createSchema(db))
	return db
}

func TestReindexReplacesContents(t *testing.T) {
	db := openIndex(t)

	var s types.Slots
	s[0] = &types.Shelf{Index: 0, Name: "Shelf 1", Color: types.DefaultShelfColor, Items: []string{"Milk", "Bread"}}
	s[7] = &types.Shelf{Index: 7, Name: "Shelf 8", Color: types.DefaultShelfColor, Items: []string{}}
	require.NoError(t, reindex(db, s))

	shelves, items, err := countIndexed(db)
	require.NoError(t, err)
	assert.Equal(t, 2, shelves)
	assert.Equal(t, 2, items)

	var color int64
	require.NoError(t, db.QueryRow("SELECT color FROM shelves WHERE slot = 0").Scan(&color))
	assert.Equal(t, int64(types.DefaultShelfColor), color)

	require.NoError(t, reindex(db, types.Slots{}))
	shelves, items, err = countIndexed(db)
	require.NoError(t, err)
	assert.Equal(t, 0, shelves)
	assert.Equal(t, 0, items)
}

func TestFindItems(t *testing.T) {
	db := openIndex(t)

	var s types.Slots
	s[9] = &types.Shelf{Index: 9, Name: "Dairy", Items: []string{"Oat milk", "Cheese"}}
	s[2] = &types.Shelf{Index: 2, Name: "Front", Items: []string{"MILK chocolate", "100% juice", "snake_case"}}
	s[30] = &types.Shelf{Index: 30, Name: "Ünïcode", Items: []string{"Šunka"}}
	require.NoError(t, reindex(db, s))

	tests := []struct {
		name  string
		query string
		want  []types.ItemLocation
	}{
		{
			name:  "case-insensitive, ordered by slot",
			query: "milk",
			want: []types.ItemLocation{
				{Slot: 2, Shelf: "Front", Ordinal: 0, Item: "MILK chocolate"},
				{Slot: 9, Shelf: "Dairy", Ordinal: 0, Item: "Oat milk"},
			},
		},
		{
			name:  "percent matches literally",
			query: "0%",
			want:  []types.ItemLocation{{Slot: 2, Shelf: "Front", Ordinal: 1, Item: "100% juice"}},
		},
		{
			name:  "underscore matches literally",
			query: "e_c",
			want:  []types.ItemLocation{{Slot: 2, Shelf: "Front", Ordinal: 2, Item: "snake_case"}},
		},
		{
			name:  "non-ascii folding",
			query: "šUNKA",
			want:  []types.ItemLocation{{Slot: 30, Shelf: "Ünïcode", Ordinal: 0, Item: "Šunka"}},
		},
		{
			name:  "no match",
			query: "bread",
			want:  []types.ItemLocation{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := findItems(db, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\%b\_c\\d`, escapeLike(`a%b_c\d`))
}
