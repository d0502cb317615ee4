// Package sqlite implements the shop workspace backend. The map file
// (shop_map.json) is the source of truth; SQLite holds an item index over
// it for queries.
package sqlite

// File names inside the data directory.
const (
	DBFileName = "shopmap.db"
)

// Schema DDL for the item index.
const (
	createShelves = `CREATE TABLE shelves (
    slot INTEGER PRIMARY KEY,
    shelf_index INTEGER NOT NULL,
    name TEXT NOT NULL,
    color INTEGER NOT NULL
);`

	createItems = `CREATE TABLE items (
    slot INTEGER NOT NULL,
    ordinal INTEGER NOT NULL,
    item TEXT NOT NULL,
    folded TEXT NOT NULL,
    PRIMARY KEY (slot, ordinal),
    FOREIGN KEY (slot) REFERENCES shelves(slot) ON DELETE CASCADE
);`
)

// Index DDL for common queries.
const (
	idxItemsFolded  = `CREATE INDEX idx_items_folded ON items(folded);`
	idxShelvesIndex = `CREATE INDEX idx_shelves_index ON shelves(shelf_index);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createShelves,
	createItems,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxItemsFolded,
	idxShelvesIndex,
}
