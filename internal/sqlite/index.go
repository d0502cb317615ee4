// This file keeps the SQLite item index in step with the grid and answers
// item searches.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/shopmap/pkg/types"
)

// reindex replaces the index contents with slots in one transaction.
func reindex(db *sql.DB, slots types.Slots) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning reindex transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM items"); err != nil {
		return fmt.Errorf("clearing items: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM shelves"); err != nil {
		return fmt.Errorf("clearing shelves: %w", err)
	}

	shelfStmt, err := tx.Prepare("INSERT INTO shelves (slot, shelf_index, name, color) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing shelf insert: %w", err)
	}
	defer shelfStmt.Close()

	itemStmt, err := tx.Prepare("INSERT INTO items (slot, ordinal, item, folded) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing item insert: %w", err)
	}
	defer itemStmt.Close()

	for slot, shelf := range slots {
		if shelf == nil {
			continue
		}
		if _, err := shelfStmt.Exec(slot, shelf.Index, shelf.Name, int64(shelf.Color)); err != nil {
			return fmt.Errorf("indexing slot %d: %w", slot, err)
		}
		for ordinal, item := range shelf.Items {
			if _, err := itemStmt.Exec(slot, ordinal, item, strings.ToLower(item)); err != nil {
				return fmt.Errorf("indexing slot %d item %d: %w", slot, ordinal, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing reindex: %w", err)
	}
	return nil
}

// findItems returns items whose folded text contains the folded query.
func findItems(db *sql.DB, query string) ([]types.ItemLocation, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	rows, err := db.Query(
		`SELECT s.slot, s.name, i.ordinal, i.item
FROM items i JOIN shelves s ON s.slot = i.slot
WHERE i.folded LIKE ? ESCAPE '\'
ORDER BY i.slot, i.ordinal`,
		pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	results := []types.ItemLocation{}
	for rows.Next() {
		var loc types.ItemLocation
		if err := rows.Scan(&loc.Slot, &loc.Shelf, &loc.Ordinal, &loc.Item); err != nil {
			return nil, fmt.Errorf("scanning item row: %w", err)
		}
		results = append(results, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating item rows: %w", err)
	}
	return results, nil
}

// countIndexed returns the number of indexed shelves and items.
func countIndexed(db *sql.DB) (shelves, items int, err error) {
	if err := db.QueryRow("SELECT COUNT(*) FROM shelves").Scan(&shelves); err != nil {
		return 0, 0, fmt.Errorf("counting shelves: %w", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM items").Scan(&items); err != nil {
		return 0, 0, fmt.Errorf("counting items: %w", err)
	}
	return shelves, items, nil
}

// escapeLike escapes LIKE wildcards so the query matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
