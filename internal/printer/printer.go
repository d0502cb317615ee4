// Package printer renders shop maps and status messages for the terminal.
package printer

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/mesh-intelligence/shopmap/pkg/types"
)

var (
	// Color definitions
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
	faint  = color.New(color.Faint)
)

// CellWidth is the visible width of one grid cell, excluding borders.
const CellWidth = 14

// emptyCell marks a slot without a shelf.
const emptyCell = "·"

// Success prints a success message in green with a checkmark prefix
func Success(w io.Writer, format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "✓") {
		msg = "✓ " + msg
	}
	green.Fprintln(w, msg)
}

// Info prints an informational message in the default color
func Info(w io.Writer, format string, a ...any) {
	fmt.Fprintf(w, format+"\n", a...)
}

// Warning prints a warning message in yellow with a warning prefix
func Warning(w io.Writer, format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "⚠") {
		msg = "⚠  " + msg
	}
	yellow.Fprintln(w, msg)
}

// Error prints a title in red followed by an explanation and optional
// suggestions.
func Error(w io.Writer, title, explanation string, suggestions []string) {
	red.Fprintln(w, title)
	if explanation != "" {
		fmt.Fprintf(w, "\n%s\n", explanation)
	}

	switch len(suggestions) {
	case 0:
	case 1:
		fmt.Fprintf(w, "\n%s\n", suggestions[0])
	default:
		fmt.Fprintf(w, "\nEither:\n")
		for i, suggestion := range suggestions {
			fmt.Fprintf(w, "  %d. %s\n", i+1, suggestion)
		}
	}
}

// Step prints a step message with emphasis
func Step(w io.Writer, format string, a ...any) {
	cyan.Fprintf(w, "→ %s\n", fmt.Sprintf(format, a...))
}

// Grid renders slots as GridRows lines of GridColumns cells. Occupied
// cells show the shelf name and item count on the shelf's own color;
// empty cells show a dot on the empty-slot color.
func Grid(w io.Writer, slots types.Slots) {
	for row := 0; row < types.GridRows; row++ {
		var b strings.Builder
		for col := 0; col < types.GridColumns; col++ {
			if col > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(cell(slots[types.IndexAt(row, col)]))
		}
		fmt.Fprintln(w, b.String())
	}
}

func cell(shelf *types.Shelf) string {
	if shelf == nil {
		return paint(types.EmptySlotColor).Sprint(pad(emptyCell))
	}
	label := fmt.Sprintf("%s (%d)", shelf.Name, len(shelf.Items))
	return paint(shelf.Color).Sprint(pad(label))
}

// paint returns a background color for c with black text.
func paint(c types.Color) *color.Color {
	return color.BgRGB(int(c.R()), int(c.G()), int(c.B())).Add(color.FgBlack)
}

// pad centers s in a CellWidth cell, truncating with an ellipsis.
func pad(s string) string {
	n := utf8.RuneCountInString(s)
	if n > CellWidth {
		runes := []rune(s)
		s = string(runes[:CellWidth-1]) + "…"
		n = CellWidth
	}
	left := (CellWidth - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", CellWidth-n-left)
}

// Shelf prints one shelf with its slot, color, and numbered items.
func Shelf(w io.Writer, slot int, shelf *types.Shelf) {
	if shelf == nil {
		faint.Fprintf(w, "slot %d is empty\n", slot)
		return
	}
	cyan.Fprintf(w, "%s", shelf.Name)
	fmt.Fprintf(w, " (slot %d, %s)\n", slot, shelf.Color)
	if len(shelf.Items) == 0 {
		faint.Fprintln(w, "  no items")
		return
	}
	for i, item := range shelf.Items {
		fmt.Fprintf(w, "  %d. %s\n", i+1, item)
	}
}

// Locations prints search results, one item per line.
func Locations(w io.Writer, locs []types.ItemLocation) {
	if len(locs) == 0 {
		faint.Fprintln(w, "no items found")
		return
	}
	for _, loc := range locs {
		fmt.Fprintf(w, "slot %-2d  %s  #%d  %s\n", loc.Slot, loc.Shelf, loc.Ordinal+1, loc.Item)
	}
}
