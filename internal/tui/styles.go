package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/shopmap/pkg/types"
)

// cellWidth is the inner width of one grid cell.
const cellWidth = 12

var (
	ink       = lipgloss.Color("#101F38")
	highlight = lipgloss.Color("#FFC107")
	danger    = lipgloss.Color("#E53935")
	muted     = lipgloss.Color("#6B7280")
)

// Styles holds the editor's lipgloss styles.
type Styles struct {
	Title  lipgloss.Style
	Cell   lipgloss.Style
	Cursor lipgloss.Style
	Dialog lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
	Help   lipgloss.Style
}

// DefaultStyles returns the editor's default styles.
func DefaultStyles() Styles {
	cell := lipgloss.NewStyle().
		Width(cellWidth).
		Align(lipgloss.Center).
		Foreground(ink).
		Border(lipgloss.HiddenBorder())

	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Cell:   cell,
		Cursor: cell.Border(lipgloss.ThickBorder()).BorderForeground(highlight).Bold(true),
		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(highlight).
			Padding(0, 1),
		Status: lipgloss.NewStyle().Foreground(muted),
		Error:  lipgloss.NewStyle().Foreground(danger).Bold(true),
		Help:   lipgloss.NewStyle().Foreground(muted).MarginTop(1),
	}
}

// fill returns base painted with c as background.
func fill(base lipgloss.Style, c types.Color) lipgloss.Style {
	return base.Background(lipgloss.Color(c.RGBHex()))
}
