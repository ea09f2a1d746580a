// Package tui renders a popup session as an interactive Bubble Tea
// form in the terminal: one widget per visible element, with nesting
// re-resolved after every change so conditional elements appear and
// disappear as the user edits values.
package tui

import "github.com/charmbracelet/lipgloss"

// Widget glyphs convey state without relying on color alone.
const (
	GlyphChecked   = "☑"
	GlyphUnchecked = "☐"
	GlyphCursor    = "▸"
	GlyphKnob      = "●"
	GlyphTrack     = "─"
)

// Palette adapts to terminal capabilities via lipgloss.
var (
	colorGreen  = lipgloss.Color("42")
	colorRed    = lipgloss.Color("196")
	colorYellow = lipgloss.Color("214")
	colorCyan   = lipgloss.Color("51")
	colorDim    = lipgloss.Color("240")
	colorWhite  = lipgloss.Color("255")
)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorCyan).
	Padding(0, 1)

// --- Widget styles ---

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(colorWhite)

	focusedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorYellow)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	descStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	trackStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	knobStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true)
)

// --- Group border ---

var groupBorder = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorDim).
	Padding(0, 1)

var groupTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorCyan)

// --- Key bar styles ---

var (
	keyStyle = lipgloss.NewStyle().
			Foreground(colorCyan).
			Bold(true)

	keyDescStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

// --- Error style ---

var errorStyle = lipgloss.NewStyle().
	Foreground(colorRed).
	Bold(true)
