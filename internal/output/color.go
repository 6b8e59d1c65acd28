// Package output provides styled terminal rendering helpers for
// shoorah-insights.
package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color constants for consistent styling across the CLI.
var (
	// ColorHeader is used for section headers and emphasis.
	ColorHeader = lipgloss.Color("#64b5f6")

	// ColorPositive is used for positive percentages and rising good trends.
	ColorPositive = lipgloss.Color("#66bb6a")

	// ColorNegative is used for negative percentages and worsening trends.
	ColorNegative = lipgloss.Color("#ef5350")

	// ColorNeutral is used for balanced results.
	ColorNeutral = lipgloss.Color("#fff59d")

	// ColorMuted is used for secondary text and separators.
	ColorMuted = lipgloss.Color("#888888")
)

// Styles provides reusable lipgloss styles.
var (
	// StyleHeader is used for section headers.
	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorHeader).
			Bold(true)

	// StylePositive is used for positive channel values.
	StylePositive = lipgloss.NewStyle().
			Foreground(ColorPositive)

	// StyleNegative is used for negative channel values.
	StyleNegative = lipgloss.NewStyle().
			Foreground(ColorNegative)

	// StyleNeutral is used for balanced values.
	StyleNeutral = lipgloss.NewStyle().
			Foreground(ColorNeutral)

	// StyleMuted is used for de-emphasized text.
	StyleMuted = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// StyleLabel is used for report field labels.
	StyleLabel = lipgloss.NewStyle().Width(22)
)

// noColor tracks whether color output is disabled.
var noColor bool

// SetNoColor disables or enables color output globally. When disabled, all
// package-level styles are reassigned to unstyled renderers.
func SetNoColor(disabled bool) {
	noColor = disabled
	if disabled {
		plain := lipgloss.NewStyle()
		StyleHeader = plain
		StylePositive = plain
		StyleNegative = plain
		StyleNeutral = plain
		StyleMuted = plain
		StyleLabel = plain.Width(22)
	}
}

// NoColor reports whether color output is currently disabled.
func NoColor() bool {
	return noColor
}

// AutoColor disables color when stdout is not a terminal.
func AutoColor() {
	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		SetNoColor(true)
	}
}
