// Package output renders benchmark results and strategy comparisons to the
// console, and serializes them as JSON for machine capture.
package output

import (
	"github.com/fatih/color"
)

// ColorScheme defines the colors used for different elements in the output
type ColorScheme struct {
	Header    *color.Color
	Scenario  *color.Color
	Strategy  *color.Color
	Label     *color.Color
	Value     *color.Color
	Better    *color.Color
	Worse     *color.Color
	Undefined *color.Color
	Error     *color.Color
}

// DefaultColorScheme returns the default color scheme
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Header:    color.New(color.FgCyan, color.Bold),
		Scenario:  color.New(color.FgMagenta, color.Bold),
		Strategy:  color.New(color.FgBlue, color.Bold),
		Label:     color.New(color.FgYellow),
		Value:     color.New(color.FgWhite),
		Better:    color.New(color.FgGreen),
		Worse:     color.New(color.FgRed),
		Undefined: color.New(color.FgYellow),
		Error:     color.New(color.FgRed, color.Bold),
	}
}

// NoColorScheme returns a color scheme with all colors disabled
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()

	// Disable all colors
	scheme.Header.DisableColor()
	scheme.Scenario.DisableColor()
	scheme.Strategy.DisableColor()
	scheme.Label.DisableColor()
	scheme.Value.DisableColor()
	scheme.Better.DisableColor()
	scheme.Worse.DisableColor()
	scheme.Undefined.DisableColor()
	scheme.Error.DisableColor()

	return scheme
}
