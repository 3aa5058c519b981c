// Package ui holds the colours and table helpers shared by the CLI output
// and the timer view
package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
)

// DarkTheme selects the light colour variants, which read better on dark
// terminal backgrounds.
var DarkTheme bool

func pick(normal, light func(a ...any) string, a any) string {
	if DarkTheme {
		return light(a)
	}

	return normal(a)
}

func Green(a any) string {
	return pick(pterm.Green, pterm.LightGreen, a)
}

func Cyan(a any) string {
	return pick(pterm.Cyan, pterm.LightCyan, a)
}

func Blue(a any) string {
	return pick(pterm.Blue, pterm.LightBlue, a)
}

// PhaseColor is the accent used by the timer view for a focus or break
// phase.
func PhaseColor(focus bool) lipgloss.AdaptiveColor {
	if focus {
		return lipgloss.AdaptiveColor{Light: "#B5473A", Dark: "#E06C75"}
	}

	return lipgloss.AdaptiveColor{Light: "#3A7D44", Dark: "#98C379"}
}
