// Package preset defines the catalog of focus/break interval presets
package preset

import (
	"fmt"
	"strings"
)

// CustomName is the name of the user-editable preset.
const CustomName = "Custom"

const (
	MinFocusMinutes = 1
	MaxFocusMinutes = 180
	MinBreakMinutes = 1
	MaxBreakMinutes = 60
	MinCycles       = 1
	MaxCycles       = 10
)

// Preset is a named (focus, break, cycles) triple. A preset is treated as a
// value: selecting one copies it into the timer state.
type Preset struct {
	Name         string `json:"name" yaml:"name"`
	FocusMinutes int    `json:"focusMinutes" yaml:"focus_minutes"`
	BreakMinutes int    `json:"breakMinutes" yaml:"break_minutes"`
	Cycles       int    `json:"cycles" yaml:"cycles"`
}

var builtin = []Preset{
	{Name: "Pomodoro", FocusMinutes: 25, BreakMinutes: 5, Cycles: 4},
	{Name: "52/17", FocusMinutes: 52, BreakMinutes: 17, Cycles: 4},
	{Name: "90/20", FocusMinutes: 90, BreakMinutes: 20, Cycles: 4},
	{Name: "20/20/20", FocusMinutes: 20, BreakMinutes: 2, Cycles: 4},
}

func (p Preset) String() string {
	return fmt.Sprintf(
		"%s (%dm focus / %dm break × %d)",
		p.Name,
		p.FocusMinutes,
		p.BreakMinutes,
		p.Cycles,
	)
}

// IsCustom reports whether p is the user-editable preset.
func (p Preset) IsCustom() bool {
	return strings.EqualFold(p.Name, CustomName)
}

// Default returns the preset used when no other has been selected.
func Default() Preset {
	return builtin[0]
}

// Catalog is an ordered list of the built-in presets followed by the
// current custom preset.
type Catalog struct {
	custom Preset
}

// NewCatalog creates a catalog whose custom entry is resolved from the given
// values.
func NewCatalog(focusMinutes, breakMinutes, cycles int) *Catalog {
	return &Catalog{
		custom: ResolveCustom(focusMinutes, breakMinutes, cycles),
	}
}

// List returns the presets in display order.
func (c *Catalog) List() []Preset {
	list := make([]Preset, 0, len(builtin)+1)
	list = append(list, builtin...)

	return append(list, c.custom)
}

// Custom returns the current custom preset.
func (c *Catalog) Custom() Preset {
	return c.custom
}

// SetCustom replaces the custom preset with clamped values and returns it.
func (c *Catalog) SetCustom(focusMinutes, breakMinutes, cycles int) Preset {
	c.custom = ResolveCustom(focusMinutes, breakMinutes, cycles)

	return c.custom
}

// Lookup finds a preset by name, ignoring case.
func (c *Catalog) Lookup(name string) (Preset, bool) {
	name = strings.TrimSpace(name)

	for _, p := range c.List() {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}

	return Preset{}, false
}

// ResolveCustom builds the custom preset, clamping every value into its
// permitted range instead of rejecting it.
func ResolveCustom(focusMinutes, breakMinutes, cycles int) Preset {
	return Preset{
		Name:         CustomName,
		FocusMinutes: clamp(focusMinutes, MinFocusMinutes, MaxFocusMinutes),
		BreakMinutes: clamp(breakMinutes, MinBreakMinutes, MaxBreakMinutes),
		Cycles:       clamp(cycles, MinCycles, MaxCycles),
	}
}

// Normalize clamps the values of an arbitrary preset, such as one read back
// from storage, while keeping its name.
func Normalize(p Preset) Preset {
	name := p.Name
	p = ResolveCustom(p.FocusMinutes, p.BreakMinutes, p.Cycles)

	if name != "" {
		p.Name = name
	}

	return p
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
