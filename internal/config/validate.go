package config

import (
	"slices"
	"strings"

	"github.com/ayoisaiah/focusflow/internal/preset"
	"github.com/ayoisaiah/focusflow/stats"
)

const (
	minVolume = 0
	maxVolume = 100

	minRequestsPerMinute = 1
	maxRequestsPerMinute = 600
)

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate clamps numeric settings into range and rejects values that
// cannot be corrected, such as an unknown preset or stats backend.
func (c *Config) Validate() error {
	c.clamp()

	if err := c.validateTimer(); err != nil {
		return err
	}

	if _, err := c.DispatchSettings(); err != nil {
		return err
	}

	if err := c.validateStats(); err != nil {
		return err
	}

	level := strings.ToLower(strings.TrimSpace(c.Log.Level))
	if level != "" && !slices.Contains(logLevels, level) {
		return errInvalidLogLevel.Fmt(c.Log.Level)
	}

	return nil
}

func (c *Config) clamp() {
	custom := preset.ResolveCustom(
		c.Timer.Custom.Focus,
		c.Timer.Custom.Break,
		c.Timer.Custom.Cycles,
	)

	c.Timer.Custom = CustomConfig{
		Focus:  custom.FocusMinutes,
		Break:  custom.BreakMinutes,
		Cycles: custom.Cycles,
	}

	c.Sound.Volume = min(max(c.Sound.Volume, minVolume), maxVolume)

	c.Stats.RequestsPerMinute = min(
		max(c.Stats.RequestsPerMinute, minRequestsPerMinute),
		maxRequestsPerMinute,
	)
}

func (c *Config) validateTimer() error {
	if strings.TrimSpace(c.Timer.Preset) == "" {
		c.Timer.Preset = preset.Default().Name
	}

	if _, ok := c.Catalog().Lookup(c.Timer.Preset); !ok {
		return errUnknownPreset.Fmt(c.Timer.Preset)
	}

	return nil
}

func (c *Config) validateStats() error {
	if c.Stats.Backend == "" {
		c.Stats.Backend = string(stats.BackendBolt)
	}

	backend := c.StatsBackend()

	if !slices.Contains(stats.Backends, backend) {
		return errUnknownBackend.Fmt(c.Stats.Backend, stats.Backends)
	}

	if backend == stats.BackendHTTP && strings.TrimSpace(c.Stats.Endpoint) == "" {
		return errMissingEndpoint
	}

	return nil
}
