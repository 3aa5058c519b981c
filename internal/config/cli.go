package config

import (
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/focusflow/internal/preset"
)

// CLIOptions represents command-line configuration options.
type CLIOptions struct {
	Preset         string
	SessionCmd     string
	Focus          int
	Break          int
	Cycles         int
	NoNotify       bool
	NoSound        bool
	AutoStartFocus bool
	Plain          bool
	NoColor        bool
}

// WithCLIConfig returns an Option that loads configuration from CLI flags.
func WithCLIConfig(ctx *cli.Context) Option {
	return func(c *Config) error {
		opts := CLIOptions{
			Preset:         ctx.String("preset"),
			SessionCmd:     ctx.String("session-cmd"),
			Focus:          ctx.Int("focus"),
			Break:          ctx.Int("break"),
			Cycles:         ctx.Int("cycles"),
			NoNotify:       ctx.Bool("no-notify"),
			NoSound:        ctx.Bool("no-sound"),
			AutoStartFocus: ctx.Bool("auto-start-focus"),
			Plain:          ctx.Bool("plain"),
			NoColor:        ctx.Bool("no-color"),
		}

		applyCLIOptions(c, opts)

		return nil
	}
}

// applyCLIOptions applies CLI options to the config. Setting any of the
// interval flags edits the custom preset and selects it.
func applyCLIOptions(c *Config, opts CLIOptions) {
	if opts.Preset != "" {
		c.Timer.Preset = opts.Preset
	}

	if opts.Focus > 0 || opts.Break > 0 || opts.Cycles > 0 {
		if opts.Focus > 0 {
			c.Timer.Custom.Focus = opts.Focus
		}

		if opts.Break > 0 {
			c.Timer.Custom.Break = opts.Break
		}

		if opts.Cycles > 0 {
			c.Timer.Custom.Cycles = opts.Cycles
		}

		c.Timer.Preset = preset.CustomName
	}

	if opts.NoNotify {
		c.Notifications.Enabled = false
	}

	if opts.NoSound {
		c.Sound.Enabled = false
	}

	if opts.AutoStartFocus {
		c.Settings.AutoStartFocus = true
	}

	if opts.SessionCmd != "" {
		c.Settings.Cmd = opts.SessionCmd
	}

	c.CLI.Plain = opts.Plain
	c.CLI.NoColor = opts.NoColor
}
