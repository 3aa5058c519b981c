// Package config resolves the application settings from the config file,
// command-line flags and the first-run prompt
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/ayoisaiah/focusflow/internal/dispatch"
	"github.com/ayoisaiah/focusflow/internal/engine"
	"github.com/ayoisaiah/focusflow/internal/notify"
	"github.com/ayoisaiah/focusflow/internal/preset"
	"github.com/ayoisaiah/focusflow/internal/sound"
	"github.com/ayoisaiah/focusflow/stats"
)

const Version = "v0.3.0"

type (
	// Config holds all configuration settings.
	Config struct {
		Timer         TimerConfig        `mapstructure:"timer"`
		Stats         StatsConfig        `mapstructure:"stats"`
		Sound         SoundConfig        `mapstructure:"sound"`
		Log           LogConfig          `mapstructure:"log"`
		Settings      SettingsConfig     `mapstructure:"settings"`
		CLI           CLIConfig          `mapstructure:"-"`
		Notifications NotificationConfig `mapstructure:"notifications"`
		Display       DisplayConfig      `mapstructure:"display"`
	}

	// TimerConfig selects the preset the timer runs.
	TimerConfig struct {
		Preset string       `mapstructure:"preset"`
		Custom CustomConfig `mapstructure:"custom"`
	}

	// CustomConfig holds the values of the custom preset in minutes.
	CustomConfig struct {
		Focus  int `mapstructure:"focus"`
		Break  int `mapstructure:"break"`
		Cycles int `mapstructure:"cycles"`
	}

	SettingsConfig struct {
		Cmd            string `mapstructure:"cmd"`
		AutoStartBreak bool   `mapstructure:"auto_start_break"`
		AutoStartFocus bool   `mapstructure:"auto_start_focus"`
		TwentyFourHour bool   `mapstructure:"24hr_clock"`
	}

	// NotificationConfig holds the master switch, the per-event switches
	// and the quiet hours window.
	NotificationConfig struct {
		QuietHours    QuietHoursConfig `mapstructure:"quiet_hours"`
		Enabled       bool             `mapstructure:"enabled"`
		FocusStart    bool             `mapstructure:"focus_start"`
		FocusEnd      bool             `mapstructure:"focus_end"`
		BreakStart    bool             `mapstructure:"break_start"`
		BreakEnd      bool             `mapstructure:"break_end"`
		CycleComplete bool             `mapstructure:"cycle_complete"`
	}

	QuietHoursConfig struct {
		Start   string `mapstructure:"start"`
		End     string `mapstructure:"end"`
		Enabled bool   `mapstructure:"enabled"`
	}

	// SoundConfig holds the audio settings. Each cue is either "tone", a
	// file in the sounds directory or an absolute path.
	SoundConfig struct {
		FocusStart string `mapstructure:"focus_start"`
		FocusEnd   string `mapstructure:"focus_end"`
		BreakStart string `mapstructure:"break_start"`
		BreakEnd   string `mapstructure:"break_end"`
		Volume     int    `mapstructure:"volume"`
		Enabled    bool   `mapstructure:"enabled"`
	}

	StatsConfig struct {
		Backend           string `mapstructure:"backend"`
		SQLitePath        string `mapstructure:"sqlite_path"`
		Endpoint          string `mapstructure:"endpoint"`
		Token             string `mapstructure:"token"`
		RequestsPerMinute int    `mapstructure:"requests_per_minute"`
	}

	DisplayConfig struct {
		DarkTheme bool `mapstructure:"dark_theme"`
	}

	LogConfig struct {
		Level string `mapstructure:"level"`
	}

	// CLIConfig holds values that only exist for the current invocation.
	CLIConfig struct {
		Plain   bool
		NoColor bool
	}

	// Option is a function that modifies Config.
	Option func(*Config) error
)

var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// New creates a new Config and applies options in order. The result is
// validated before it is returned.
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errConfigOption.Wrap(err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errConfigValidation.Wrap(err)
	}

	return cfg, nil
}

// Catalog returns the preset catalog with the configured custom entry.
func (c *Config) Catalog() *preset.Catalog {
	return preset.NewCatalog(
		c.Timer.Custom.Focus,
		c.Timer.Custom.Break,
		c.Timer.Custom.Cycles,
	)
}

// Preset returns the selected preset. Validate guarantees that the name
// resolves, so an unknown name only occurs on an unvalidated config.
func (c *Config) Preset() preset.Preset {
	p, ok := c.Catalog().Lookup(c.Timer.Preset)
	if !ok {
		return preset.Default()
	}

	return p
}

func (c *Config) Policy() engine.Policy {
	return engine.Policy{
		AutoStartBreak: c.Settings.AutoStartBreak,
		AutoStartFocus: c.Settings.AutoStartFocus,
	}
}

// DispatchSettings translates the effect switches into dispatcher settings.
func (c *Config) DispatchSettings() (dispatch.Settings, error) {
	n := c.Notifications

	quiet, err := dispatch.ParseQuietHours(
		n.QuietHours.Enabled,
		n.QuietHours.Start,
		n.QuietHours.End,
	)
	if err != nil {
		return dispatch.Settings{}, errInvalidQuietHours.Wrap(err)
	}

	return dispatch.Settings{
		Categories: map[notify.Category]bool{
			notify.FocusStart:    n.FocusStart,
			notify.FocusEnd:      n.FocusEnd,
			notify.BreakStart:    n.BreakStart,
			notify.BreakEnd:      n.BreakEnd,
			notify.CycleComplete: n.CycleComplete,
		},
		SessionCmd:  c.Settings.Cmd,
		QuietHours:  quiet,
		Notify:      n.Enabled,
		Sound:       c.Sound.Enabled,
		RecordStats: true,
	}, nil
}

// SoundFiles maps each cue to the configured sound.
func (c *Config) SoundFiles() map[sound.Cue]string {
	return map[sound.Cue]string{
		sound.FocusStart: c.Sound.FocusStart,
		sound.FocusEnd:   c.Sound.FocusEnd,
		sound.BreakStart: c.Sound.BreakStart,
		sound.BreakEnd:   c.Sound.BreakEnd,
	}
}

func (c *Config) StatsBackend() stats.Backend {
	return stats.Backend(strings.ToLower(c.Stats.Backend))
}

// LogLevel returns the configured level, falling back to info.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level

	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}

	return level
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"preset=%s backend=%s notify=%t sound=%t",
		c.Preset().Name,
		c.StatsBackend(),
		c.Notifications.Enabled,
		c.Sound.Enabled,
	)
}

// Dump renders every field of the config for debug logs. The stats token
// is masked.
func (c *Config) Dump() string {
	masked := *c
	if masked.Stats.Token != "" {
		masked.Stats.Token = "********"
	}

	cs := spew.ConfigState{
		Indent:                  "  ",
		DisableMethods:          true,
		DisablePointerAddresses: true,
		SortKeys:                true,
	}

	return cs.Sdump(masked)
}
