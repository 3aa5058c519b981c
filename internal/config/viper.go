package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/ayoisaiah/focusflow/internal/osutil"
	"github.com/ayoisaiah/focusflow/internal/preset"
	"github.com/ayoisaiah/focusflow/stats"
)

// viperKeys defines the mapping between config keys and their Viper counterparts.
const (
	keyPreset               = "timer.preset"
	keyCustomFocus          = "timer.custom.focus"
	keyCustomBreak          = "timer.custom.break"
	keyCustomCycles         = "timer.custom.cycles"
	keyAutoStartBreak       = "settings.auto_start_break"
	keyAutoStartFocus       = "settings.auto_start_focus"
	keyTwentyFourHour       = "settings.24hr_clock"
	keySessionCmd           = "settings.cmd"
	keyNotificationsEnabled = "notifications.enabled"
	keyNotifyFocusStart     = "notifications.focus_start"
	keyNotifyFocusEnd       = "notifications.focus_end"
	keyNotifyBreakStart     = "notifications.break_start"
	keyNotifyBreakEnd       = "notifications.break_end"
	keyNotifyCycleComplete  = "notifications.cycle_complete"
	keyQuietHoursEnabled    = "notifications.quiet_hours.enabled"
	keyQuietHoursStart      = "notifications.quiet_hours.start"
	keyQuietHoursEnd        = "notifications.quiet_hours.end"
	keySoundEnabled         = "sound.enabled"
	keySoundVolume          = "sound.volume"
	keySoundFocusStart      = "sound.focus_start"
	keySoundFocusEnd        = "sound.focus_end"
	keySoundBreakStart      = "sound.break_start"
	keySoundBreakEnd        = "sound.break_end"
	keyStatsBackend         = "stats.backend"
	keyStatsSQLitePath      = "stats.sqlite_path"
	keyStatsEndpoint        = "stats.endpoint"
	keyStatsToken           = "stats.token"
	keyStatsRequestsPerMin  = "stats.requests_per_minute"
	keyDarkTheme            = "display.dark_theme"
	keyLogLevel             = "log.level"
)

// WithViperConfig returns an Option that loads configuration from Viper.
// A missing file is created with the defaults and any values already set
// on the config, such as those from the first-run prompt.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setupViper(v, c)

		err := v.ReadInConfig()
		if err == nil {
			return loadViperConfig(v, c)
		}

		if !errors.Is(err, os.ErrNotExist) {
			return errReadConfig.Wrap(err)
		}

		err = os.MkdirAll(filepath.Dir(configPath), osutil.DirPermission)
		if err != nil {
			return errWriteConfig.Wrap(err)
		}

		if err := v.WriteConfig(); err != nil {
			return errWriteConfig.Wrap(err)
		}

		return loadViperConfig(v, c)
	}
}

// setupViper configures Viper with defaults and prompt values.
func setupViper(v *viper.Viper, c *Config) {
	def := preset.Default()

	v.SetDefault(keyPreset, def.Name)
	v.SetDefault(keyCustomFocus, def.FocusMinutes)
	v.SetDefault(keyCustomBreak, def.BreakMinutes)
	v.SetDefault(keyCustomCycles, def.Cycles)
	v.SetDefault(keyAutoStartBreak, true)
	v.SetDefault(keyAutoStartFocus, false)
	v.SetDefault(keyTwentyFourHour, false)
	v.SetDefault(keySessionCmd, "")
	v.SetDefault(keyNotificationsEnabled, true)
	v.SetDefault(keyNotifyFocusStart, false)
	v.SetDefault(keyNotifyFocusEnd, true)
	v.SetDefault(keyNotifyBreakStart, false)
	v.SetDefault(keyNotifyBreakEnd, true)
	v.SetDefault(keyNotifyCycleComplete, true)
	v.SetDefault(keyQuietHoursEnabled, false)
	v.SetDefault(keyQuietHoursStart, "22:00")
	v.SetDefault(keyQuietHoursEnd, "08:00")
	v.SetDefault(keySoundEnabled, true)
	v.SetDefault(keySoundVolume, 70)
	v.SetDefault(keySoundFocusStart, "tone")
	v.SetDefault(keySoundFocusEnd, "tone")
	v.SetDefault(keySoundBreakStart, "tone")
	v.SetDefault(keySoundBreakEnd, "tone")
	v.SetDefault(keyStatsBackend, string(stats.BackendBolt))
	v.SetDefault(keyStatsSQLitePath, "")
	v.SetDefault(keyStatsEndpoint, "")
	v.SetDefault(keyStatsToken, "")
	v.SetDefault(keyStatsRequestsPerMin, 30)
	v.SetDefault(keyDarkTheme, true)
	v.SetDefault(keyLogLevel, "info")

	if c.Timer.Preset != "" {
		v.Set(keyPreset, c.Timer.Preset)
	}

	if c.Timer.Custom.Focus != 0 {
		v.Set(keyCustomFocus, c.Timer.Custom.Focus)
		v.Set(keyCustomBreak, c.Timer.Custom.Break)
		v.Set(keyCustomCycles, c.Timer.Custom.Cycles)
	}
}

// loadViperConfig loads configuration from Viper into the Config struct.
func loadViperConfig(v *viper.Viper, c *Config) error {
	if err := v.Unmarshal(c); err != nil {
		return errReadConfig.Wrap(err)
	}

	return nil
}
