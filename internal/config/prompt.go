package config

import (
	"errors"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/ayoisaiah/focusflow/internal/preset"
)

const asciiLogo = `
┌─┐┌─┐┌─┐┬ ┬┌─┐┌─┐┬  ┌─┐┬ ┬
├┤ │ ││  │ │└─┐├┤ │  │ ││││
└  └─┘└─┘└─┘└─┘└  ┴─┘└─┘└┴┘`

// PromptOptions holds the user's responses to the configuration prompts.
type PromptOptions struct {
	Preset       string
	FocusMinutes int
	BreakMinutes int
	Cycles       int
}

// WithPromptConfig returns an Option that asks for the preset on the first
// run, before the config file exists.
func WithPromptConfig(configPath string) Option {
	return func(c *Config) error {
		_, err := os.Stat(configPath)
		if err == nil || !errors.Is(err, os.ErrNotExist) {
			return err
		}

		def := preset.Default()

		opts, err := promptUser(
			preset.NewCatalog(def.FocusMinutes, def.BreakMinutes, def.Cycles),
		)
		if err != nil {
			return errPrompt.Wrap(err)
		}

		applyPromptOptions(c, opts)

		return nil
	}
}

// promptUser handles the interactive configuration process.
func promptUser(catalog *preset.Catalog) (PromptOptions, error) {
	def := preset.Default()

	opts := PromptOptions{
		Preset:       def.Name,
		FocusMinutes: def.FocusMinutes,
		BreakMinutes: def.BreakMinutes,
		Cycles:       def.Cycles,
	}

	pterm.Println(asciiLogo)

	_ = putils.BulletListFromString(`Follow the prompts below to configure FocusFlow for the first time.
Select your preferred value, or press ENTER to accept the defaults.
Edit the config file with 'focusflow edit-config' to change any settings.`, " ").
		Render()

	options := make([]huh.Option[string], 0, len(catalog.List()))

	for _, p := range catalog.List() {
		o := huh.NewOption(p.String(), p.Name)
		if p.Name == def.Name {
			o = o.Selected(true)
		}

		options = append(options, o)
	}

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Timer preset").
				Options(options...).
				Value(&opts.Preset),
		),
	).Run()
	if err != nil {
		return opts, err
	}

	if opts.Preset != preset.CustomName {
		return opts, nil
	}

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Focus session length").
				Options(
					huh.NewOption("25 minutes", 25).Selected(true),
					huh.NewOption("45 minutes", 45),
					huh.NewOption("60 minutes", 60),
					huh.NewOption("90 minutes", 90),
				).
				Value(&opts.FocusMinutes),
			huh.NewSelect[int]().
				Title("Break length").
				Options(
					huh.NewOption("5 minutes", 5).Selected(true),
					huh.NewOption("10 minutes", 10),
					huh.NewOption("15 minutes", 15),
					huh.NewOption("20 minutes", 20),
				).
				Value(&opts.BreakMinutes),
			huh.NewSelect[int]().
				Title("Focus sessions per cycle").
				Options(
					huh.NewOption("2 sessions", 2),
					huh.NewOption("4 sessions", 4).Selected(true),
					huh.NewOption("6 sessions", 6),
					huh.NewOption("8 sessions", 8),
				).
				Value(&opts.Cycles),
		),
	).Run()

	return opts, err
}

// applyPromptOptions applies the user's prompt responses to the configuration.
func applyPromptOptions(c *Config, opts PromptOptions) {
	c.Timer.Preset = opts.Preset

	if opts.Preset == preset.CustomName {
		c.Timer.Custom = CustomConfig{
			Focus:  opts.FocusMinutes,
			Break:  opts.BreakMinutes,
			Cycles: opts.Cycles,
		}
	}
}
