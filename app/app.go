// Package app composes the timer engine, its side effects and the stats
// backends behind the focusflow command-line interface
package app

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/focusflow/internal/config"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// Get retrieves the focusflow app instance.
func Get() *cli.App {
	flags := append(timerFlags(), plainFlag, noColorFlag)

	return &cli.App{
		Name: "focusflow",
		Usage: `
		FocusFlow is a Pomodoro-style focus timer for the command-line. The timer
		survives restarts: a session that ends while FocusFlow is closed is
		completed and recorded the next time it runs.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:   "start",
				Usage:  "Start or resume the timer in the background",
				Action: startAction,
			},
			{
				Name:   "pause",
				Usage:  "Pause the running timer",
				Action: pauseAction,
			},
			{
				Name:   "reset",
				Usage:  "Stop the timer and return to the first focus session",
				Action: resetAction,
			},
			{
				Name:   "status",
				Usage:  "Print the status of the timer",
				Action: statusAction,
			},
			{
				Name:   "presets",
				Usage:  "List the available presets",
				Action: presetsAction,
			},
			{
				Name: "stats",
				Usage: `
				Track your progress with detailed statistics reporting. Defaults to a
				reporting period of one week`,
				Flags: append(
					statsFilterFlags(),
					jsonFlag,
					yamlFlag,
					listFlag,
				),
				Action: statsAction,
				Subcommands: []*cli.Command{
					{
						Name:   "serve",
						Usage:  "Serve the statistics over HTTP",
						Flags:  []cli.Flag{statsPortFlag},
						Action: statsServeAction,
					},
					{
						Name:   "delete",
						Usage:  "Delete the sessions in the reporting window",
						Flags:  statsFilterFlags(),
						Action: statsDeleteAction,
					},
				},
			},
			{
				Name:   "sounds",
				Usage:  "List the sounds available for cues",
				Flags:  []cli.Flag{playFlag},
				Action: soundsAction,
			},
			{
				Name:   "test-notify",
				Usage:  "Show a sample desktop notification",
				Action: testNotifyAction,
			},
			{
				Name:   "reset-data",
				Usage:  "Delete the timer state and all recorded sessions",
				Action: resetDataAction,
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags:  flags,
		Action: defaultAction,
		Before: beforeAction,
		After:  afterAction,
	}
}
