package app

import (
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/focusflow/internal/timeutil"
)

var (
	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	presetFlag = &cli.StringFlag{
		Name:    "preset",
		Aliases: []string{"p"},
		Usage:   "Select a preset by name (see 'focusflow presets'). Changing the preset resets the timer",
	}

	focusFlag = &cli.IntFlag{
		Name:    "focus",
		Aliases: []string{"f"},
		Usage:   "Focus duration in minutes for the custom preset (1-180)",
	}

	breakFlag = &cli.IntFlag{
		Name:    "break",
		Aliases: []string{"b"},
		Usage:   "Break duration in minutes for the custom preset (1-60)",
	}

	cyclesFlag = &cli.IntFlag{
		Name:    "cycles",
		Aliases: []string{"c"},
		Usage:   "Number of focus sessions per cycle for the custom preset (1-10)",
	}

	noNotifyFlag = &cli.BoolFlag{
		Name:    "no-notify",
		Aliases: []string{"d"},
		Usage:   "Disable desktop notifications",
	}

	noSoundFlag = &cli.BoolFlag{
		Name:  "no-sound",
		Usage: "Disable sound cues",
	}

	autoStartFocusFlag = &cli.BoolFlag{
		Name:  "auto-start-focus",
		Usage: "Start the next focus session automatically when a break ends",
	}

	sessionCmdFlag = &cli.StringFlag{
		Name:    "session-cmd",
		Aliases: []string{"cmd"},
		Usage:   "Execute an arbitrary command after each session",
	}

	plainFlag = &cli.BoolFlag{
		Name:  "plain",
		Usage: "Print the countdown on a single line instead of the full-screen view",
	}

	periodFlag = &cli.StringFlag{
		Name:    "period",
		Aliases: []string{"p"},
		Usage:   "Reporting period: " + periods(),
		Value:   string(timeutil.PeriodWeek),
	}

	startFlag = &cli.StringFlag{
		Name:    "start",
		Aliases: []string{"s"},
		Usage:   "Start date of the reporting window (e.g. '2025-03-01' or '2 weeks ago'). Overrides --period",
	}

	endFlag = &cli.StringFlag{
		Name:    "end",
		Aliases: []string{"e"},
		Usage:   "End date of the reporting window. Defaults to now",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the output as JSON",
	}

	yamlFlag = &cli.BoolFlag{
		Name:  "yaml",
		Usage: "Print the output as YAML",
	}

	listFlag = &cli.BoolFlag{
		Name:    "list",
		Aliases: []string{"l"},
		Usage:   "List the sessions in the reporting window instead of the summary",
	}

	statsPortFlag = &cli.UintFlag{
		Name:  "port",
		Usage: "Specify the port for the statistics server",
		Value: 1111,
	}

	playFlag = &cli.BoolFlag{
		Name:  "play",
		Usage: "Play every configured cue at the current volume",
	}
)

// timerFlags are accepted by every command that opens the timer.
func timerFlags() []cli.Flag {
	return []cli.Flag{
		presetFlag,
		focusFlag,
		breakFlag,
		cyclesFlag,
		noNotifyFlag,
		noSoundFlag,
		autoStartFocusFlag,
		sessionCmdFlag,
	}
}

func statsFilterFlags() []cli.Flag {
	return []cli.Flag{periodFlag, startFlag, endFlag}
}

func periods() string {
	var s string

	for i, p := range timeutil.PeriodCollection {
		if i > 0 {
			s += ", "
		}

		s += string(p)
	}

	return s
}
