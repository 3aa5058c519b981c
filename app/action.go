package app

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/focusflow/internal/config"
	"github.com/ayoisaiah/focusflow/internal/engine"
	"github.com/ayoisaiah/focusflow/internal/notify"
	"github.com/ayoisaiah/focusflow/internal/osutil"
	"github.com/ayoisaiah/focusflow/internal/pathutil"
	"github.com/ayoisaiah/focusflow/internal/sound"
	"github.com/ayoisaiah/focusflow/internal/timeutil"
	"github.com/ayoisaiah/focusflow/internal/ui"
	"github.com/ayoisaiah/focusflow/report"
	"github.com/ayoisaiah/focusflow/stats"
	"github.com/ayoisaiah/focusflow/store"
	"github.com/ayoisaiah/focusflow/timer"
)

const (
	envNoColor          = "NO_COLOR"
	envFocusFlowNoColor = "FOCUSFLOW_NO_COLOR"
)

// logger is set up in beforeAction and closed in afterAction.
var (
	logger    = slog.New(slog.DiscardHandler)
	logCloser io.Closer
)

// printState prints a one-line summary of the timer state.
func printState(s engine.State) {
	pterm.Println(timer.NewStatus(s, time.Now()).Line(time.Now()))
}

// withEngine opens the runtime, applies fn to the engine and prints the
// resulting state.
func withEngine(
	ctx *cli.Context,
	fn func(r *runtime) engine.State,
) (err error) {
	r, err := openRuntime(ctx, logger)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := r.Close(); err == nil {
			err = cerr
		}
	}()

	if r.engine.Resynced() {
		report.Warn("the timer was away too long to catch up and the current phase was reset")
	}

	printState(fn(r))

	return nil
}

// defaultAction runs the timer in the foreground until the user quits.
func defaultAction(ctx *cli.Context) (err error) {
	r, err := openRuntime(ctx, logger)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := r.Close(); err == nil {
			err = cerr
		}
	}()

	ui.DarkTheme = r.cfg.Display.DarkTheme

	sigCtx, stop := signal.NotifyContext(
		ctx.Context,
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	t := timer.New(r.engine, timer.Options{
		StatusFile:     pathutil.StatusFilePath(),
		Preset:         r.cfg.Preset(),
		TwentyFourHour: r.cfg.Settings.TwentyFourHour,
		Plain:          r.cfg.CLI.Plain,
	}, logger, time.Now)

	return t.Run(sigCtx)
}

func startAction(ctx *cli.Context) error {
	return withEngine(ctx, func(r *runtime) engine.State {
		return r.engine.Start()
	})
}

func pauseAction(ctx *cli.Context) error {
	return withEngine(ctx, func(r *runtime) engine.State {
		return r.engine.Pause()
	})
}

func resetAction(ctx *cli.Context) error {
	return withEngine(ctx, func(r *runtime) engine.State {
		return r.engine.Reset(r.cfg.Preset())
	})
}

// statusAction prints the timer status. While another process holds the
// database, the status file written by that process is reported instead.
func statusAction(ctx *cli.Context) error {
	err := withEngine(ctx, func(r *runtime) engine.State {
		return r.engine.Snapshot()
	})
	if store.IsLocked(err) {
		return timer.ReportStatus(
			config.Stdout,
			pathutil.StatusFilePath(),
			time.Now(),
		)
	}

	return err
}

// presetsAction lists the presets and marks the selected one.
func presetsAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx, logger)
	if err != nil {
		return err
	}

	selected := cfg.Preset()

	rows := [][]string{{"", "NAME", "FOCUS", "BREAK", "CYCLES"}}

	for _, p := range cfg.Catalog().List() {
		mark := ""
		if p == selected {
			mark = ui.Green("●")
		}

		rows = append(rows, []string{
			mark,
			p.Name,
			fmt.Sprintf("%dm", p.FocusMinutes),
			fmt.Sprintf("%dm", p.BreakMinutes),
			fmt.Sprintf("%d", p.Cycles),
		})
	}

	ui.PrintTable(rows, config.Stdout)

	return nil
}

// statsQuery builds the reporting window from the --period, --start and
// --end flags.
func statsQuery(ctx *cli.Context, now time.Time) (stats.Query, error) {
	q := stats.Query{
		Period: timeutil.Period(strings.ToLower(ctx.String("period"))),
	}

	if !stats.ValidPeriod(q.Period) {
		return q, errInvalidPeriod.Fmt(q.Period, periods())
	}

	if s := ctx.String("start"); s != "" {
		start, err := timeutil.FromStr(s, now)
		if err != nil {
			return q, err
		}

		q.Start = timeutil.RoundToStart(start)
	}

	if e := ctx.String("end"); e != "" {
		end, err := timeutil.FromStr(e, now)
		if err != nil {
			return q, err
		}

		q.End = timeutil.RoundToEnd(end)

		if q.Start.IsZero() {
			q.Start = timeutil.PeriodStart(q.Period, now)
		}
	}

	return q, nil
}

func withStats(ctx *cli.Context, fn func(r *runtime) error) (err error) {
	cfg, err := loadConfig(ctx, logger)
	if err != nil {
		return err
	}

	r, err := openStore(cfg, logger)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := r.Close(); err == nil {
			err = cerr
		}
	}()

	return fn(r)
}

// statsAction prints the summary or the session list for the window.
func statsAction(ctx *cli.Context) error {
	now := time.Now()

	q, err := statsQuery(ctx, now)
	if err != nil {
		return err
	}

	return withStats(ctx, func(r *runtime) error {
		if ctx.Bool("list") {
			start, end := q.Bounds(now)

			sessions, err := r.source.Sessions(ctx.Context, start, end)
			if err != nil {
				return err
			}

			stats.List(config.Stdout, sessions)

			return nil
		}

		sessions, err := r.source.Sessions(ctx.Context, time.Time{}, time.Time{})
		if err != nil {
			return err
		}

		summary := stats.Summarize(sessions, q, now)

		format := stats.FormatText

		switch {
		case ctx.Bool("json"):
			format = stats.FormatJSON
		case ctx.Bool("yaml"):
			format = stats.FormatYAML
		}

		return stats.Print(config.Stdout, &summary, format)
	})
}

// statsServeAction serves the stats API until interrupted.
func statsServeAction(ctx *cli.Context) error {
	return withStats(ctx, func(r *runtime) error {
		sigCtx, stop := signal.NotifyContext(
			ctx.Context,
			os.Interrupt,
			syscall.SIGTERM,
		)
		defer stop()

		router := stats.NewRouter(r.source, logger, time.Now)

		return stats.Serve(sigCtx, ctx.Uint("port"), router)
	})
}

// statsDeleteAction deletes the sessions in the window after confirmation.
func statsDeleteAction(ctx *cli.Context) error {
	now := time.Now()

	q, err := statsQuery(ctx, now)
	if err != nil {
		return err
	}

	return withStats(ctx, func(r *runtime) error {
		start, end := q.Bounds(now)

		n, err := stats.Delete(
			ctx.Context,
			r.source,
			r.pruner,
			start,
			end,
			config.Stdin,
			config.Stdout,
		)
		if err != nil {
			return err
		}

		if n > 0 {
			pterm.Success.Printfln("%d sessions deleted", n)
		}

		return nil
	})
}

// soundsAction lists the available cue sounds and optionally plays the
// configured ones.
func soundsAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx, logger)
	if err != nil {
		return err
	}

	names, err := sound.List(pathutil.SoundsDir())
	if err != nil {
		return err
	}

	pterm.Info.Printfln("Custom sounds are read from %s", pathutil.SoundsDir())

	rows := [][]string{{"SOUND"}, {"tone"}}
	for _, n := range names {
		rows = append(rows, []string{n})
	}

	ui.PrintTable(rows, config.Stdout)

	if !ctx.Bool("play") {
		return nil
	}

	r := &runtime{cfg: cfg, logger: logger}
	player := sound.NewPlayer(cfg.Sound.Volume, r.soundFiles())

	for _, cue := range sound.Cues {
		pterm.Println(cue)

		if err := player.Play(cue); err != nil {
			return err
		}
	}

	return nil
}

// testNotifyAction shows a sample notification.
func testNotifyAction(_ *cli.Context) error {
	msg := notify.Compose(notify.Test, 0, 0)

	return notify.NewDesktop(pathutil.IconFilePath()).
		Notify(msg.Title, msg.Body, msg.Category)
}

// resetDataAction deletes the timer state and all local session records
// after confirmation.
func resetDataAction(ctx *cli.Context) error {
	fmt.Fprint(config.Stdout, pterm.Warning.Sprint(
		"The timer state and all recorded sessions will be deleted. Type 'yes' to proceed: ",
	))

	answer, _ := bufio.NewReader(config.Stdin).ReadString('\n')
	if !strings.EqualFold(strings.TrimSpace(answer), "yes") {
		return nil
	}

	return withStats(ctx, func(r *runtime) error {
		if err := r.db.DeleteAll(); err != nil {
			return err
		}

		if r.cfg.StatsBackend() == stats.BackendSQLite {
			_, err := r.pruner.DeleteSessions(ctx.Context, time.Time{}, time.Time{})
			if err != nil {
				return err
			}
		}

		_ = os.Remove(pathutil.StatusFilePath())

		pterm.Success.Println("All data has been reset")

		return nil
	})
}

// editConfigAction opens the config file in the user's editor.
func editConfigAction(_ *cli.Context) error {
	return osutil.OpenInEditor(pathutil.ConfigFilePath())
}

func beforeAction(ctx *cli.Context) error {
	// Override the default help template
	cli.AppHelpTemplate = helpText()

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	if _, exists := os.LookupEnv(envFocusFlowNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	if err := pathutil.Initialize(); err != nil {
		return err
	}

	logger, logCloser = newLogger(logLevel)

	logger.Info(
		"starting focusflow",
		slog.String("command", ctx.Args().First()),
		slog.String("version", config.Version),
	)

	return nil
}

func afterAction(ctx *cli.Context) error {
	logger.InfoContext(ctx.Context, "exiting focusflow")

	if logCloser != nil {
		return logCloser.Close()
	}

	return nil
}
