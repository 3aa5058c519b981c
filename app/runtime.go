package app

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/focusflow/internal/config"
	"github.com/ayoisaiah/focusflow/internal/dispatch"
	"github.com/ayoisaiah/focusflow/internal/engine"
	"github.com/ayoisaiah/focusflow/internal/notify"
	"github.com/ayoisaiah/focusflow/internal/pathutil"
	"github.com/ayoisaiah/focusflow/internal/sound"
	"github.com/ayoisaiah/focusflow/stats"
	"github.com/ayoisaiah/focusflow/store"
)

// logLevel is adjusted once the config has been read.
var logLevel = new(slog.LevelVar)

// effectGrace bounds how long a command waits for side effects on exit.
const effectGrace = 5 * time.Second

// runtime holds everything a command needs. It is created once per
// invocation and owns the database handle.
type runtime struct {
	cfg        *config.Config
	db         *store.Client
	engine     *engine.Engine
	dispatcher *dispatch.Dispatcher
	recorder   stats.Recorder
	source     stats.Source
	pruner     stats.Pruner
	logger     *slog.Logger
	closers    []io.Closer
}

// loadConfig resolves the config from the first-run prompt, the config file
// and the command-line flags, in that order.
func loadConfig(ctx *cli.Context, logger *slog.Logger) (*config.Config, error) {
	path := pathutil.ConfigFilePath()

	cfg, err := config.New(
		config.WithPromptConfig(path),
		config.WithViperConfig(path),
		config.WithCLIConfig(ctx),
	)
	if err != nil {
		return nil, err
	}

	logLevel.Set(cfg.LogLevel())

	logger.Debug("config loaded", slog.String("dump", cfg.Dump()))

	return cfg, nil
}

// openStats opens the configured stats backend. The bolt store is always
// the local source so that the summary works with the http backend too.
func (r *runtime) openStats() error {
	r.recorder, r.source, r.pruner = r.db, r.db, r.db

	switch r.cfg.StatsBackend() {
	case stats.BackendSQLite:
		path := r.cfg.Stats.SQLitePath
		if path == "" {
			path = pathutil.StatsFilePath()
		}

		s, err := stats.OpenSQLite(path)
		if err != nil {
			return err
		}

		r.closers = append(r.closers, s)
		r.recorder, r.source, r.pruner = s, s, s

	case stats.BackendHTTP:
		r.recorder = stats.Tee(r.db, stats.NewHTTPRecorder(
			r.cfg.Stats.Endpoint,
			r.cfg.Stats.Token,
			r.cfg.Stats.RequestsPerMinute,
			nil,
		))
	}

	return nil
}

// soundFiles resolves the configured cue sounds. A sound that cannot be
// found falls back to the generated tone.
func (r *runtime) soundFiles() map[sound.Cue]string {
	files := make(map[sound.Cue]string, len(sound.Cues))

	for cue, name := range r.cfg.SoundFiles() {
		path, err := sound.Resolve(pathutil.SoundsDir(), name)
		if err != nil {
			r.logger.Warn(
				"using the default tone",
				slog.String("cue", string(cue)),
				slog.Any("error", err),
			)

			continue
		}

		files[cue] = path
	}

	return files
}

// openRuntime opens the database, the stats backend and the engine with the
// dispatcher attached. The engine catches up on any phases that ended while
// no process was running.
func openRuntime(ctx *cli.Context, logger *slog.Logger) (*runtime, error) {
	cfg, err := loadConfig(ctx, logger)
	if err != nil {
		return nil, err
	}

	r, err := openStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	settings, err := cfg.DispatchSettings()
	if err != nil {
		_ = r.Close()
		return nil, err
	}

	r.dispatcher = dispatch.New(
		settings,
		dispatch.WithNotifier(notify.NewDesktop(pathutil.IconFilePath())),
		dispatch.WithSounder(sound.NewPlayer(cfg.Sound.Volume, r.soundFiles())),
		dispatch.WithRecorder(r.recorder),
		dispatch.WithLogger(logger),
	)

	r.engine = engine.Open(
		cfg.Preset(),
		engine.WithStore(r.db),
		engine.WithListener(r.dispatcher),
		engine.WithLogger(logger),
		engine.WithPolicy(cfg.Policy()),
	)

	if presetChanged(ctx) && r.engine.Snapshot().Preset != cfg.Preset() {
		r.engine.Reset(cfg.Preset())
	}

	return r, nil
}

// openStore opens the database and stats backend without an engine.
func openStore(cfg *config.Config, logger *slog.Logger) (*runtime, error) {
	db, err := store.NewClient(pathutil.DBFilePath())
	if err != nil {
		return nil, err
	}

	r := &runtime{
		cfg:     cfg,
		db:      db,
		logger:  logger,
		closers: []io.Closer{db},
	}

	if err := r.openStats(); err != nil {
		_ = r.Close()
		return nil, err
	}

	return r, nil
}

// presetChanged reports whether the preset was selected on the command line.
func presetChanged(ctx *cli.Context) bool {
	for _, name := range []string{"preset", "focus", "break", "cycles"} {
		if ctx.IsSet(name) {
			return true
		}
	}

	return false
}

// Close waits for pending effects and releases the database. Effects still
// running after effectGrace are cancelled.
func (r *runtime) Close() error {
	if r.dispatcher != nil {
		r.dispatcher.Close(effectGrace)
	}

	var errs []error

	for i := len(r.closers) - 1; i >= 0; i-- {
		errs = append(errs, r.closers[i].Close())
	}

	return errors.Join(errs...)
}
