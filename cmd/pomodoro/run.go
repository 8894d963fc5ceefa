package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/npratt/pomodoro/internal/config"
	"github.com/npratt/pomodoro/internal/events"
	"github.com/npratt/pomodoro/internal/exec"
	"github.com/npratt/pomodoro/internal/instance"
	"github.com/npratt/pomodoro/internal/notify"
	"github.com/npratt/pomodoro/internal/shutdown"
	"github.com/npratt/pomodoro/internal/timer"
	"github.com/npratt/pomodoro/internal/tui"
)

// headlessShutdownTimeout bounds how long the headless runner gets to stop
// after SIGINT/SIGTERM.
const headlessShutdownTimeout = 5 * time.Second

// runOptions is everything runTimer needs after flags and config are read.
type runOptions struct {
	cfg      *config.Config
	phase    timer.Phase
	tui      bool
	logger   *slog.Logger
	logLevel slog.Leveler
	out      io.Writer
	runner   exec.CommandRunner

	// interval overrides the tick interval; zero means one second.
	interval time.Duration
}

// runTimer runs one pomodoro session, interactive or headless, with the
// event log, single-instance lock and ring sound wired up. cfg.Paths must
// already be resolved.
func runTimer(ctx context.Context, opts runOptions) error {
	cfg := opts.cfg
	logger := opts.logger
	mode := "headless"
	if opts.tui {
		mode = "tui"
	}
	sessionID := uuid.NewString()

	guard, err := instance.Acquire(cfg.Paths.Lock)
	if err != nil {
		return err
	}
	defer func() {
		if err := guard.Release(); err != nil {
			logger.Warn("failed to release lock", "error", err)
		}
	}()

	// TUI mode: redirect logging to the debug file before anything logs.
	if opts.tui {
		tuiLog, err := SetupTUILogger(cfg.Paths.DebugLog, opts.logLevel, cfg.LogRotation)
		if err != nil {
			return err
		}
		defer func() { _ = tuiLog.Close() }()
		logger = tuiLog.Logger
	}
	// Packages that log through slog directly get the session too.
	logger = logger.With("session_id", sessionID)
	slog.SetDefault(logger)

	router := events.NewRouter(events.DefaultBufferSize, events.WithRouterLogger(logger))
	logSink := events.NewLogSink(cfg.Paths.Log, logger,
		events.WithKeepArchives(cfg.LogRotation.KeepSessions))

	sinkCtx, sinkCancel := context.WithCancel(context.Background())
	defer sinkCancel()
	if err := logSink.Start(sinkCtx, router.Subscribe()); err != nil {
		return fmt.Errorf("start log sink: %w", err)
	}

	runner := opts.runner
	if runner == nil {
		runner = exec.NewExecRunner()
	}
	player := notify.NewPlayer(cfg.Sound, runner,
		notify.WithLogger(logger),
		notify.WithSoundDir(filepath.Dir(guard.Path())),
		notify.WithOnError(func(err error) {
			router.Emit(&events.NotifyFailedEvent{
				BaseEvent: events.NewAppEvent(events.EventNotifyFailed),
				Error:     err.Error(),
			})
		}),
	)

	tm := timer.New(timer.WithNotifier(player), timer.WithPhase(opts.phase))

	logger.Info("pomodoro starting",
		"version", version,
		"mode", mode,
		"phase", tm.Phase(),
		"log_file", cfg.Paths.Log,
		"lock", guard.Path(),
		"sound", cfg.Sound.Enabled,
	)
	router.Emit(&events.AppEvent{
		BaseEvent: events.NewAppEvent(events.EventAppStart),
		Version:   version,
		Mode:      mode,
		Session:   sessionID,
	})

	if opts.tui {
		app := tui.New(tm,
			tui.WithEmitter(router),
			tui.WithTickInterval(opts.interval),
			tui.WithAltScreen(cfg.UI.AltScreen),
			tui.WithMouse(cfg.UI.Mouse),
			tui.WithShowHelp(cfg.UI.ShowHelp),
			tui.WithOnQuit(func() { logger.Info("quit requested") }),
		)
		// bubbletea handles Ctrl+C; SIGTERM and a closed terminal cancel ctx.
		tuiCtx, stop := shutdown.CancelOnSignal(ctx, logger)
		err = app.Run(tuiCtx)
		stop()
	} else {
		simple := tui.NewSimple(tm, opts.out, router, opts.interval)
		err = shutdown.RunWithGracefulShutdown(ctx, logger, headlessShutdownTimeout, simple.Run, nil)
	}

	// Let a ring that just started finish before the process exits.
	player.Wait()

	router.Emit(&events.AppEvent{
		BaseEvent: events.NewAppEvent(events.EventAppStop),
		Version:   version,
		Mode:      mode,
		Session:   sessionID,
	})
	router.Close()
	if stopErr := logSink.Stop(); stopErr != nil {
		logger.Warn("failed to close event log", "error", stopErr)
	}

	logger.Info("pomodoro stopped", "state", tm.State().Name(), "events", logSink.Written())
	return err
}
