// Package shutdown runs a blocking component until it finishes or the
// process is asked to stop.
package shutdown

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// notifySignals and stopSignals are replaced in tests.
var (
	notifySignals = signal.Notify
	stopSignals   = signal.Stop
)

// RunWithGracefulShutdown runs runner until it returns or SIGINT/SIGTERM
// arrives. On a signal the runner's context is canceled and shutdown is
// called, then the runner gets up to timeout to return. A runner that
// returns context.Canceled after a signal is treated as a clean stop.
func RunWithGracefulShutdown(
	ctx context.Context,
	logger *slog.Logger,
	timeout time.Duration,
	runner func(ctx context.Context) error,
	shutdown func(ctx context.Context) error,
) error {
	runCtx, runCancel := context.WithCancel(ctx)
	defer runCancel()

	runDone := make(chan error, 1)
	go func() {
		runDone <- runner(runCtx)
	}()

	sigChan := make(chan os.Signal, 1)
	notifySignals(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals(sigChan)

	select {
	case sig := <-sigChan:
		logger.Info("received signal, initiating shutdown", "signal", sig)
		runCancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if shutdown != nil {
			if err := shutdown(shutdownCtx); err != nil {
				logger.Error("shutdown error", "error", err)
			}
		}

		select {
		case err := <-runDone:
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
		case <-shutdownCtx.Done():
			logger.Warn("shutdown timeout exceeded")
		}

		logger.Info("shutdown complete")
		return nil

	case err := <-runDone:
		return err
	}
}

// CancelOnSignal returns a context that is canceled when SIGTERM or SIGHUP
// arrives, for runners that wind down on their own once ctx is done. The
// returned stop function releases the signal handler.
//
// SIGINT is left alone: in a raw-mode terminal Ctrl+C arrives as a key.
func CancelOnSignal(ctx context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)

	sigChan := make(chan os.Signal, 1)
	notifySignals(sigChan, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, stopping", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		stopSignals(sigChan)
		cancel()
	}
}
