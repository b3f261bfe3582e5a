// Package app hosts the shared process skeleton: signal handling and exit
// codes for every binary in the repo.
package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

const shutdownGrace = 200 * time.Millisecond

type Runner func(ctx context.Context) error

// Run executes the service body until it returns or the process receives
// SIGINT/SIGTERM, and maps the outcome to an exit code.
func Run(serviceName string, run Runner) int {
	log := zerolog.New(os.Stderr).With().
		Timestamp().
		Str("service", serviceName).
		Logger()

	log.Info().Msg("starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- run(ctx) }()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		// Give in-flight work a moment to settle before the process exits.
		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("shutdown error")
				return 1
			}
		case <-time.After(shutdownGrace):
		}
		return 0
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("failed")
			return 1
		}
		log.Info().Msg("stopped")
		return 0
	}
}
