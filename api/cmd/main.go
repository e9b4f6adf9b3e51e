// api/cmd/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/job-portal/internal/bootstrap"
	"github.com/baechuer/job-portal/internal/logger"
)

const (
	exitOK     = 0
	exitFailed = 1

	// shutdownGrace lets an in-flight resume upload finish before the
	// listener is forced closed.
	shutdownGrace = 15 * time.Second
)

// httpServer is the slice of *http.Server that Run drives.
// Tests pass a fake so the signal and crash paths run without a socket.
type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
	Close() error
	Addr() string
}

// realServer adapts *http.Server to httpServer.
type realServer struct{ *http.Server }

func (r realServer) Addr() string { return r.Server.Addr }

// serverBuilder returns the portal server plus the cleanup that releases
// its DB, Redis and broker handles.
type serverBuilder func() (httpServer, func(), error)

// Run serves until a signal arrives or the listener fails and returns the
// process exit code.
func Run(build serverBuilder, sigCh <-chan os.Signal, lg zerolog.Logger) int {
	srv, cleanup, err := build()
	if err != nil {
		lg.Error().Err(err).Msg("job portal bootstrap failed")
		return exitFailed
	}
	// Runs after Shutdown so handlers never see a closed pool.
	defer cleanup()

	errCh := make(chan error, 1)
	go func() {
		lg.Info().Str("addr", srv.Addr()).Msg("job portal listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case sig := <-sigCh:
		lg.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		// Non-zero so the supervisor restarts us.
		lg.Error().Err(err).Msg("listener failed")
		return exitFailed
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		lg.Error().Err(err).Dur("grace", shutdownGrace).Msg("graceful shutdown failed; closing connections")
		_ = srv.Close()
	}

	lg.Info().Msg("job portal stopped")
	return exitOK
}

func buildFromBootstrap() (httpServer, func(), error) {
	srv, cleanup, err := bootstrap.NewServer()
	if err != nil {
		return nil, nil, err
	}
	return realServer{srv}, cleanup, nil
}

func main() {
	logger.Init()

	// SIGTERM is what the container runtime sends; Interrupt covers local runs.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	os.Exit(Run(buildFromBootstrap, sigCh, zlog.Logger.With().Str("service", "job-portal").Logger()))
}
