package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/stay-assistant/internal/infra/config"
	"github.com/yanqian/stay-assistant/internal/infra/telemetry"
)

const shutdownGrace = 10 * time.Second

// App encapsulates the lookup HTTP server lifecycle.
type App struct {
	cfg       *config.Config
	logger    *slog.Logger
	server    *http.Server
	telemetry *telemetry.Provider
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, tel *telemetry.Provider) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, telemetry: tel}
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		a.logger.Info("shutdown signal received")
		err := a.server.Shutdown(shutdownCtx)
		if flushErr := a.telemetry.Shutdown(shutdownCtx); flushErr != nil {
			a.logger.Warn("telemetry shutdown failed", "error", flushErr)
		}
		return err
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
