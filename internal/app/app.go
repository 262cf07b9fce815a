package app

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/snakechat-server/internal/config"
	"github.com/vovakirdan/snakechat-server/internal/core"
	transporthttp "github.com/vovakirdan/snakechat-server/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	sweepInterval   time.Duration
	hub             *core.Hub
	history         *core.History
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) *App {
	creds := make(core.Credentials, len(cfg.Teams))
	for _, tc := range cfg.Teams {
		creds[tc.Team] = tc.Key
	}
	logger.Info().Int("teams", len(creds)).Msg("credential table loaded")

	registry := core.NewRegistry()
	members := core.NewMembership()
	history := core.NewHistory(cfg.MaxHistory, cfg.MaxAge)
	gate := core.NewGate(creds)

	hub := core.NewHub(registry, members, history, gate, logger, nil)
	server := transporthttp.NewServer(hub, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		sweepInterval:   cfg.SweepInterval,
		hub:             hub,
		history:         history,
		log:             logger,
	}
}

// Run starts the hub, the history sweeper, and the HTTP server, blocking
// until context cancellation or a fatal server error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.hub.Run(ctx)
	go a.history.RunSweeper(ctx, a.sweepInterval, time.Now)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}
