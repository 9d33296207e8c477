// Package app wires configuration, stores, the model client, and the
// HTTP server into a runnable gateway.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"backforge/internal/chatrouter"
	"backforge/internal/gateway/config"
	"backforge/internal/gateway/handler"
	"backforge/internal/gateway/server"
	"backforge/internal/llmclient"
	"backforge/internal/workflow"
)

type App struct {
	server *server.Server
	closer func() error
	log    zerolog.Logger
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := newLogger(cfg)

	store, closer, err := initStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	llm, err := llmclient.NewGeminiClient(ctx, cfg.GoogleAPIKey, cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize model client: %w", err)
	}

	manager := workflow.NewManager(llm, store, log)
	chat := chatrouter.NewRouter(llm, store, manager, log)
	broker := workflow.NewEventBroker()

	blobs, err := initBlobStore(cfg, log)
	if err != nil {
		return nil, err
	}

	h := handler.New(store, manager, chat, broker, blobs, log)
	mux := server.NewMux(h, log)

	return &App{
		server: server.New(cfg.Port, mux, log),
		closer: closer,
		log:    log,
	}, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var log zerolog.Logger
	if cfg.Local() {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log = zerolog.New(os.Stderr)
	}
	return log.Level(level).With().Timestamp().Logger()
}

// Logger exposes the configured root logger for process-level messages.
func (a *App) Logger() zerolog.Logger {
	return a.log
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	if a.closer != nil {
		if closeErr := a.closer(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	return err
}
