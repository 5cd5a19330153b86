// Package server initializes and runs the metadata service: it wires the
// database, applies migrations, and serves the HTTP API until a shutdown
// signal arrives.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/voicevault/internal/logging"
	"github.com/dmitrijs2005/voicevault/internal/server/auth"
	"github.com/dmitrijs2005/voicevault/internal/server/config"
	"github.com/dmitrijs2005/voicevault/internal/server/httpapi"
	"github.com/dmitrijs2005/voicevault/internal/server/shared/db"
)

const shutdownGrace = 5 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	manager db.RepositoryManager
	handler *httpapi.Handler
}

func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	if c.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	manager, err := db.NewPostgresRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	handler := httpapi.NewHandler(manager.Recordings(), logger, []byte(c.JWTSecret))

	return &App{config: c, logger: logger, manager: manager, handler: handler}, nil
}

// MintToken prints a device token for the configured owner id. Used by the
// -g flag instead of serving.
func (app *App) MintToken() error {
	token, err := auth.GenerateToken(app.config.MintTokenFor, []byte(app.config.JWTSecret), app.config.TokenValidity)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.initSignalHandler(cancel)
	defer app.manager.Close()

	if err := app.manager.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	srv := &http.Server{
		Addr:    app.config.HTTPAddr,
		Handler: app.handler.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "metadata service listening", "addr", app.config.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}
