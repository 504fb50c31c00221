// Package server initializes and runs the dossier server: it opens the
// database, applies migrations, wires the services and starts the HTTP API,
// shutting everything down cleanly on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/antonnoe/dossierfrankrijk/internal/logging"
	"github.com/antonnoe/dossierfrankrijk/internal/server/config"
	"github.com/antonnoe/dossierfrankrijk/internal/server/httpapi"
	"github.com/antonnoe/dossierfrankrijk/internal/server/repositories/repomanager"
	"github.com/antonnoe/dossierfrankrijk/internal/server/services"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	httpServer *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	var mailer services.Mailer
	if cfg.SMTPAddr == "" {
		logger.Warn(context.Background(), "no smtp server configured, logging magic links instead")
		mailer = services.NewLogMailer(logger)
	} else {
		mailer = services.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPFrom, cfg.LoginTokenValidityDuration)
	}

	userService := services.NewUserService(db, rm, mailer, cfg)
	dossierService := services.NewDossierService(db, rm, logger)
	snapshotService := services.NewSnapshotService(db, rm, cfg)

	httpServer := httpapi.NewServer(cfg, logger, userService, dossierService, snapshotService)

	return &App{config: cfg, logger: logger, db: db, httpServer: httpServer}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing db", "error", err.Error())
	}
}
