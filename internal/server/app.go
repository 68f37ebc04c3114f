// Package server assembles the ingestion service: database, migrations,
// object storage, repositories, services and the HTTP surface.
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

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/akarpov87/pagevault/internal/logging"
	"github.com/akarpov87/pagevault/internal/server/blob"
	"github.com/akarpov87/pagevault/internal/server/config"
	"github.com/akarpov87/pagevault/internal/server/httpapi"
	"github.com/akarpov87/pagevault/internal/server/migrate"
	"github.com/akarpov87/pagevault/internal/server/migrations"
	"github.com/akarpov87/pagevault/internal/server/repositories/folders"
	"github.com/akarpov87/pagevault/internal/server/repositories/pages"
	"github.com/akarpov87/pagevault/internal/server/services"
)

const migrationLedgerTable = "migrations"

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	if err := migrate.Run(ctx, db, migrations.Files, migrationLedgerTable); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	blobs, err := blob.NewS3Store(ctx, blob.S3Config{
		RootUser:     c.S3RootUser,
		RootPassword: c.S3RootPassword,
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing object storage: %w", err)
	}

	pageService := services.NewPageService(pages.NewPostgresRepository(db), blobs, logger)
	folderService := services.NewFolderService(folders.NewPostgresRepository(db))

	server := httpapi.NewServer(httpapi.Options{
		Addr:          c.EndpointAddr,
		SecretKey:     c.SecretKey,
		AdminPassword: c.AdminPassword,
		TokenValidity: c.TokenValidityDuration,
	}, pageService, folderService, logger)

	return &App{config: c, logger: logger, db: db, server: server}, nil
}

// Run serves HTTP until an interrupt arrives, then shuts everything down.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	var wg sync.WaitGroup
	errCh := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := a.server.Run(ctx); err != nil {
			errCh <- err
		}
	}()

	wg.Wait()
	if err := a.db.Close(); err != nil {
		a.logger.Error(ctx, "closing database failed", "error", err.Error())
	}

	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}
