package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ericfisherdev/passenger/internal/adapter/driven/breach"
	"github.com/ericfisherdev/passenger/internal/adapter/driven/document"
	"github.com/ericfisherdev/passenger/internal/adapter/driven/filestore"
	sqliteadapter "github.com/ericfisherdev/passenger/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/passenger/internal/adapter/driving/cli"
	"github.com/ericfisherdev/passenger/internal/application"
	"github.com/ericfisherdev/passenger/internal/config"
	"github.com/ericfisherdev/passenger/internal/domain/model"
	"github.com/ericfisherdev/passenger/internal/domain/port/driven"
	"github.com/ericfisherdev/passenger/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "passenger:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func run() error {
	// 1. Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.NewLogger(os.Stderr, cfg.LogLevel)
	slog.SetDefault(logger)
	slog.Debug("config loaded",
		"owner", cfg.Owner,
		"backend", cfg.Backend,
		"data_dir", cfg.DataDir,
		"db_path", cfg.DBPath,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Choose the blob store.
	var blobs driven.BlobStore
	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := sqliteadapter.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()
		slog.Debug("database opened", "path", cfg.DBPath)
		blobs = sqliteadapter.NewVaultBlobRepo(db)
	default:
		blobs = filestore.New(cfg.DataDir)
	}

	// 3. Wire the vault. The repository is built lazily so commands that
	// never open a vault run without PASSENGER_SECRET_KEY.
	app := &cli.App{
		Owner: cfg.Owner,
		Open: func(ctx context.Context, owner string) (*application.Vault, error) {
			if !cfg.HasSecretKey() {
				return nil, model.NewError(model.KindConfiguration, "PASSENGER_SECRET_KEY is not set")
			}
			repo, err := document.NewRepository(blobs, cfg.SecretKey)
			if err != nil {
				return nil, err
			}
			return application.OpenVault(ctx, owner, repo, breach.Default(), application.WithLogger(logger))
		},
	}

	// 4. Run the command.
	return cli.NewRootCmd(app, version).ExecuteContext(ctx)
}
