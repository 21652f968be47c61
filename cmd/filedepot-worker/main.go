// Package main is the entry point for the FileDepot background worker.
// The worker consumes thumbnail and welcome jobs from the Redis queue.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/filedepot/filedepot/internal/config"
	"github.com/filedepot/filedepot/internal/jobs"
	"github.com/filedepot/filedepot/internal/repository"
	"github.com/filedepot/filedepot/internal/repository/postgres"
	"github.com/filedepot/filedepot/internal/repository/sqlite"
	"github.com/filedepot/filedepot/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)
	logger := newLogger(cfg.Logging)

	logger.Info().
		Int("concurrency", cfg.Queue.Concurrency).
		Ints("thumbnail_sizes", cfg.Queue.ThumbnailSizes).
		Msg("starting FileDepot worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker exited with error")
	}
	logger.Info().Msg("worker stopped")
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	userRepo, fileRepo, closeDB, err := openDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	backend, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}

	worker := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		Concurrency:    cfg.Queue.Concurrency,
		ThumbnailSizes: cfg.Queue.ThumbnailSizes,
		FileRepo:       fileRepo,
		UserRepo:       userRepo,
		Storage:        backend,
		Logger:         logger,
	})

	return worker.Run(ctx)
}

// openDatabase connects to the catalog database the worker reads entries from.
func openDatabase(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (
	repository.UserRepository, repository.FileRepository, func(), error,
) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgres.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return postgres.NewUserRepository(db), postgres.NewFileRepository(db),
			func() { db.Close() }, nil
	default:
		db, err := sqlite.NewDB(ctx, sqlite.Config{
			Path:            cfg.Database.Path,
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: time.Hour,
			JournalMode:     cfg.Database.JournalMode,
			BusyTimeout:     cfg.Database.BusyTimeout,
			CacheSize:       cfg.Database.CacheSize,
			SynchronousMode: cfg.Database.SynchronousMode,
		}, logger)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		return sqlite.NewUserRepository(db), sqlite.NewFileRepository(db),
			func() { db.Close() }, nil
	}
}

// openStorage builds the blob storage backend thumbnails are written to.
func openStorage(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (storage.Backend, error) {
	if cfg.Storage.Backend == "s3" {
		backend, err := storage.NewS3(ctx, cfg.Storage.S3, logger)
		if err != nil {
			return nil, fmt.Errorf("init s3 backend: %w", err)
		}
		return backend, nil
	}
	return storage.NewLocal(cfg.Storage.DataDir, logger), nil
}

// newLogger builds the process logger from the logging configuration.
func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out = os.Stdout
	if cfg.Output == "stderr" {
		out = os.Stderr
	}

	zerolog.TimeFieldFormat = cfg.TimeFormat
	if cfg.Format == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
			Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
