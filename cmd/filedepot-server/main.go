// Package main is the entry point for the FileDepot API server.
// FileDepot is a multi-user file storage service with session-token
// authentication, a hierarchical file catalog, and asynchronous
// post-upload processing.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/filedepot/filedepot/internal/config"
	"github.com/filedepot/filedepot/internal/handler"
	"github.com/filedepot/filedepot/internal/jobs"
	"github.com/filedepot/filedepot/internal/metrics"
	"github.com/filedepot/filedepot/internal/repository"
	"github.com/filedepot/filedepot/internal/repository/postgres"
	"github.com/filedepot/filedepot/internal/repository/sqlite"
	"github.com/filedepot/filedepot/internal/service"
	"github.com/filedepot/filedepot/internal/session"
	"github.com/filedepot/filedepot/internal/storage"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)
	logger := newLogger(cfg.Logging)

	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Msg("starting FileDepot server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	// Catalog database
	userRepo, fileRepo, dbHealth, closeDB, err := openDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	// Redis: session store plus job queue
	redisClient := redis.NewClient(&redis.Options{
		Addr:        cfg.Redis.Addr(),
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		PoolSize:    cfg.Redis.PoolSize,
		DialTimeout: cfg.Redis.DialTimeout,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Msg("redis unreachable at startup, continuing degraded")
	}
	sessions := session.NewStore(redisClient, logger)

	enqueuer := jobs.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer enqueuer.Close()

	// Blob storage
	backend, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}

	// Services
	users := service.NewUserService(userRepo, enqueuer, logger)
	auth := service.NewAuthService(users, userRepo, sessions, cfg.Auth.SessionTTL, logger)
	files := service.NewFileService(fileRepo, backend, enqueuer, logger)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	router := handler.NewRouter(handler.RouterConfig{
		AppHandler:  handler.NewAppHandler(sessions, dbHealth, users, files, logger),
		UserHandler: handler.NewUserHandler(users, logger),
		AuthHandler: handler.NewAuthHandler(auth, logger),
		FileHandler: handler.NewFileHandler(files, m, logger),
		AuthService: auth,
		Metrics:     m,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      http.MaxBytesHandler(router, cfg.Server.MaxBodySize),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openDatabase connects to the configured catalog database and runs
// migrations. The returned close function is safe to defer immediately.
func openDatabase(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (
	repository.UserRepository, repository.FileRepository, repository.DatabaseHealth, func(), error,
) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgres.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
		return postgres.NewUserRepository(db), postgres.NewFileRepository(db), db,
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
			return nil, nil, nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, nil, nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		return sqlite.NewUserRepository(db), sqlite.NewFileRepository(db), db,
			func() { db.Close() }, nil
	}
}

// openStorage builds the configured blob storage backend.
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
