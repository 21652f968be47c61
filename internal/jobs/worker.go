package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/filedepot/filedepot/internal/repository"
	"github.com/filedepot/filedepot/internal/storage"
)

// WorkerConfig collects dependencies required to bootstrap the worker.
type WorkerConfig struct {
	RedisOpts      asynq.RedisClientOpt
	Concurrency    int
	ThumbnailSizes []int
	FileRepo       repository.FileRepository
	UserRepo       repository.UserRepository
	Storage        storage.Backend
	Logger         zerolog.Logger
}

// Worker wraps the Asynq server processing FileDepot background jobs.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	logger zerolog.Logger
}

// NewWorker constructs a Worker instance with all task handlers registered.
func NewWorker(cfg WorkerConfig) *Worker {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 5
	}

	srv := asynq.NewServer(cfg.RedisOpts, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			QueueDefault: 1,
		},
	})

	logger := cfg.Logger.With().Str("component", "worker").Logger()

	thumbnailer := &ThumbnailHandler{
		fileRepo: cfg.FileRepo,
		storage:  cfg.Storage,
		sizes:    cfg.ThumbnailSizes,
		logger:   logger,
	}

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypeThumbnail, thumbnailer.Handle)
	mux.HandleFunc(TaskTypeWelcome, welcomeHandler(cfg.UserRepo, logger))

	return &Worker{server: srv, mux: mux, logger: logger}
}

// Run starts processing jobs until context cancellation.
func (w *Worker) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.server.Run(w.mux)
	}()
	select {
	case <-ctx.Done():
		w.server.Shutdown()
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// welcomeHandler processes TaskTypeWelcome tasks. Greeting delivery is a
// log line for now.
func welcomeHandler(userRepo repository.UserRepository, logger zerolog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload WelcomePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}

		user, err := userRepo.GetByID(ctx, payload.UserID)
		if err != nil {
			// The user may have never been committed; nothing to retry.
			logger.Warn().Int64("user_id", payload.UserID).Err(err).Msg("welcome job for unknown user")
			return asynq.SkipRetry
		}

		logger.Info().Str("email", user.Email).Msgf("Welcome %s!", user.Email)
		return nil
	}
}
