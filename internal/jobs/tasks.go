// Package jobs defines the background task types and the worker that
// consumes them. Tasks are delivered through a Redis-backed queue; enqueueing
// is fire-and-forget from the request path's perspective.
package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"

	// TaskTypeThumbnail is the task type for generating image variants.
	TaskTypeThumbnail = "file:thumbnail"

	// TaskTypeWelcome is the task type for greeting a new user.
	TaskTypeWelcome = "user:welcome"
)

// ThumbnailPayload references the upload that needs derived variants.
// Delivery is at-least-once; the handler is idempotent.
type ThumbnailPayload struct {
	UserID int64  `json:"user_id"`
	FileID string `json:"file_id"`
}

// WelcomePayload references a freshly registered user.
type WelcomePayload struct {
	UserID int64 `json:"user_id"`
}

// NewThumbnailTask constructs an Asynq task for thumbnail generation.
func NewThumbnailTask(payload ThumbnailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeThumbnail, data), nil
}

// NewWelcomeTask constructs an Asynq task for the welcome job.
func NewWelcomeTask(payload WelcomePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeWelcome, data), nil
}

// Enqueuer submits background jobs. Implemented by Client; services depend
// on this interface so tests can swap in a recorder.
type Enqueuer interface {
	// EnqueueThumbnail submits a thumbnail job for an uploaded file.
	EnqueueThumbnail(ctx context.Context, userID int64, fileID string) error

	// EnqueueWelcome submits a welcome job for a new user.
	EnqueueWelcome(ctx context.Context, userID int64) error
}

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueThumbnail enqueues a thumbnail-generation task.
func (c *Client) EnqueueThumbnail(ctx context.Context, userID int64, fileID string) error {
	task, err := NewThumbnailTask(ThumbnailPayload{UserID: userID, FileID: fileID})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}

// EnqueueWelcome enqueues a welcome task.
func (c *Client) EnqueueWelcome(ctx context.Context, userID int64) error {
	task, err := NewWelcomeTask(WelcomePayload{UserID: userID})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}

// Ensure Client implements Enqueuer.
var _ Enqueuer = (*Client)(nil)
