package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketplace-backend/internal/shared"

	"github.com/hibiken/asynq"
)

// Client enqueues background tasks.
type Client struct {
	client *asynq.Client
}

func NewClient(redisAddr string) *Client {
	return &Client{client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})}
}

// EnqueueDeleteCategoryMedia schedules removal of a replaced category image or icon.
func (c *Client) EnqueueDeleteCategoryMedia(ctx context.Context, payload shared.DeleteCategoryMediaPayload) error {
	task, err := NewDeleteCategoryMediaTask(payload)
	if err != nil {
		return err
	}

	if _, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueCategory),
		asynq.MaxRetry(5),
		asynq.Timeout(time.Minute),
	); err != nil {
		return fmt.Errorf("enqueue %s: %w", shared.TypeDeleteCategoryMedia, err)
	}
	return nil
}

func NewDeleteCategoryMediaTask(payload shared.DeleteCategoryMediaPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return asynq.NewTask(shared.TypeDeleteCategoryMedia, body), nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
