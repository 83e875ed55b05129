package dispatch

import (
	"context"
	"crypto/tls"
	"fmt"

	"leadhub_backend/platform/config"
	"leadhub_backend/platform/logger"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// Client enqueues notification dispatch tasks.
type Client struct {
	client *asynq.Client
	queue  string
	log    *logger.Logger
}

// NewClient creates a dispatch client from the Redis configuration. Returns
// nil without error when no Redis URL is configured; callers treat a nil
// client as dispatch disabled.
func NewClient(cfg config.SchedulerConfig, log *logger.Logger) (*Client, error) {
	if cfg.GetRedisURL() == "" {
		return nil, nil
	}
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{
		client: asynq.NewClient(opt),
		queue:  cfg.GetAsynqQueueName(),
		log:    log,
	}, nil
}

// EnqueueBroadcastEmail queues the email fan-out for a broadcast.
func (c *Client) EnqueueBroadcastEmail(ctx context.Context, payload BroadcastEmailPayload) error {
	task, err := NewBroadcastEmailTask(payload)
	if err != nil {
		return fmt.Errorf("build broadcast email task: %w", err)
	}

	info, err := c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.MaxRetry(3))
	if err != nil {
		return fmt.Errorf("enqueue broadcast email: %w", err)
	}

	c.log.Info("broadcast email enqueued",
		"task_id", info.ID,
		"queue", info.Queue,
		"notification_id", payload.NotificationID,
	)
	return nil
}

// Close releases the underlying Redis connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// redisClientOpt translates a Redis URL into asynq connection options.
func redisClientOpt(cfg config.SchedulerConfig) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return asynq.RedisClientOpt{}, fmt.Errorf("parse redis url: %w", err)
	}

	clientOpt := asynq.RedisClientOpt{
		Addr:     opt.Addr,
		Username: opt.Username,
		Password: opt.Password,
		DB:       opt.DB,
	}
	if opt.TLSConfig != nil {
		clientOpt.TLSConfig = opt.TLSConfig
		if cfg.GetRedisTLSInsecure() {
			clientOpt.TLSConfig = &tls.Config{InsecureSkipVerify: true}
		}
	}
	return clientOpt, nil
}
