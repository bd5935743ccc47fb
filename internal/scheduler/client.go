package scheduler

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"quote_portal_backend/internal/leads/domain"
	"quote_portal_backend/platform/cache"
	"quote_portal_backend/platform/config"
	"quote_portal_backend/platform/logger"
)

const leadCaptureTimeout = 30 * time.Second

// Client enqueues lead captures for the worker.
type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// DispatchLeadCapture enqueues the submission. Captures are never retried by the queue:
// a failed capture is reported through a capture_failed event instead.
func (c *Client) DispatchLeadCapture(ctx context.Context, sub domain.Submission) error {
	payload := NewLeadCapturePayload(sub)
	payload.RequestID, _ = ctx.Value(logger.RequestIDKey).(string)
	payload.SessionID, _ = ctx.Value(logger.SessionIDKey).(string)

	task, err := NewLeadCaptureTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.MaxRetry(0),
		asynq.Timeout(leadCaptureTimeout),
	)
	return err
}

func queueName(cfg config.SchedulerConfig) string {
	if queue := cfg.GetAsynqQueueName(); queue != "" {
		return queue
	}
	return "default"
}

func redisClientOpt(cfg config.RedisConfig) (asynq.RedisClientOpt, error) {
	opt, err := cache.ParseOptions(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}
