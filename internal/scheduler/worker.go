package scheduler

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"

	"quote_portal_backend/internal/leads/intake"
	"quote_portal_backend/platform/config"
	"quote_portal_backend/platform/logger"
)

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	submitter LeadSubmitter
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, submitter LeadSubmitter, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		submitter: submitter,
		log:       log,
	}

	mux.HandleFunc(TaskLeadCapture, w.handleLeadCapture)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleLeadCapture(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadCapturePayload(task)
	if err != nil {
		return errors.Join(err, asynq.SkipRetry)
	}

	if payload.RequestID != "" {
		ctx = context.WithValue(ctx, logger.RequestIDKey, payload.RequestID)
	}
	if payload.SessionID != "" {
		ctx = context.WithValue(ctx, logger.SessionIDKey, payload.SessionID)
	}

	_, err = w.submitter.Submit(ctx, payload.Submission())
	var subErr *intake.SubmitError
	if errors.As(err, &subErr) && subErr.Code == intake.CodeInterestReplaceFailed {
		// The lead is stored; operators are alerted through the unconfirmed-interests event.
		return nil
	}
	return err
}
