package scheduler

import (
	"context"
	"sync"

	"quote_portal_backend/internal/leads/domain"
	"quote_portal_backend/internal/leads/intake"
	"quote_portal_backend/platform/logger"
)

// LeadSubmitter stores a submission.
type LeadSubmitter interface {
	Submit(ctx context.Context, sub domain.Submission) (intake.Result, error)
}

// InlineDispatcher runs lead captures on a goroutine in this process. It is used when
// no Redis queue is configured. The capture outlives the request that started it.
type InlineDispatcher struct {
	submitter LeadSubmitter
	log       *logger.Logger
	wg        sync.WaitGroup
}

// NewInlineDispatcher creates an in-process dispatcher.
func NewInlineDispatcher(submitter LeadSubmitter, log *logger.Logger) *InlineDispatcher {
	return &InlineDispatcher{submitter: submitter, log: log}
}

func (d *InlineDispatcher) DispatchLeadCapture(ctx context.Context, sub domain.Submission) error {
	detached := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.log.WithContext(detached).Error("lead capture panicked", "panic", r)
			}
		}()
		// Failures are logged and published by the submitter.
		_, _ = d.submitter.Submit(detached, sub)
	}()
	return nil
}

// Wait blocks until every dispatched capture has finished.
func (d *InlineDispatcher) Wait() {
	d.wg.Wait()
}
