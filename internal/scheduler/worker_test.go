package scheduler

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"quote_portal_backend/internal/leads/domain"
	"quote_portal_backend/internal/leads/intake"
	"quote_portal_backend/platform/logger"
)

type fakeSubmitter struct {
	mu        sync.Mutex
	got       []domain.Submission
	requestID string
	err       error
}

func (f *fakeSubmitter) Submit(ctx context.Context, sub domain.Submission) (intake.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, sub)
	f.requestID, _ = ctx.Value(logger.RequestIDKey).(string)
	return intake.Result{LeadID: uuid.New()}, f.err
}

func testLogger() *logger.Logger {
	return logger.NewWithWriter("production", &bytes.Buffer{})
}

func sampleSubmission() domain.Submission {
	source := "google"
	total := int64(34200)
	return domain.Submission{
		Contact:          domain.Contact{FullName: "Ana Ruiz", Email: "ana@example.com"},
		Attribution:      domain.Attribution{Source: &source},
		Services:         map[string]int{"ceiling-fan": 2},
		QuotedTotalCents: &total,
	}
}

func captureTask(t *testing.T, requestID string) *asynq.Task {
	t.Helper()
	payload := NewLeadCapturePayload(sampleSubmission())
	payload.RequestID = requestID
	task, err := NewLeadCaptureTask(payload)
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	return task
}

func TestHandleLeadCaptureSubmits(t *testing.T) {
	sub := &fakeSubmitter{}
	w := &Worker{submitter: sub, log: testLogger()}

	if err := w.handleLeadCapture(context.Background(), captureTask(t, "req-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sub.got) != 1 {
		t.Fatalf("expected one submission, got %d", len(sub.got))
	}
	got := sub.got[0]
	if got.Contact.Email != "ana@example.com" || got.Services["ceiling-fan"] != 2 {
		t.Fatalf("unexpected submission: %+v", got)
	}
	if got.Attribution.Source == nil || *got.Attribution.Source != "google" {
		t.Fatal("expected attribution to survive the queue")
	}
	if got.QuotedTotalCents == nil || *got.QuotedTotalCents != 34200 {
		t.Fatal("expected quoted total to survive the queue")
	}
	if sub.requestID != "req-1" {
		t.Fatalf("expected request id on context, got %q", sub.requestID)
	}
}

func TestHandleLeadCaptureErrors(t *testing.T) {
	partial := &intake.SubmitError{Code: intake.CodeInterestReplaceFailed, Err: errors.New("fk")}
	w := &Worker{submitter: &fakeSubmitter{err: partial}, log: testLogger()}
	if err := w.handleLeadCapture(context.Background(), captureTask(t, "")); err != nil {
		t.Fatalf("interest failure must not fail the task: %v", err)
	}

	failed := &intake.SubmitError{Code: intake.CodeLeadWriteFailed, Err: errors.New("down")}
	w = &Worker{submitter: &fakeSubmitter{err: failed}, log: testLogger()}
	if err := w.handleLeadCapture(context.Background(), captureTask(t, "")); !errors.Is(err, failed) {
		t.Fatalf("expected write failure, got %v", err)
	}

	bad := asynq.NewTask(TaskLeadCapture, []byte("{"))
	if err := w.handleLeadCapture(context.Background(), bad); !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected skip retry for a malformed payload, got %v", err)
	}
}

func TestInlineDispatcherOutlivesRequest(t *testing.T) {
	sub := &fakeSubmitter{}
	d := NewInlineDispatcher(sub, testLogger())

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), logger.RequestIDKey, "req-9"))
	if err := d.DispatchLeadCapture(ctx, sampleSubmission()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cancel()
	d.Wait()

	if len(sub.got) != 1 || sub.requestID != "req-9" {
		t.Fatalf("expected detached capture with request id, got %d %q", len(sub.got), sub.requestID)
	}
}

func TestJanitorRunOnce(t *testing.T) {
	j := NewJanitor(testLogger(), 0)
	calls := 0
	j.Add("limiter", func() int { calls++; return 3 })
	j.runOnce()

	if calls != 1 {
		t.Fatalf("expected one prune call, got %d", calls)
	}
	if j.interval != defaultJanitorInterval {
		t.Fatalf("expected default interval, got %v", j.interval)
	}
}
