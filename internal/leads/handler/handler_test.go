package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"quote_portal_backend/internal/events"
	"quote_portal_backend/internal/leads/domain"
	"quote_portal_backend/internal/leads/intake"
	"quote_portal_backend/internal/leads/repository"
	"quote_portal_backend/internal/leads/transport"
	"quote_portal_backend/platform/logger"
	"quote_portal_backend/platform/validator"
)

// ctxStore is an in-memory SubmissionStore whose calls fail once their context is
// cancelled, the way pgx calls do.
type ctxStore struct {
	mu          sync.Mutex
	leads       map[uuid.UUID]domain.Lead
	beginErr    error
	interestErr error
}

func newCtxStore() *ctxStore {
	return &ctxStore{leads: make(map[uuid.UUID]domain.Lead)}
}

func (s *ctxStore) BeginSubmission(ctx context.Context) (repository.SubmissionTx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	return &ctxTx{store: s, pending: make(map[uuid.UUID]domain.Lead)}, nil
}

func (s *ctxStore) committed() []domain.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Lead, 0, len(s.leads))
	for _, l := range s.leads {
		out = append(out, l)
	}
	return out
}

type ctxTx struct {
	store   *ctxStore
	pending map[uuid.UUID]domain.Lead
	done    bool
}

func (t *ctxTx) FindByEmail(ctx context.Context, email string) (domain.Lead, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Lead{}, false, err
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for _, l := range t.store.leads {
		if l.Email != nil && strings.EqualFold(*l.Email, email) {
			return l, true, nil
		}
	}
	return domain.Lead{}, false, nil
}

func (t *ctxTx) Insert(ctx context.Context, lead domain.Lead) (domain.Lead, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Lead{}, false, err
	}
	lead.ID = uuid.New()
	t.pending[lead.ID] = lead
	return lead, true, nil
}

func (t *ctxTx) Update(ctx context.Context, lead domain.Lead) (domain.Lead, error) {
	if err := ctx.Err(); err != nil {
		return domain.Lead{}, err
	}
	t.pending[lead.ID] = lead
	return lead, nil
}

func (t *ctxTx) ReplaceInterests(ctx context.Context, _ uuid.UUID, services map[string]int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if t.store.interestErr != nil {
		return 0, t.store.interestErr
	}
	return len(services), nil
}

func (t *ctxTx) Commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for id, l := range t.pending {
		t.store.leads[id] = l
	}
	t.done = true
	return nil
}

func (t *ctxTx) Rollback(context.Context) error {
	t.done = true
	return nil
}

type staticAttribution struct {
	attr domain.Attribution
	err  error
}

func (s staticAttribution) SessionAttribution(context.Context) (domain.Attribution, error) {
	return s.attr, s.err
}

func strPtr(s string) *string { return &s }

func newRouter(store repository.SubmissionStore, attribution AttributionReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.NewWithWriter("production", &bytes.Buffer{})
	h := New(intake.New(store, events.NewInMemoryBus(log), log), nil, attribution, validator.New())

	r := gin.New()
	r.POST("/leads", h.Submit)
	return r
}

func postLead(ctx context.Context, r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/leads", bytes.NewBufferString(body)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

const validLead = `{"fullName":"Ana Ruiz","email":"ana@example.com","services":{"ceiling-fan":2}}`

func TestSubmitCreatesLead(t *testing.T) {
	store := newCtxStore()
	rec := postLead(context.Background(), newRouter(store, nil), validLead)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp transport.SubmitLeadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, err := uuid.Parse(resp.LeadID); err != nil {
		t.Fatalf("expected lead id, got %q", resp.LeadID)
	}
	if resp.SubmissionCount != 1 || resp.IsReturning {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSubmitMergesReturningVisitor(t *testing.T) {
	store := newCtxStore()
	r := newRouter(store, nil)
	if rec := postLead(context.Background(), r, validLead); rec.Code != http.StatusCreated {
		t.Fatalf("first submit: %d", rec.Code)
	}

	rec := postLead(context.Background(), r, `{"fullName":"Ana Ruiz","email":"ANA@example.com"}`)
	var resp transport.SubmitLeadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SubmissionCount != 2 || !resp.IsReturning {
		t.Fatalf("expected merged lead, got %+v", resp)
	}
	if n := len(store.committed()); n != 1 {
		t.Fatalf("expected one lead, got %d", n)
	}
}

func TestSubmitSurvivesClientDisconnect(t *testing.T) {
	store := newCtxStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := postLead(ctx, newRouter(store, nil), validLead)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 after disconnect, got %d: %s", rec.Code, rec.Body.String())
	}
	if n := len(store.committed()); n != 1 {
		t.Fatalf("expected lead to be committed, got %d", n)
	}
}

func TestSubmitErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*ctxStore)
		wantStatus int
		wantCode   string
		wantLeadID bool
		retryable  bool
	}{
		{
			name:       "store unavailable",
			setup:      func(s *ctxStore) { s.beginErr = errors.New("pool exhausted") },
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   string(intake.CodeStoreUnavailable),
			retryable:  true,
		},
		{
			name:       "interests not recorded",
			setup:      func(s *ctxStore) { s.interestErr = errors.New("savepoint failed") },
			wantStatus: http.StatusInternalServerError,
			wantCode:   string(intake.CodeInterestReplaceFailed),
			wantLeadID: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newCtxStore()
			tt.setup(store)

			rec := postLead(context.Background(), newRouter(store, nil), validLead)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			var resp transport.SubmitErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Code != tt.wantCode || resp.Retryable != tt.retryable {
				t.Fatalf("unexpected body: %+v", resp)
			}
			if (resp.LeadID != nil) != tt.wantLeadID {
				t.Fatalf("leadId presence = %v, want %v", resp.LeadID != nil, tt.wantLeadID)
			}
			if tt.wantLeadID && len(store.committed()) != 1 {
				t.Fatal("expected the lead to stay committed")
			}
		})
	}
}

func TestSubmitBodyAttributionWinsOverSession(t *testing.T) {
	store := newCtxStore()
	session := staticAttribution{attr: domain.Attribution{Source: strPtr("google"), Medium: strPtr("cpc")}}

	body := `{"fullName":"Ana Ruiz","email":"ana@example.com","utmSource":"newsletter"}`
	if rec := postLead(context.Background(), newRouter(store, session), body); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	leads := store.committed()
	if len(leads) != 1 {
		t.Fatalf("expected one lead, got %d", len(leads))
	}
	attr := leads[0].Attribution
	if attr.Source == nil || *attr.Source != "newsletter" {
		t.Fatalf("expected body source to win, got %v", attr.Source)
	}
	if attr.Medium == nil || *attr.Medium != "cpc" {
		t.Fatalf("expected session medium to fill the gap, got %v", attr.Medium)
	}
}

func TestSubmitIgnoresSessionFailure(t *testing.T) {
	store := newCtxStore()
	rec := postLead(context.Background(), newRouter(store, staticAttribution{err: errors.New("redis down")}), validLead)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}
