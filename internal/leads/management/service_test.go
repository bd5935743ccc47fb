package management

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"quote_portal_backend/internal/events"
	"quote_portal_backend/internal/leads/domain"
	"quote_portal_backend/internal/leads/repository"
	"quote_portal_backend/internal/leads/transport"
	"quote_portal_backend/platform/apperr"
	"quote_portal_backend/platform/logger"
)

type fakeRepo struct {
	leads      map[uuid.UUID]domain.Lead
	lastParams repository.ListParams
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return domain.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (f *fakeRepo) ListInterests(context.Context, uuid.UUID) ([]domain.Interest, error) {
	return []domain.Interest{{ServiceOfferingID: "ceiling-fan", ServiceName: "Ceiling Fan Installation", UnitPriceCents: 20000, Quantity: 2}}, nil
}

func (f *fakeRepo) List(_ context.Context, params repository.ListParams) ([]domain.Lead, int, error) {
	f.lastParams = params
	out := make([]domain.Lead, 0, len(f.leads))
	for _, l := range f.leads {
		out = append(out, l)
	}
	return out, len(out), nil
}

// UpdateStatus mirrors the SQL side effects of the Postgres repository.
func (f *fakeRepo) UpdateStatus(_ context.Context, p repository.StatusUpdate) (domain.Lead, error) {
	lead, ok := f.leads[p.ID]
	if !ok {
		return domain.Lead{}, repository.ErrNotFound
	}
	if lead.Status == domain.StatusConverted && p.Status != domain.StatusConverted {
		return domain.Lead{}, repository.ErrStatusLocked
	}
	lead.Status = p.Status
	at := p.At
	switch p.Status {
	case domain.StatusContacted:
		lead.ContactCount++
		lead.LastContactedAt = &at
	case domain.StatusConverted:
		if lead.ConvertedAt == nil {
			lead.ConvertedAt = &at
		}
	}
	if p.Note != "" {
		notes := p.Note
		if lead.Notes != nil && *lead.Notes != "" {
			notes = *lead.Notes + "\n" + p.Note
		}
		lead.Notes = &notes
	}
	f.leads[p.ID] = lead
	return lead, nil
}

type recordingBus struct {
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) { b.events = append(b.events, e) }
func (b *recordingBus) PublishSync(_ context.Context, e events.Event) error {
	b.events = append(b.events, e)
	return nil
}
func (b *recordingBus) Subscribe(string, events.Handler) {}

func setup(t *testing.T) (*Service, *fakeRepo, *recordingBus, uuid.UUID) {
	t.Helper()
	id := uuid.New()
	name := "Ana Ruiz"
	source := "google"
	repo := &fakeRepo{leads: map[uuid.UUID]domain.Lead{
		id: {
			ID:               id,
			FullName:         &name,
			Country:          "USA",
			Source:           "website",
			Status:           domain.StatusNew,
			Attribution:      domain.Attribution{Source: &source},
			SubmissionCount:  1,
			LastSubmissionAt: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
		},
	}}
	bus := &recordingBus{}
	svc := New(repo, bus, logger.NewWithWriter("production", &bytes.Buffer{}))
	svc.now = func() time.Time { return time.Date(2024, 6, 2, 15, 30, 0, 0, time.UTC) }
	return svc, repo, bus, id
}

func TestSetStatusContactedSideEffects(t *testing.T) {
	svc, repo, bus, id := setup(t)
	ctx := context.Background()

	resp, err := svc.SetStatus(ctx, id, transport.UpdateStatusRequest{Status: "contacted", Notes: "Left voicemail"}, uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != "contacted" || resp.ContactCount != 1 || resp.LastContactedAt == nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !strings.Contains(*repo.leads[id].Notes, "Left voicemail") || !strings.HasPrefix(*repo.leads[id].Notes, "[2024-06-02 15:30 UTC]") {
		t.Fatalf("unexpected notes: %q", *repo.leads[id].Notes)
	}
	if len(bus.events) != 1 || bus.events[0].EventName() != "leads.lead.status_changed" {
		t.Fatalf("expected a status change event, got %v", bus.events)
	}

	// Same status again only appends the note.
	if _, err := svc.SetStatus(ctx, id, transport.UpdateStatusRequest{Status: "contacted", Notes: "Called back"}, uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bus.events) != 1 {
		t.Fatalf("no event expected for an unchanged status, got %d", len(bus.events))
	}
	if lines := strings.Split(*repo.leads[id].Notes, "\n"); len(lines) != 2 {
		t.Fatalf("expected two note lines, got %q", lines)
	}
}

func TestSetStatusConvertedIsTerminal(t *testing.T) {
	svc, _, _, id := setup(t)
	ctx := context.Background()

	resp, err := svc.SetStatus(ctx, id, transport.UpdateStatusRequest{Status: "converted"}, uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ConvertedAt == nil {
		t.Fatal("expected converted_at to be set")
	}

	_, err = svc.SetStatus(ctx, id, transport.UpdateStatusRequest{Status: "lost"}, uuid.New())
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestSetStatusErrors(t *testing.T) {
	svc, _, _, id := setup(t)
	ctx := context.Background()

	if _, err := svc.SetStatus(ctx, id, transport.UpdateStatusRequest{Status: "archived"}, uuid.New()); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.SetStatus(ctx, uuid.New(), transport.UpdateStatusRequest{Status: "lost"}, uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetIncludesInterestsAndSourceLabel(t *testing.T) {
	svc, _, _, id := setup(t)

	resp, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Attribution.SourceLabel != "Google" {
		t.Fatalf("expected Google, got %q", resp.Attribution.SourceLabel)
	}
	if len(resp.Interests) != 1 || resp.Interests[0].Quantity != 2 {
		t.Fatalf("unexpected interests: %+v", resp.Interests)
	}
}

func TestListPagination(t *testing.T) {
	svc, repo, _, _ := setup(t)

	resp, err := svc.List(context.Background(), transport.ListLeadsRequest{Status: "new", Page: 3, PageSize: 500, Search: " ana "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.PageSize != 100 || repo.lastParams.Offset != 200 || repo.lastParams.Search != "ana" {
		t.Fatalf("unexpected paging: resp=%+v params=%+v", resp, repo.lastParams)
	}
	if repo.lastParams.Status == nil || *repo.lastParams.Status != domain.StatusNew {
		t.Fatalf("expected status filter, got %+v", repo.lastParams.Status)
	}
}
