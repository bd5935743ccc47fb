package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"quote_portal_backend/internal/catalog/repository"
	"quote_portal_backend/internal/catalog/transport"
	"quote_portal_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type fakeRepo struct {
	offerings []repository.Offering
	listCalls atomic.Int32
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (repository.Offering, error) {
	for _, o := range f.offerings {
		if o.ID == id {
			return o, nil
		}
	}
	return repository.Offering{}, nil
}

func (f *fakeRepo) ListActive(ctx context.Context) ([]repository.Offering, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.listCalls.Add(1)
	var out []repository.Offering
	for _, o := range f.offerings {
		if o.IsActive {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeRepo) List(context.Context, repository.ListParams) ([]repository.Offering, int, error) {
	return f.offerings, len(f.offerings), nil
}

func (f *fakeRepo) Create(_ context.Context, p repository.CreateParams) (repository.Offering, error) {
	o := repository.Offering{ID: p.ID, Category: p.Category, Name: p.Name, BasePriceCents: p.BasePriceCents, Unit: p.Unit, IsActive: true}
	f.offerings = append(f.offerings, o)
	return o, nil
}

func (f *fakeRepo) Update(_ context.Context, p repository.UpdateParams) (repository.Offering, error) {
	for i := range f.offerings {
		if f.offerings[i].ID == p.ID && p.BasePriceCents != nil {
			f.offerings[i].BasePriceCents = *p.BasePriceCents
			return f.offerings[i], nil
		}
	}
	return repository.Offering{}, nil
}

func (f *fakeRepo) SetActive(_ context.Context, id string, active bool) (repository.Offering, error) {
	for i := range f.offerings {
		if f.offerings[i].ID == id {
			f.offerings[i].IsActive = active
			return f.offerings[i], nil
		}
	}
	return repository.Offering{}, nil
}

func sampleOfferings() []repository.Offering {
	return []repository.Offering{
		{ID: "tv-mounting", Category: "Smart Home & Technology", Name: "TV Mounting", BasePriceCents: 22500, IsActive: true},
		{ID: "ceiling-fan-install", Category: "Lighting & Fixtures", Name: "Ceiling Fan Installation", BasePriceCents: 20000, IsActive: true},
		{ID: "dimmer-switch", Category: "Switches & Outlets", Name: "Dimmer Switch", BasePriceCents: 12500, IsActive: true},
		{ID: "vanity-light", Category: "Lighting & Fixtures", Name: "Vanity Light", BasePriceCents: 15000, IsActive: false},
		{ID: "gutter-check", Category: "Exterior", Name: "Gutter Check", BasePriceCents: 9000, IsActive: true},
	}
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return mr, client
}

func TestListActiveUsesRedisCache(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := &fakeRepo{offerings: sampleOfferings()}
	svc := New(repo, NewRedisCache(client, 5*time.Minute), nil, logger.New("development"))
	ctx := context.Background()

	first, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	second, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}

	if repo.listCalls.Load() != 1 {
		t.Fatalf("expected one repository read, got %d", repo.listCalls.Load())
	}
	if len(first) != 4 || len(second) != 4 {
		t.Fatalf("expected 4 active offerings, got %d and %d", len(first), len(second))
	}

	mr.FastForward(6 * time.Minute)
	if _, err := svc.ListActive(ctx); err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if repo.listCalls.Load() != 2 {
		t.Fatalf("expected cache expiry to trigger a reload, got %d reads", repo.listCalls.Load())
	}
}

func TestListActiveUsesMemoryCacheWithoutRedis(t *testing.T) {
	repo := &fakeRepo{offerings: sampleOfferings()}
	cache := NewMemoryCache(5 * time.Minute)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	svc := New(repo, cache, nil, logger.New("development"))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.ListActive(ctx); err != nil {
			t.Fatalf("ListActive: %v", err)
		}
	}
	if repo.listCalls.Load() != 1 {
		t.Fatalf("expected one repository read, got %d", repo.listCalls.Load())
	}

	now = now.Add(6 * time.Minute)
	if _, err := svc.ListActive(ctx); err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if repo.listCalls.Load() != 2 {
		t.Fatalf("expected expiry to trigger a reload, got %d reads", repo.listCalls.Load())
	}

	if err := cache.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, err := svc.ListActive(ctx); err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if repo.listCalls.Load() != 3 {
		t.Fatalf("expected invalidation to trigger a reload, got %d reads", repo.listCalls.Load())
	}
}

func TestListActiveLoadOutlivesCancelledCaller(t *testing.T) {
	repo := &fakeRepo{offerings: sampleOfferings()}
	svc := New(repo, NewMemoryCache(5*time.Minute), nil, logger.New("development"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("expected shared load to ignore caller cancellation, got %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 active offerings, got %d", len(got))
	}
}

func TestUpdateInvalidatesCache(t *testing.T) {
	_, client := setupTestRedis(t)
	repo := &fakeRepo{offerings: sampleOfferings()}
	svc := New(repo, NewRedisCache(client, 5*time.Minute), nil, logger.New("development"))
	ctx := context.Background()

	if _, err := svc.Prices(ctx); err != nil {
		t.Fatalf("Prices: %v", err)
	}

	newPrice := int64(21000)
	if _, err := svc.Update(ctx, "ceiling-fan-install", transport.UpdateOfferingRequest{BasePriceCents: &newPrice}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	prices, err := svc.Prices(ctx)
	if err != nil {
		t.Fatalf("Prices: %v", err)
	}
	if prices["ceiling-fan-install"] != 21000 {
		t.Fatalf("expected refreshed price 21000, got %d", prices["ceiling-fan-install"])
	}
	if _, ok := prices["vanity-light"]; ok {
		t.Fatal("inactive offering must not be priced")
	}
}

func TestGroupByCategoryOrder(t *testing.T) {
	var active []repository.Offering
	for _, o := range sampleOfferings() {
		if o.IsActive {
			active = append(active, o)
		}
	}

	got := GroupByCategory(active)
	want := []string{"Lighting & Fixtures", "Switches & Outlets", "Smart Home & Technology", "Exterior"}
	if len(got.Categories) != len(want) {
		t.Fatalf("expected %d groups, got %d", len(want), len(got.Categories))
	}
	for i, name := range want {
		if got.Categories[i].Category != name {
			t.Errorf("group %d = %q, want %q", i, got.Categories[i].Category, name)
		}
	}
}
