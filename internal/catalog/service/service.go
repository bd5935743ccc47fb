package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"quote_portal_backend/internal/catalog/repository"
	"quote_portal_backend/internal/catalog/transport"
	"quote_portal_backend/internal/events"
	"quote_portal_backend/platform/logger"
)

// categoryOrder is the display order of the public price list.
// Categories not listed here follow alphabetically.
var categoryOrder = []string{
	"Lighting & Fixtures",
	"Switches & Outlets",
	"Smart Home & Technology",
	"Safety & Ventilation",
	"Hardware & Other",
	"Service Bundles",
}

// Service provides business logic for the pricing catalog.
type Service struct {
	repo  repository.Repository
	cache Cache
	bus   events.Bus
	log   *logger.Logger
	group singleflight.Group
}

// New creates a new catalog service. A nil cache disables caching.
func New(repo repository.Repository, cache Cache, bus events.Bus, log *logger.Logger) *Service {
	if cache == nil {
		cache = NoopCache{}
	}
	return &Service{repo: repo, cache: cache, bus: bus, log: log}
}

// ListActive returns active offerings ordered by name, served from cache when possible.
// Cache failures degrade to a database read.
func (s *Service) ListActive(ctx context.Context) ([]repository.Offering, error) {
	if cached, ok, err := s.cache.Get(ctx); err != nil {
		s.log.Warn("catalog cache read failed", "error", err)
	} else if ok {
		return cached, nil
	}

	// Waiters share this load, so one caller's cancellation must not fail the rest.
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do("active", func() (interface{}, error) {
		offerings, err := s.repo.ListActive(loadCtx)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(loadCtx, offerings); err != nil {
			s.log.Warn("catalog cache write failed", "error", err)
		}
		return offerings, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]repository.Offering), nil
}

// Prices returns the active price book keyed by offering ID.
func (s *Service) Prices(ctx context.Context) (map[string]int64, error) {
	offerings, err := s.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	prices := make(map[string]int64, len(offerings))
	for _, o := range offerings {
		prices[o.ID] = o.BasePriceCents
	}
	return prices, nil
}

// Grouped returns the public price list grouped by category.
func (s *Service) Grouped(ctx context.Context) (transport.CatalogResponse, error) {
	offerings, err := s.ListActive(ctx)
	if err != nil {
		return transport.CatalogResponse{}, err
	}
	return GroupByCategory(offerings), nil
}

// GetByID retrieves a single offering (admin).
func (s *Service) GetByID(ctx context.Context, id string) (transport.OfferingResponse, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.OfferingResponse{}, err
	}
	return toResponse(o), nil
}

// List retrieves offerings with filters and pagination (admin).
func (s *Service) List(ctx context.Context, req transport.ListOfferingsRequest) (transport.OfferingListResponse, error) {
	page := req.Page
	pageSize := req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}
	if pageSize > 100 {
		pageSize = 100
	}

	items, total, err := s.repo.List(ctx, repository.ListParams{
		Search:   strings.TrimSpace(req.Search),
		Category: strings.TrimSpace(req.Category),
		IsActive: req.IsActive,
		Offset:   (page - 1) * pageSize,
		Limit:    pageSize,
	})
	if err != nil {
		return transport.OfferingListResponse{}, err
	}

	resp := transport.OfferingListResponse{
		Items:      make([]transport.OfferingResponse, 0, len(items)),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}
	for _, o := range items {
		resp.Items = append(resp.Items, toResponse(o))
	}
	return resp, nil
}

// Create adds a new offering.
func (s *Service) Create(ctx context.Context, req transport.CreateOfferingRequest) (transport.OfferingResponse, error) {
	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = "each"
	}

	o, err := s.repo.Create(ctx, repository.CreateParams{
		ID:                     req.ID,
		Category:               strings.TrimSpace(req.Category),
		Name:                   strings.TrimSpace(req.Name),
		Description:            req.Description,
		BasePriceCents:         *req.BasePriceCents,
		Unit:                   unit,
		DefaultDurationMinutes: req.DefaultDurationMinutes,
	})
	if err != nil {
		return transport.OfferingResponse{}, err
	}

	s.changed(ctx, o.ID)
	s.log.Info("service offering created", "id", o.ID, "priceCents", o.BasePriceCents)
	return toResponse(o), nil
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id string, req transport.UpdateOfferingRequest) (transport.OfferingResponse, error) {
	o, err := s.repo.Update(ctx, repository.UpdateParams{
		ID:                     id,
		Category:               req.Category,
		Name:                   req.Name,
		Description:            req.Description,
		BasePriceCents:         req.BasePriceCents,
		Unit:                   req.Unit,
		DefaultDurationMinutes: req.DefaultDurationMinutes,
	})
	if err != nil {
		return transport.OfferingResponse{}, err
	}

	s.changed(ctx, o.ID)
	s.log.Info("service offering updated", "id", o.ID)
	return toResponse(o), nil
}

// ToggleActive flips the active flag.
func (s *Service) ToggleActive(ctx context.Context, id string) (transport.OfferingResponse, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.OfferingResponse{}, err
	}

	o, err := s.repo.SetActive(ctx, id, !current.IsActive)
	if err != nil {
		return transport.OfferingResponse{}, err
	}

	s.changed(ctx, o.ID)
	s.log.Info("service offering active toggled", "id", o.ID, "isActive", o.IsActive)
	return toResponse(o), nil
}

func (s *Service) changed(ctx context.Context, id string) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("catalog cache invalidation failed", "error", err)
	}
	if s.bus != nil {
		s.bus.Publish(ctx, events.CatalogChanged{BaseEvent: events.NewBaseEvent(), OfferingID: id})
	}
}

// GroupByCategory groups offerings for display, keeping name order inside each group.
func GroupByCategory(offerings []repository.Offering) transport.CatalogResponse {
	rank := make(map[string]int, len(categoryOrder))
	for i, c := range categoryOrder {
		rank[c] = i
	}

	groups := map[string][]transport.OfferingResponse{}
	var names []string
	for _, o := range offerings {
		if _, ok := groups[o.Category]; !ok {
			names = append(names, o.Category)
		}
		r := toResponse(o)
		r.CreatedAt, r.UpdatedAt = "", ""
		groups[o.Category] = append(groups[o.Category], r)
	}

	sort.SliceStable(names, func(i, j int) bool {
		ri, iKnown := rank[names[i]]
		rj, jKnown := rank[names[j]]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown != jKnown:
			return iKnown
		default:
			return names[i] < names[j]
		}
	})

	resp := transport.CatalogResponse{Categories: make([]transport.CategoryGroup, 0, len(names))}
	for _, name := range names {
		services := groups[name]
		sort.SliceStable(services, func(i, j int) bool { return services[i].Name < services[j].Name })
		resp.Categories = append(resp.Categories, transport.CategoryGroup{Category: name, Services: services})
	}
	return resp
}

func toResponse(o repository.Offering) transport.OfferingResponse {
	resp := transport.OfferingResponse{
		ID:                     o.ID,
		Category:               o.Category,
		Name:                   o.Name,
		Description:            o.Description,
		BasePriceCents:         o.BasePriceCents,
		Unit:                   o.Unit,
		DefaultDurationMinutes: o.DefaultDurationMinutes,
		IsActive:               o.IsActive,
	}
	if !o.CreatedAt.IsZero() {
		resp.CreatedAt = o.CreatedAt.Format(time.RFC3339)
	}
	if !o.UpdatedAt.IsZero() {
		resp.UpdatedAt = o.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}
