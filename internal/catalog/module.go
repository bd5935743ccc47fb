// Package catalog provides the pricing catalog bounded context module.
// It owns the service offerings a visitor can select and the price book
// the quote calculator reads.
package catalog

import (
	"quote_portal_backend/internal/catalog/handler"
	"quote_portal_backend/internal/catalog/repository"
	"quote_portal_backend/internal/catalog/service"
	"quote_portal_backend/internal/events"
	apphttp "quote_portal_backend/internal/http"
	"quote_portal_backend/platform/config"
	"quote_portal_backend/platform/logger"
	"quote_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the catalog module.
// A nil redis client keeps the cache in process memory.
func NewModule(pool *pgxpool.Pool, rdb *redis.Client, bus events.Bus, val *validator.Validator, cfg config.CatalogConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)

	var cache service.Cache = service.NewMemoryCache(cfg.GetCatalogCacheTTL())
	if rdb != nil {
		cache = service.NewRedisCache(rdb, cfg.GetCatalogCacheTTL())
	}

	svc := service.New(repo, cache, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.GET("/catalog/services", m.handler.ListPublic)

	adminGroup := ctx.Admin.Group("/catalog/services")
	adminGroup.GET("", m.handler.List)
	adminGroup.POST("", m.handler.Create)
	adminGroup.GET("/:id", m.handler.GetByID)
	adminGroup.PUT("/:id", m.handler.Update)
	adminGroup.PATCH("/:id/toggle-active", m.handler.ToggleActive)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
