// Package attribution provides the first-touch campaign attribution module.
// It owns the visitor session cookie used by the public routes.
package attribution

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"quote_portal_backend/internal/attribution/handler"
	"quote_portal_backend/internal/attribution/repository"
	"quote_portal_backend/internal/attribution/service"
	apphttp "quote_portal_backend/internal/http"
	"quote_portal_backend/platform/config"
	"quote_portal_backend/platform/logger"
	"quote_portal_backend/platform/validator"
)

// Module is the attribution module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	service    *service.Service
	middleware gin.HandlerFunc
	memory     *repository.MemoryStore
}

// NewModule creates the attribution module. A nil redis client keeps attribution in process memory.
func NewModule(rdb *redis.Client, val *validator.Validator, cfg config.AttributionConfig, log *logger.Logger) *Module {
	m := &Module{}

	var store repository.Store
	if rdb != nil {
		store = repository.NewRedisStore(rdb, cfg.GetAttributionTTL())
	} else {
		m.memory = repository.NewMemoryStore(cfg.GetAttributionTTL())
		store = m.memory
	}

	m.service = service.New(store, log)
	m.handler = handler.New(m.service, val)
	m.middleware = handler.Session(m.service, cfg, log)
	return m
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "attribution"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Middleware returns the session middleware for the public route group.
func (m *Module) Middleware() gin.HandlerFunc {
	return m.middleware
}

// MemoryStore returns the in-process store, or nil when Redis backs attribution.
func (m *Module) MemoryStore() *repository.MemoryStore {
	return m.memory
}

// RegisterRoutes mounts attribution routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Public.Group("/attribution")
	group.GET("", m.handler.Get)
	group.DELETE("", m.handler.Clear)
	group.POST("/capture", m.handler.Capture)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
