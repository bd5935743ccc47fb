// Package quotes provides the public quote calculator module.
package quotes

import (
	apphttp "quote_portal_backend/internal/http"
	"quote_portal_backend/internal/quotes/handler"
	"quote_portal_backend/internal/quotes/service"
	"quote_portal_backend/platform/config"
	"quote_portal_backend/platform/logger"
	"quote_portal_backend/platform/validator"
)

// Module represents the quotes domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new quotes module. The promo registry is read from
// cfg's promo file, or the embedded default when unset.
func NewModule(catalog service.CatalogReader, val *validator.Validator, cfg config.QuoteConfig, log *logger.Logger) (*Module, error) {
	promos, err := service.LoadPromoRegistry(cfg.GetPromoFile())
	if err != nil {
		return nil, err
	}
	log.Info("promo registry loaded", "version", promos.Version())

	svc := service.New(catalog, promos, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}, nil
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "quotes"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	quotes := ctx.Public.Group("/quotes")
	quotes.POST("/calculate", m.handler.Calculate)
	quotes.POST("/request", m.handler.Request)
	quotes.GET("/promos/:code", m.handler.Promo)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
