// Package leads provides the lead capture bounded context module: submission
// intake with merge-by-email, and the operator lifecycle endpoints.
package leads

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"quote_portal_backend/internal/events"
	apphttp "quote_portal_backend/internal/http"
	"quote_portal_backend/internal/leads/handler"
	"quote_portal_backend/internal/leads/intake"
	"quote_portal_backend/internal/leads/management"
	"quote_portal_backend/internal/leads/repository"
	"quote_portal_backend/platform/logger"
	"quote_portal_backend/platform/validator"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	intake     *intake.Service
	management *management.Service
}

// NewModule creates and initializes the leads module. attribution may be nil,
// in which case submissions carry only the attribution sent in the body.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, attribution handler.AttributionReader, log *logger.Logger) *Module {
	repo := repository.New(pool)
	intakeSvc := intake.New(repo, bus, log)
	mgmtSvc := management.New(repo, bus, log)

	return &Module{
		handler:    handler.New(intakeSvc, mgmtSvc, attribution, val),
		intake:     intakeSvc,
		management: mgmtSvc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Intake returns the submission service, used by the capture worker.
func (m *Module) Intake() *intake.Service {
	return m.intake
}

// RegisterRoutes mounts lead routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.POST("/leads", m.handler.Submit)

	operator := ctx.Protected.Group("/leads")
	operator.GET("", m.handler.List)
	operator.GET("/:id", m.handler.GetByID)
	operator.PATCH("/:id/status", m.handler.UpdateStatus)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
