// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"

	"github.com/gin-gonic/gin"

	"quote_portal_backend/internal/events"
	"quote_portal_backend/platform/config"
	"quote_portal_backend/platform/httpkit"
	"quote_portal_backend/platform/logger"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP and JWT settings only).
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health checks every dependency the readiness probe reports on.
	Health map[string]HealthChecker
	// EventBus is the domain event bus for cross-module communication.
	EventBus events.Bus
	// PublicLimiter throttles the visitor routes per client IP.
	PublicLimiter *httpkit.IPRateLimiter
	// PublicMiddleware runs on every visitor route after rate limiting.
	PublicMiddleware []gin.HandlerFunc
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
