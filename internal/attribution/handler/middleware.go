package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"quote_portal_backend/internal/attribution/service"
	"quote_portal_backend/platform/config"
	"quote_portal_backend/platform/logger"
)

// Session ensures every public request carries a visitor session cookie and records
// first-touch attribution from the request query. Store failures are logged and never
// fail the request.
func Session(svc *service.Service, cfg config.AttributionConfig, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := sessionFromCookie(c, cfg.GetSessionCookieName())
		if sessionID == "" {
			sessionID = uuid.NewString()
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     cfg.GetSessionCookieName(),
				Value:    sessionID,
				Path:     "/",
				HttpOnly: true,
				Secure:   cfg.GetSessionCookieSecure(),
				SameSite: cfg.GetSessionCookieSameSite(),
			})
		}

		ctx := service.WithSessionID(c.Request.Context(), sessionID)
		c.Request = c.Request.WithContext(ctx)

		query := c.Request.URL.Query()
		if service.IsEmpty(service.Parse(query)) {
			query = refererQuery(c.GetHeader("Referer"))
		}
		if _, err := svc.Observe(ctx, sessionID, query); err != nil {
			log.WithContext(ctx).Warn("attribution capture failed", "error", err)
		}

		c.Next()
	}
}

func sessionFromCookie(c *gin.Context, name string) string {
	raw, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(raw); err != nil {
		return ""
	}
	return raw
}

func refererQuery(referer string) url.Values {
	if referer == "" {
		return nil
	}
	u, err := url.Parse(referer)
	if err != nil {
		return nil
	}
	return u.Query()
}
