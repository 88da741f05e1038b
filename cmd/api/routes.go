package main

import (
	"database/sql"
	"net/http"
	"time"

	"activity-intake/internal/auth"
	"activity-intake/internal/config"
	"activity-intake/internal/intake"
	"activity-intake/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, db *sql.DB, svc *intake.Service, cfg config.Config, authManager *auth.Manager) {
	// The intake contract is POST-only; unmatched methods must answer 405,
	// not 404.
	r.HandleMethodNotAllowed = true

	r.GET("/healthz", func(c *gin.Context) {
		if err := utils.HealthCheck(c.Request.Context(), db, 2*time.Second); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := intake.Handler{
		Service: svc,
		Cookie: intake.CookieConfig{
			Name:   cfg.Session.CookieName,
			TTL:    cfg.Session.TTL,
			Secure: cfg.Session.CookieSecure,
		},
		SuccessStatus: cfg.Intake.SuccessStatus,
	}

	// Identity resolution never rejects; it only attributes.
	r.POST("/activities", auth.ResolveIdentity(authManager), h.Create)
}
