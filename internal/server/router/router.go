package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ovotrace/ovotrace/internal/server/handlers"
)

// Handlers bundles the HTTP adapters the router mounts.
type Handlers struct {
	Reports *handlers.ReportHandler
	Auth    *handlers.AuthHandler
	Profile *handlers.ProfileHandler
	Seed    *handlers.SeedHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, dev bool, logger *zap.Logger) *gin.Engine {
	if !dev {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/reset-password", h.Auth.ResetPassword)
	if dev {
		api.GET("/seed", h.Seed.Seed)
	}

	authed := api.Group("", identityMiddleware())
	authed.GET("/reports/summary", h.Reports.Summary)
	authed.GET("/reports/hourly", h.Reports.Hourly)
	authed.GET("/reports/records", h.Reports.Records)
	authed.GET("/reports/batches", h.Reports.Batches)
	authed.GET("/reports/daily-summaries", h.Reports.DailySummaries)
	authed.GET("/exports/records", h.Reports.ExportRecords)
	authed.GET("/exports/metrics", h.Reports.ExportMetrics)
	authed.GET("/profile", h.Profile.Get)
	authed.PUT("/profile", h.Profile.Update)
	authed.GET("/settings/notifications", h.Profile.GetNotificationSettings)
	authed.PUT("/settings/notifications", h.Profile.PutNotificationSettings)
	authed.POST("/settings/fcm-token", h.Profile.RegisterToken)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

// identityMiddleware extracts the user id forwarded by the hosted auth
// layer. Requests without one still pass through: an unauthenticated or
// unlinked session degrades to the empty-dashboard policy downstream.
func identityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			c.Set(handlers.UserIDKey, userID)
		}
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
