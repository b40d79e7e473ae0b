package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/brandlens/api/handler"
	"github.com/use-agent/brandlens/api/middleware"
	"github.com/use-agent/brandlens/cache"
	"github.com/use-agent/brandlens/config"
	"github.com/use-agent/brandlens/scraper"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(sc *scraper.Scraper, cfg *config.Config, cc *cache.Cache, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(sc, startTime))

	// Protected group — auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Brand style extraction
	protected.POST("/extract", handler.Extract(sc, cc))

	// Single image palette
	protected.POST("/palette", handler.Palette(sc))

	// Batch
	protected.POST("/batch/extract", handler.PostBatch(sc))
	protected.GET("/batch/:id", handler.GetBatch())

	return r
}
