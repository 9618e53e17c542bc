// Package server exposes the acquisition pipeline over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vitidata/internal/cache"
	"vitidata/internal/config"
	"vitidata/internal/logger"
	"vitidata/internal/models"
	"vitidata/internal/taxonomy"
)

// Acquirer runs one acquisition; implemented by scraper.Client.
type Acquirer interface {
	Acquire(ctx context.Context, category, subcategory string, year int) (models.AcquisitionResult, error)
}

// Server wires the router, middleware, and handlers.
type Server struct {
	cfg      *config.Config
	log      *logger.Logger
	acquirer Acquirer
	cache    *cache.Cache
	engine   *gin.Engine
}

// New creates a server. cache may be nil to disable memoization.
func New(cfg *config.Config, acquirer Acquirer, memo *cache.Cache, log *logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:      cfg,
		log:      log,
		acquirer: acquirer,
		cache:    memo,
		engine:   gin.New(),
	}

	s.engine.Use(gin.Recovery(), s.requestLogger())
	s.registerRoutes()

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the listener fails.
func (s *Server) Run() error {
	s.log.Info("serving HTTP API", "addr", s.cfg.Server.Addr)

	return s.engine.Run(s.cfg.Server.Addr)
}

// registerRoutes derives the data routes from the category registry so the
// API surface and the taxonomy cannot drift apart.
func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.engine.Group("/api/v1", s.authorize())

	for _, name := range taxonomy.Names() {
		category, err := taxonomy.Get(name)
		if err != nil {
			continue
		}

		api.GET("/"+name, s.handleAcquisition(name, ""))

		for sub := range category.Subcategories {
			if sub == "" {
				continue
			}

			api.GET("/"+name+"/"+sub, s.handleAcquisition(name, sub))
		}
	}

	api.GET("/cache/stats", s.handleCacheStats)
	api.POST("/cache/invalidate", s.handleCacheInvalidate)
}

// requestLogger logs one line per request in the structured log.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		s.log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status())
	}
}

// authorize enforces static bearer tokens. An empty token list disables
// authorization entirely.
func (s *Server) authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(s.cfg.Server.Tokens) == 0 {
			c.Next()

			return
		}

		token := bearerToken(c.GetHeader("Authorization"))

		for _, allowed := range s.cfg.Server.Tokens {
			if token != "" && token == allowed {
				c.Next()

				return
			}
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "invalid or missing token"})
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "

	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}

	return ""
}
