package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"vitidata/internal/metrics"
	"vitidata/internal/models"
)

// acquisitionResponse is the uniform body of every data endpoint.
type acquisitionResponse struct {
	Data      []models.Record `json:"data"`
	Total     int             `json:"total"`
	Ano       int             `json:"ano,omitempty"`
	Source    models.Source   `json:"source"`
	SourceURL string          `json:"source_url,omitempty"`
}

// handleAcquisition serves one (category, subcategory) endpoint with an
// optional ?year= filter.
func (s *Server) handleAcquisition(category, subcategory string) gin.HandlerFunc {
	return func(c *gin.Context) {
		year := 0

		if raw := c.Query("year"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"detail": "year must be an integer"})

				return
			}

			year = parsed
		}

		key := s.cache.Key(category, subcategory, year)

		if cached, ok := s.cache.Get(key); ok {
			metrics.CacheHits.Inc()
			s.respond(c, cached, year)

			return
		}

		result, err := s.acquirer.Acquire(c.Request.Context(), category, subcategory, year)
		if err != nil {
			// Routes are registered from the taxonomy, so this is a
			// configuration defect, not a client mistake.
			s.log.Error("acquisition failed", "category", category, "subcategory", subcategory, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error(), "source": models.SourceError})

			return
		}

		if s.cfg.Cache.Enabled && !result.Empty() {
			s.cache.Set(key, result, time.Duration(s.cfg.Cache.TTLSeconds)*time.Second, category, "acquisition")
		}

		s.respond(c, result, year)
	}
}

// respond maps a result onto the HTTP contract: empty terminal outcomes are
// 404, everything else is 200 with provenance attached.
func (s *Server) respond(c *gin.Context, result models.AcquisitionResult, year int) {
	if result.Empty() &&
		(result.Source == models.SourceNoDataFound || result.Source == models.SourceInvalidYear) {
		detail := result.Detail
		if detail == "" {
			detail = "no data found for the requested parameters"
		}

		c.JSON(http.StatusNotFound, gin.H{
			"detail":     detail,
			"source":     result.Source,
			"source_url": result.SourceURL,
		})

		return
	}

	c.JSON(http.StatusOK, acquisitionResponse{
		Data:      result.Data,
		Total:     len(result.Data),
		Ano:       year,
		Source:    result.Source,
		SourceURL: result.SourceURL,
	})
}

// handleCacheStats reports memoization counters.
func (s *Server) handleCacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.cache.GetStats())
}

// handleCacheInvalidate drops every cached entry carrying ?tag=.
func (s *Server) handleCacheInvalidate(c *gin.Context) {
	tag := c.Query("tag")
	if tag == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "tag query parameter is required"})

		return
	}

	removed := s.cache.InvalidateTag(tag)
	s.log.Info("cache invalidated", "tag", tag, "removed", removed)

	c.JSON(http.StatusOK, gin.H{"tag": tag, "removed": removed})
}
