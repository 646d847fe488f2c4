package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/aescanero/gistproxy/internal/application/gists"
	"github.com/aescanero/gistproxy/pkg/adapters/github"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// handleRoot handles the root endpoint. It always returns 200 and serves
// as the container liveness probe.
func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":     "gistproxy",
		"description": "Fetch a GitHub user's public gists with caching and pagination",
		"endpoints": gin.H{
			"GET /{username}":  "fetch gists (query: page, per_page, no_cache)",
			"GET /cache":       "cache statistics",
			"GET /cache/clear": "clear all cached entries",
			"GET /health":      "health check",
			"GET /metrics":     "prometheus metrics",
		},
	})
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

// handleGists handles gist listing requests
func (s *Server) handleGists(c *gin.Context) {
	username := c.Param("username")
	page := intQuery(c, "page", 0)
	perPage := intQuery(c, "per_page", 0)
	bypassCache := c.Query("no_cache") == "true"

	result, cacheHit, err := s.service.FetchGists(c.Request.Context(), username, page, perPage, bypassCache)
	if err != nil {
		s.respondFetchError(c, username, err)
		return
	}

	if cacheHit {
		c.Header("X-Cache-Status", "HIT")
	} else {
		c.Header("X-Cache-Status", "MISS")
	}

	c.JSON(http.StatusOK, result)
}

// handleCacheStats handles cache statistics requests
func (s *Server) handleCacheStats(c *gin.Context) {
	stats, err := s.service.CacheStats(c.Request.Context())
	if err != nil {
		s.logger.Error("failed to get cache stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{
				Code:    "CACHE_ERROR",
				Message: "Failed to retrieve cache statistics",
			},
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// handleCacheClear handles cache clear requests
func (s *Server) handleCacheClear(c *gin.Context) {
	removed, err := s.service.ClearCache(c.Request.Context())
	if err != nil {
		s.logger.Error("failed to clear cache", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{
				Code:    "CACHE_ERROR",
				Message: "Failed to clear cache",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Cache cleared successfully",
		"entries_removed": removed,
	})
}

// respondFetchError maps service errors onto HTTP status codes
func (s *Server) respondFetchError(c *gin.Context, username string, err error) {
	var invalidErr *gists.ErrInvalidUsername
	if errors.As(err, &invalidErr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: ErrorDetail{
				Code:    "INVALID_USERNAME",
				Message: invalidErr.Error(),
			},
		})
		return
	}

	if errors.Is(err, github.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: ErrorDetail{
				Code:    "USER_NOT_FOUND",
				Message: fmt.Sprintf("User %q not found", username),
			},
		})
		return
	}

	var apiErr *github.APIError
	if errors.As(err, &apiErr) {
		s.logger.Error("upstream error",
			zap.String("username", username),
			zap.Int("upstream_status", apiErr.StatusCode),
			zap.Error(err))
		c.JSON(apiErr.StatusCode, ErrorResponse{
			Error: ErrorDetail{
				Code:    "UPSTREAM_ERROR",
				Message: fmt.Sprintf("GitHub API error: %d", apiErr.StatusCode),
			},
		})
		return
	}

	s.logger.Error("upstream unreachable",
		zap.String("username", username),
		zap.Error(err))
	c.JSON(http.StatusBadGateway, ErrorResponse{
		Error: ErrorDetail{
			Code:    "UPSTREAM_UNAVAILABLE",
			Message: "Failed to reach the GitHub API",
		},
	})
}

// intQuery parses an integer query parameter, falling back to def on
// missing or malformed values
func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}

	return v
}
