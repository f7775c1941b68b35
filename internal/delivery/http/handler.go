package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/precivox/backend/internal/domain"
	"github.com/precivox/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search *usecase.SearchService
}

// NewHandler creates a new HTTP handler
func NewHandler(search *usecase.SearchService) *Handler {
	return &Handler{search: search}
}

// searchRequest is the POST /search body. An empty query browses the
// full catalog.
type searchRequest struct {
	Query              string   `json:"query"`
	Markets            []string `json:"markets"`
	MaxSuggestions     int      `json:"maxSuggestions"`
	DisableExpansion   bool     `json:"disableExpansion"`
	DisableRecipes     bool     `json:"disableRecipes"`
	DisableCorrections bool     `json:"disableCorrections"`
}

func (r *searchRequest) options() domain.QueryOptions {
	return domain.QueryOptions{
		Markets:            r.Markets,
		MaxSuggestions:     r.MaxSuggestions,
		DisableExpansion:   r.DisableExpansion,
		DisableRecipes:     r.DisableRecipes,
		DisableCorrections: r.DisableCorrections,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "precivox-search",
		"version": "1.0.0",
	})
}

// Search runs a query across all (or the requested) markets. Upstream
// failures never turn into an HTTP error: they ride in the result's errors
// list.
func (h *Handler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result := h.search.Query(c.Request.Context(), req.Query, req.options())
	c.JSON(http.StatusOK, result)
}

// SearchMarket runs a query against a single market. A missing q browses
// the market's full catalog.
func (h *Handler) SearchMarket(c *gin.Context) {
	marketID := c.Param("id")
	query := c.Query("q")

	opts := domain.QueryOptions{}
	if max, err := strconv.Atoi(c.Query("maxSuggestions")); err == nil {
		opts.MaxSuggestions = max
	}

	result := h.search.QueryMarket(c.Request.Context(), marketID, query, opts)
	c.JSON(http.StatusOK, result)
}

// Autocomplete completes a partial query.
func (h *Handler) Autocomplete(c *gin.Context) {
	prefix := c.Query("q")
	limit, _ := strconv.Atoi(c.Query("limit"))

	suggestions := h.search.Autocomplete(c.Request.Context(), prefix, limit)
	c.JSON(http.StatusOK, gin.H{
		"query":       prefix,
		"suggestions": suggestions,
	})
}

// invalidateRequest is the POST /cache/invalidate body. Without a market
// ID the whole cache goes.
type invalidateRequest struct {
	MarketID string `json:"marketId"`
}

// InvalidateCache forces a refresh of one market's cached results, or of
// everything when no market is given.
func (h *Handler) InvalidateCache(c *gin.Context) {
	var req invalidateRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	removed := h.search.InvalidateCache(c.Request.Context(), req.MarketID)
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// Diagnostics reports cache, source and query statistics.
func (h *Handler) Diagnostics(c *gin.Context) {
	c.JSON(http.StatusOK, h.search.Diagnostics(c.Request.Context()))
}
