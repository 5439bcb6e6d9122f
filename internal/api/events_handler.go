package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"geowatch/internal/app"
	"geowatch/internal/event"
	"geowatch/internal/logger"
	"geowatch/internal/query"
)

// EventsHandler serves the event list and the query operations over it.
type EventsHandler struct {
	svc *app.Service
}

func (h *EventsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/events", h.List)
	rg.GET("/events/facets", h.Facets)
	rg.POST("/filter-events", h.Filter)
	rg.POST("/search", h.Search)
	rg.POST("/natural-language-query", h.NaturalLanguageQuery)
}

// List handles GET /api/events
func (h *EventsHandler) List(c *gin.Context) {
	events, err := h.svc.ListEvents(c.Request.Context())
	if err != nil {
		abortEvents(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// Facets handles GET /api/events/facets
func (h *EventsHandler) Facets(c *gin.Context) {
	facets, err := h.svc.Facets(c.Request.Context())
	if err != nil {
		abortEvents(c, err)
		return
	}
	c.JSON(http.StatusOK, facets)
}

// Filter handles POST /api/filter-events
func (h *EventsHandler) Filter(c *gin.Context) {
	var f query.Filter
	if err := c.ShouldBindJSON(&f); err != nil {
		badRequest(c, "Invalid filter")
		return
	}
	events, err := h.svc.Filter(c.Request.Context(), f)
	if err != nil {
		abortEvents(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

type searchRequest struct {
	Text string `json:"text"`
}

// Search handles POST /api/search
func (h *EventsHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		badRequest(c, "Text is required")
		return
	}
	result, err := h.svc.Search(c.Request.Context(), req.Text)
	if err != nil {
		abortEvents(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type naturalLanguageRequest struct {
	Query string `json:"query"`
}

type naturalLanguageResponse struct {
	Answer        string        `json:"answer"`
	AQLResult     []event.Event `json:"aqlResult"`
	UsingFallback bool          `json:"usingFallback"`
}

// NaturalLanguageQuery handles POST /api/natural-language-query
func (h *EventsHandler) NaturalLanguageQuery(c *gin.Context) {
	var req naturalLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
		badRequest(c, "Query is required")
		return
	}

	result, err := h.svc.Ask(c.Request.Context(), req.Query)
	if err != nil {
		logger.FromGin(c).Error("natural language query failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":         "Unable to process query. Event data could not be retrieved.",
			"usingFallback": true,
		})
		return
	}

	c.JSON(http.StatusOK, naturalLanguageResponse{
		Answer:        result.Message,
		AQLResult:     result.Events,
		UsingFallback: true,
	})
}
