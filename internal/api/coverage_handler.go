package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"geowatch/internal/app"
	"geowatch/internal/event"
	"geowatch/internal/logger"
	"geowatch/internal/query"
)

// CoverageHandler serves related headlines and document exports.
type CoverageHandler struct {
	svc *app.Service
}

func (h *CoverageHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/related-headlines", h.RelatedHeadlines)
	rg.POST("/reports/events", h.EventsReport)
	rg.POST("/reports/insights", h.InsightsReport)
}

type headlinesRequest struct {
	Event *event.Event `json:"event"`
	Limit int          `json:"limit"`
}

// RelatedHeadlines handles POST /api/related-headlines
func (h *CoverageHandler) RelatedHeadlines(c *gin.Context) {
	var req headlinesRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Event == nil {
		badRequest(c, msgEventRequired)
		return
	}

	items, err := h.svc.RelatedHeadlines(c.Request.Context(), *req.Event, req.Limit)
	if err != nil {
		logger.FromGin(c).Error("related headlines failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch related headlines"})
		return
	}
	c.JSON(http.StatusOK, items)
}

type eventsReportRequest struct {
	query.Filter
	Title string `json:"title"`
}

// EventsReport handles POST /api/reports/events
func (h *CoverageHandler) EventsReport(c *gin.Context) {
	var req eventsReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid filter")
		return
	}

	dir, path, ok := reportPath(c)
	if !ok {
		return
	}
	defer os.RemoveAll(dir)

	if _, err := h.svc.EventsReport(c.Request.Context(), req.Filter, req.Title, path); err != nil {
		if !errors.Is(err, app.ErrReport) {
			abortEvents(c, err)
			return
		}
		logger.FromGin(c).Error("events report failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return
	}

	name := fmt.Sprintf("events-%s.docx", time.Now().UTC().Format("20060102-150405"))
	c.FileAttachment(path, name)
}

type insightsReportRequest struct {
	EventData *event.Event `json:"eventData"`
	Insights  string       `json:"insights"`
}

// InsightsReport handles POST /api/reports/insights
func (h *CoverageHandler) InsightsReport(c *gin.Context) {
	var req insightsReportRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.EventData == nil {
		badRequest(c, msgEventRequired)
		return
	}
	if req.Insights == "" {
		badRequest(c, "Insights are required")
		return
	}

	dir, path, ok := reportPath(c)
	if !ok {
		return
	}
	defer os.RemoveAll(dir)

	if err := h.svc.InsightsReport(*req.EventData, req.Insights, path); err != nil {
		logger.FromGin(c).Error("insights report failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return
	}
	c.FileAttachment(path, "event-analysis.docx")
}

func reportPath(c *gin.Context) (dir, path string, ok bool) {
	dir, err := os.MkdirTemp("", "geowatch-report-")
	if err != nil {
		logger.FromGin(c).Error("report temp dir failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return "", "", false
	}
	return dir, filepath.Join(dir, "report.docx"), true
}
