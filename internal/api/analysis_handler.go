package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"geowatch/internal/ai"
	"geowatch/internal/app"
	"geowatch/internal/event"
	"geowatch/internal/logger"
)

const (
	msgKeyRequired    = "OpenAI API key is required"
	msgInvalidKey     = "Invalid OpenAI API key. Please check your API key and try again."
	msgScrapeFailed   = "Failed to scrape content from the URL"
	msgEventRequired  = "Event data is required"
	msgInvalidRequest = "Invalid request body"
)

// AnalysisHandler serves scraping and the completion provider relay.
type AnalysisHandler struct {
	svc   *app.Service
	limit []gin.HandlerFunc
}

func (h *AnalysisHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/scrape-content", h.ScrapeContent)

	limited := rg.Group("", h.limit...)
	limited.POST("/chat", h.Chat)
	limited.POST("/generate-insights", h.GenerateInsights)
	limited.POST("/extract-data", h.ExtractData)
}

type scrapeRequest struct {
	URL string `json:"url"`
}

// ScrapeContent handles POST /api/scrape-content
func (h *AnalysisHandler) ScrapeContent(c *gin.Context) {
	var req scrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		badRequest(c, "URL is required")
		return
	}

	content, err := h.svc.ScrapeContent(c.Request.Context(), req.URL)
	if err != nil {
		logger.FromGin(c).Warn("scrape failed", zap.String("url", req.URL), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msgScrapeFailed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": content})
}

type chatRequest struct {
	APIKey           string       `json:"apiKey"`
	Message          string       `json:"message"`
	Context          string       `json:"context"`
	PreviousMessages []ai.Message `json:"previousMessages"`
	SourceContent    string       `json:"sourceContent"`
}

// Chat handles POST /api/chat. Provider failures are reported inside a 200
// reply so the chat panel can show them inline.
func (h *AnalysisHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidRequest)
		return
	}
	if req.APIKey == "" {
		badRequest(c, msgKeyRequired)
		return
	}
	if req.Message == "" {
		badRequest(c, "Message is required")
		return
	}

	reply, err := h.svc.Chat(c.Request.Context(), req.APIKey, ai.ChatRequest{
		Message:          req.Message,
		Context:          req.Context,
		PreviousMessages: req.PreviousMessages,
		SourceContent:    req.SourceContent,
	})
	if err != nil {
		logger.FromGin(c).Warn("chat completion failed", zap.Error(err))
		reply = "I encountered an error: " + ai.ProviderMessage(err) + ". Please check your API key or try again later."
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

type insightsRequest struct {
	APIKey        string       `json:"apiKey"`
	EventData     *event.Event `json:"eventData"`
	SourceContent string       `json:"sourceContent"`
}

// GenerateInsights handles POST /api/generate-insights
func (h *AnalysisHandler) GenerateInsights(c *gin.Context) {
	var req insightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidRequest)
		return
	}
	if req.APIKey == "" {
		badRequest(c, msgKeyRequired)
		return
	}
	if req.EventData == nil {
		badRequest(c, msgEventRequired)
		return
	}

	insights, err := h.svc.Insights(c.Request.Context(), req.APIKey, app.InsightsRequest{
		Event:         *req.EventData,
		SourceContent: req.SourceContent,
	})
	if err != nil {
		abortProvider(c, "insights generation failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"insights": insights})
}

type extractRequest struct {
	APIKey  string `json:"apiKey"`
	Prompt  string `json:"prompt"`
	Content string `json:"content"`
}

// ExtractData handles POST /api/extract-data
func (h *AnalysisHandler) ExtractData(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidRequest)
		return
	}
	if req.APIKey == "" {
		badRequest(c, msgKeyRequired)
		return
	}
	if req.Prompt == "" {
		badRequest(c, "Prompt is required")
		return
	}
	if req.Content == "" {
		badRequest(c, "Content is required")
		return
	}

	data, err := h.svc.Extract(c.Request.Context(), req.APIKey, req.Prompt, req.Content)
	if err != nil {
		abortProvider(c, "data extraction failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func abortProvider(c *gin.Context, msg string, err error) {
	logger.FromGin(c).Error(msg, zap.Error(err))
	switch {
	case errors.Is(err, ai.ErrMissingKey):
		badRequest(c, msgKeyRequired)
	case ai.IsUnauthorized(err):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msgInvalidKey})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Error: " + ai.ProviderMessage(err)})
	}
}
