package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"geowatch/internal/eventsource"
	"geowatch/internal/logger"
)

const msgEventsFailed = "Failed to fetch events"

// eventsStatus passes an upstream status code through and maps everything
// else to 500.
func eventsStatus(err error) int {
	var upstream *eventsource.UpstreamError
	if errors.As(err, &upstream) && upstream.StatusCode >= 400 && upstream.StatusCode <= 599 {
		return upstream.StatusCode
	}
	return http.StatusInternalServerError
}

func abortEvents(c *gin.Context, err error) {
	logger.FromGin(c).Error("events fetch failed", zap.Error(err))
	c.AbortWithStatusJSON(eventsStatus(err), gin.H{"error": msgEventsFailed})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}
