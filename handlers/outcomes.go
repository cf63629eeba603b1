package handlers

import (
	"net/http"
	"strconv"

	"funnel-coach-api/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleListOutcomes returns recent audit rows, newest first
func HandleListOutcomes(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "200"))

		rows, err := utils.ListOutcomes(c.Request.Context(), c.Query("outcome"), limit)
		if err != nil {
			logger.Error("Outcome query failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve analysis outcomes"})
			return
		}

		c.JSON(http.StatusOK, rows)
	}
}
