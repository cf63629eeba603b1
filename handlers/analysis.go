package handlers

import (
	"context"
	"net/http"

	"funnel-coach-api/analyzer"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleAnalyze relays one transcript to the model and returns its evaluation.
// Sentinel answers come back as 200 with is_error set; every other failure
// becomes {"error": ...} with the mapped status.
func HandleAnalyze(logger *zap.Logger, a *analyzer.Analyzer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req analyzer.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Info("Invalid analysis payload", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload."})
			return
		}

		// A client disconnect must not abort the upstream call.
		ctx := context.WithoutCancel(c.Request.Context())

		resp, err := a.Handle(ctx, RequestID(c), "http", req)
		if err != nil {
			status, msg := analyzer.ErrorStatus(err)
			c.JSON(status, gin.H{"error": msg})
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}
