package handlers

import (
	"net/http"

	"funnel-coach-api/utils"

	"github.com/gin-gonic/gin"
)

func HandleMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"analyze_requests_total":        utils.AnalyzeRequestsTotal.Value(),
			"analyze_success_total":         utils.AnalyzeSuccessTotal.Value(),
			"analyze_sentinel_total":        utils.AnalyzeSentinelTotal.Value(),
			"analyze_rejected_total":        utils.AnalyzeRejectedTotal.Value(),
			"analyze_failures_total":        utils.AnalyzeFailuresTotal.Value(),
			"outcome_record_failures_total": utils.OutcomeRecordFailures.Value(),
		})
	}
}
