package handlers

import (
	"context"
	"net/http"
	"time"

	"funnel-coach-api/utils"

	"github.com/gin-gonic/gin"
)

func HandleDBStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		if utils.DB == nil {
			c.JSON(http.StatusOK, gin.H{"connected": false, "error": "database not configured"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := utils.DB.PingContext(ctx); err != nil {
			c.JSON(http.StatusOK, gin.H{"connected": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"connected": true})
	}
}
