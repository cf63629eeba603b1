package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// PingFunc checks a backing service
type PingFunc func(ctx context.Context) error

// HandleHealthcheck reports liveness and whether analyses can be served.
// When pingValkey is set the message bus reachability is included too.
func HandleHealthcheck(aiConfigured bool, pingValkey PingFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{"message": "ok", "ai_configured": aiConfigured}

		if pingValkey != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := pingValkey(ctx); err != nil {
				body["valkey_connected"] = false
				body["valkey_error"] = err.Error()
			} else {
				body["valkey_connected"] = true
			}
		}

		c.JSON(http.StatusOK, body)
	}
}
