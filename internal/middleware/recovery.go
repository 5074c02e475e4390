package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-contrib/timeout"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Panic recovered",
					zap.Any("error", err),
					zap.ByteString("stack", debug.Stack()),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal Server Error",
				})
			}
		}()

		c.Next()
	}
}

// TimeoutMiddleware bounds how long a request may hold its transaction. An
// abandoned ledger operation still commits or rolls back atomically; the
// caller just stops waiting. The handler keeps writing into a buffered
// response that is discarded once the deadline fires.
func TimeoutMiddleware(limit time.Duration) gin.HandlerFunc {
	return timeout.New(
		timeout.WithTimeout(limit),
		timeout.WithHandler(func(c *gin.Context) {
			c.Next()
		}),
		timeout.WithResponse(func(c *gin.Context) {
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request Timeout",
			})
		}),
	)
}
