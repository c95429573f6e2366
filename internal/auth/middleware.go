package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"telugudb/pkg/metrics"
	"telugudb/pkg/utils"
)

// AdminKeyMiddleware rejects requests whose x-admin-key header does not
// match the configured secret. Rejected requests never reach the handler.
func AdminKeyMiddleware(gate *Gate, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !gate.Authorize(c.GetHeader(HeaderAdminKey)) {
			metrics.AdminAuthFailures.Inc()
			log.Warn().
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Str("client_ip", c.ClientIP()).
				Msg("admin key rejected")
			utils.AbortFail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		c.Next()
	}
}
