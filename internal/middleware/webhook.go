package middleware

import (
	"crypto/subtle" // Constant time comparison
	"net/http"      // HTTP status codes

	"finance_tracker/internal/domain" // Domain errors

	"github.com/gin-gonic/gin" // Gin web framework
)

// WebhookSecretHeader carries the shared secret on webhook calls
const WebhookSecretHeader = "X-Webhook-Secret"

// WebhookSecretMiddleware only lets requests through that present the shared secret.
// An empty secret disables the route entirely.
func WebhookSecretMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			// Webhook not configured
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		presented := c.GetHeader(WebhookSecretHeader) // Get the secret header
		if presented == "" {
			RespondWithError(c, domain.ErrUnauthenticated)
			return
		}
		// Compare without leaking timing
		if subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) != 1 {
			RespondWithError(c, domain.ErrAccessDenied)
			return
		}
		c.Next() // Secret matches, proceed
	}
}
