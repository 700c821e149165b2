package middleware

import (
	"context" // Token validation context

	"finance_tracker/internal/domain" // Domain models and errors
	"finance_tracker/internal/utils"  // Bearer header parsing

	"github.com/gin-gonic/gin" // Gin web framework
)

// Context keys set by the auth middlewares
const (
	UserKey             = "user"             // *domain.User from a valid access token
	RefreshPrincipalKey = "refreshPrincipal" // domain.RefreshPrincipal from a valid refresh token
)

// TokenValidator resolves bearer tokens to principals
type TokenValidator interface {
	ValidateAccessToken(ctx context.Context, token string) (*domain.User, error)
	ValidateRefreshToken(authorization string) (domain.RefreshPrincipal, error)
}

// JWTAuthMiddleware validates the bearer access token and stores the user in the context
func JWTAuthMiddleware(auth TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := utils.BearerToken(c.GetHeader("Authorization")) // Extract the token string
		if !ok {
			// Missing or malformed header
			RespondWithError(c, domain.ErrUnauthenticated)
			return
		}
		user, err := auth.ValidateAccessToken(c.Request.Context(), token) // Verify signature, expiry and user
		if err != nil {
			RespondWithError(c, err)
			return
		}
		c.Set(UserKey, user) // Store user in context
		c.Next()             // Proceed to the next handler
	}
}

// RefreshAuthMiddleware validates the bearer refresh token and stores the principal in the context
func RefreshAuthMiddleware(auth TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := auth.ValidateRefreshToken(c.GetHeader("Authorization"))
		if err != nil {
			RespondWithError(c, err)
			return
		}
		c.Set(RefreshPrincipalKey, principal) // Store principal in context
		c.Next()
	}
}

// CurrentUser returns the user set by JWTAuthMiddleware
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok
}

// CurrentRefreshPrincipal returns the principal set by RefreshAuthMiddleware
func CurrentRefreshPrincipal(c *gin.Context) (domain.RefreshPrincipal, bool) {
	v, exists := c.Get(RefreshPrincipalKey)
	if !exists {
		return domain.RefreshPrincipal{}, false
	}
	principal, ok := v.(domain.RefreshPrincipal)
	return principal, ok
}
