package api

import (
	"net/http" // HTTP status codes

	"finance_tracker/internal/domain"     // Domain errors
	"finance_tracker/internal/middleware" // Auth context and error responses
	"finance_tracker/internal/service"    // Service inputs

	"github.com/gin-gonic/gin" // Gin web framework
)

// RegisterHandler creates a user and returns its first token pair
func RegisterHandler(auth AuthAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.Credentials // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		pair, err := auth.Register(c.Request.Context(), req) // Validate, hash and store
		if err != nil {
			middleware.RespondWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, pair) // Return the token pair
	}
}

// LoginHandler authenticates a user and returns a fresh token pair
func LoginHandler(auth AuthAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.Credentials // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		pair, err := auth.Login(c.Request.Context(), req) // Check credentials
		if err != nil {
			middleware.RespondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, pair) // Return the token pair
	}
}

// RefreshHandler exchanges the bearer refresh token for a new pair
func RefreshHandler(auth AuthAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := middleware.CurrentRefreshPrincipal(c) // Set by RefreshAuthMiddleware
		if !ok {
			middleware.RespondWithError(c, domain.ErrUnauthenticated)
			return
		}
		pair, err := auth.Refresh(c.Request.Context(), principal) // Rotate the refresh token
		if err != nil {
			middleware.RespondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, pair) // Return the new pair
	}
}

// LogoutHandler revokes the stored refresh token
func LogoutHandler(auth AuthAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		if err := auth.Logout(c.Request.Context(), user.ID); err != nil {
			middleware.RespondWithError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
