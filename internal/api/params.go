package api

import (
	"strconv" // String conversion

	"finance_tracker/internal/domain"     // Domain models
	"finance_tracker/internal/middleware" // Error responses

	"github.com/gin-gonic/gin" // Gin web framework
)

// pathID parses a positive numeric path parameter, responding with a validation error otherwise
func pathID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64) // Parse the path segment
	if err != nil || v == 0 {
		middleware.RespondWithValidationError(c, name, "Must be a positive integer")
		return 0, false
	}
	return uint(v), true
}

// currentUser returns the authenticated user or responds with Unauthenticated
func currentUser(c *gin.Context) (*domain.User, bool) {
	user, ok := middleware.CurrentUser(c) // Set by JWTAuthMiddleware
	if !ok {
		middleware.RespondWithError(c, domain.ErrUnauthenticated)
		return nil, false
	}
	return user, true
}

// bindJSON decodes the request body, responding with a validation error on malformed JSON
func bindJSON(c *gin.Context, dest any) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		middleware.RespondWithValidationError(c, "body", "Malformed JSON body")
		return false
	}
	return true
}

// pageQuery reads ?skip=&take=. Range checks happen in the service.
func pageQuery(c *gin.Context) (domain.Page, bool) {
	var page domain.Page
	if s := c.Query("skip"); s != "" {
		v, err := strconv.Atoi(s) // Convert skip to integer
		if err != nil {
			middleware.RespondWithValidationError(c, "skip", "Must be an integer")
			return page, false
		}
		page.Skip = v
	}
	if t := c.Query("take"); t != "" {
		v, err := strconv.Atoi(t) // Convert take to integer
		if err != nil {
			middleware.RespondWithValidationError(c, "take", "Must be an integer")
			return page, false
		}
		page.Take = &v
	}
	return page, true
}
