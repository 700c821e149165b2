package api

import (
	"net/http" // HTTP status codes

	"finance_tracker/internal/middleware" // Error responses
	"finance_tracker/internal/service"    // Service inputs

	"github.com/gin-gonic/gin" // Gin web framework
)

// GetMeHandler returns the signed-in user
func GetMeHandler(users UserAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		me, err := users.Me(c.Request.Context(), user.ID) // Reload from the store
		if err != nil {
			middleware.RespondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, me)
	}
}

// UpdateMeHandler changes the signed-in user's email
func UpdateMeHandler(users UserAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		var req service.UpdateUserInput // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		updated, err := users.UpdateEmail(c.Request.Context(), user.ID, req)
		if err != nil {
			middleware.RespondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}
