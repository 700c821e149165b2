package api

import (
	"net/http" // HTTP status codes

	"finance_tracker/internal/middleware" // Error responses
	"finance_tracker/internal/service"    // Service inputs

	"github.com/gin-gonic/gin" // Gin web framework
)

// CreateCategoryHandler adds a category for the authenticated user
func CreateCategoryHandler(categories CategoryAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		var req service.NameInput // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		category, err := categories.Create(c.Request.Context(), user.ID, req)
		if err != nil {
			middleware.RespondWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

func ListCategoriesHandler(categories CategoryAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		list, err := categories.List(c.Request.Context(), user.ID)
		if err != nil {
			middleware.RespondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func GetCategoryHandler(categories CategoryAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		category, err := categories.Get(c.Request.Context(), user.ID, id)
		if err != nil {
			middleware.RespondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

// RenameCategoryHandler renames a category and retires cached listings showing the old name
func RenameCategoryHandler(categories CategoryAPI, cache PageCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req service.NameInput
		if !bindJSON(c, &req) {
			return
		}
		category, err := categories.Rename(c.Request.Context(), user.ID, id, req)
		if err != nil {
			middleware.RespondWithError(c, err)
			return
		}
		invalidateCategoryNames(c.Request.Context(), cache, user.ID)
		c.JSON(http.StatusOK, category)
	}
}

// DeleteCategoryHandler removes a category no transaction uses
func DeleteCategoryHandler(categories CategoryAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := categories.Delete(c.Request.Context(), user.ID, id); err != nil {
			middleware.RespondWithError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
