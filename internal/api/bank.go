package api

import (
	"net/http" // HTTP status codes

	"finance_tracker/internal/middleware" // Error responses
	"finance_tracker/internal/service"    // Service inputs

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// CreateBankHandler opens a new bank for the authenticated user
func CreateBankHandler(banks BankAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c) // Get user from context
		if !ok {
			return
		}
		var req service.NameInput // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		bank, err := banks.Create(c.Request.Context(), user.ID, req)
		if err != nil {
			middleware.RespondWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, bank) // Return the created bank
	}
}

// ListBanksHandler returns the authenticated user's banks
func ListBanksHandler(banks BankAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		list, err := banks.List(c.Request.Context(), user.ID)
		if err != nil {
			middleware.RespondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// GetBankHandler returns one bank with its current balance
func GetBankHandler(banks BankAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		bankID, ok := pathID(c, "bankId")
		if !ok {
			return
		}
		bank, err := banks.Get(c.Request.Context(), user.ID, bankID)
		if err != nil {
			middleware.RespondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, bank)
	}
}

// RenameBankHandler changes a bank's name
func RenameBankHandler(banks BankAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		bankID, ok := pathID(c, "bankId")
		if !ok {
			return
		}
		var req service.NameInput // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		bank, err := banks.Rename(c.Request.Context(), user.ID, bankID, req)
		if err != nil {
			middleware.RespondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, bank)
	}
}

// DeleteBankHandler removes a bank without transactions
func DeleteBankHandler(banks BankAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		bankID, ok := pathID(c, "bankId")
		if !ok {
			return
		}
		if err := banks.Delete(c.Request.Context(), user.ID, bankID); err != nil {
			middleware.RespondWithError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// BankStatisticsHandler returns signed totals per category for a period
func BankStatisticsHandler(stats StatisticsAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		bankID, ok := pathID(c, "bankId")
		if !ok {
			return
		}
		var req service.StatisticsInput // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		totals, err := stats.BankStatistics(c.Request.Context(), user.ID, bankID, req)
		if err != nil {
			middleware.RespondWithError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":    user.ID,        // User ID
			"bank_id":    bankID,         // Bank ID
			"categories": len(totals),    // Categories with activity
			"from":       req.FromPeriod, // Period start
			"to":         req.ToPeriod,   // Period end
		}).Debug("Statistics computed")
		c.JSON(http.StatusOK, totals)
	}
}
