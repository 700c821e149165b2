package api

import (
	"net/http" // HTTP status codes

	"finance_tracker/internal/middleware" // Error responses
	"finance_tracker/internal/service"    // Service inputs

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// WebhookHandler records a transaction pushed by a trusted integration.
// The body names the user and bank explicitly and the route is guarded by WebhookSecretMiddleware.
func WebhookHandler(transactions TransactionAPI, cache PageCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.CreateTransactionInput // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		tx, err := transactions.Create(c.Request.Context(), req) // Same atomic flow as the user route
		if err != nil {
			middleware.RespondWithError(c, err)
			return
		}
		invalidateTransactions(c.Request.Context(), cache, tx.BankID)
		logrus.WithFields(logrus.Fields{
			"user_id":        req.UserID, // Owner named by the caller
			"bank_id":        tx.BankID,  // Bank ID
			"transaction_id": tx.ID,      // Transaction ID
		}).Info("Webhook transaction recorded")
		c.JSON(http.StatusOK, gin.H{"message": "Transaction created", "transaction": tx})
	}
}
