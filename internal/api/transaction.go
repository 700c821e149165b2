package api

import (
	"context"  // Context for cache invalidation
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"finance_tracker/internal/domain"     // Domain models
	"finance_tracker/internal/middleware" // Error responses
	"finance_tracker/internal/service"    // Service inputs

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Amounts
	"github.com/sirupsen/logrus"    // Logging library
)

// CacheHeader reports whether a listing came from the cache
const CacheHeader = "X-Cache"

// CreateTransactionRequest is the body of POST /bank/:bankId/transaction
type CreateTransactionRequest struct {
	Amount      *decimal.Decimal        `json:"amount"`      // Positive, at most 2 decimals
	Type        *domain.TransactionType `json:"type"`        // 0 consumable, 1 profitable
	CategoryIDs []uint                  `json:"categoryIds"` // At least one category
}

// transactionsPrefix is the cache key prefix of every listing page of a bank
func transactionsPrefix(bankID uint) string {
	return "transactions:bank:" + strconv.FormatUint(uint64(bankID), 10) + ":"
}

// bankVersionKey counts committed writes to a bank's transactions
func bankVersionKey(bankID uint) string {
	return "transactions:version:bank:" + strconv.FormatUint(uint64(bankID), 10)
}

// categoryVersionKey counts category renames of a user, listings embed category names
func categoryVersionKey(userID uint) string {
	return "transactions:version:user:" + strconv.FormatUint(uint64(userID), 10)
}

// transactionsKey identifies one cached listing page at the given versions.
// A listing that raced with a write stores its page under a version nobody reads again.
func transactionsKey(userID, bankID uint, bankVersion, categoryVersion int64, page domain.Page) string {
	take := "all"
	if page.Take != nil {
		take = strconv.Itoa(*page.Take)
	}
	return transactionsPrefix(bankID) +
		"v:" + strconv.FormatInt(bankVersion, 10) + "." + strconv.FormatInt(categoryVersion, 10) +
		":user:" + strconv.FormatUint(uint64(userID), 10) +
		":skip:" + strconv.Itoa(page.Skip) + ":take:" + take
}

// listingKey resolves the current versions into a page key. ok is false when they cannot be read.
func listingKey(ctx context.Context, cache PageCache, userID, bankID uint, page domain.Page) (string, bool) {
	bankVersion, err := cache.Version(ctx, bankVersionKey(bankID))
	if err != nil {
		logrus.WithFields(logrus.Fields{"bank_id": bankID, "error": err.Error()}).Warn("Cache version read failed")
		return "", false
	}
	categoryVersion, err := cache.Version(ctx, categoryVersionKey(userID))
	if err != nil {
		logrus.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Warn("Cache version read failed")
		return "", false
	}
	return transactionsKey(userID, bankID, bankVersion, categoryVersion, page), true
}

// invalidateTransactions moves the bank to a new version and drops its old pages.
// Failures only cost freshness.
func invalidateTransactions(ctx context.Context, cache PageCache, bankID uint) {
	if cache == nil {
		return
	}
	if err := cache.Bump(ctx, bankVersionKey(bankID)); err != nil {
		logrus.WithFields(logrus.Fields{"bank_id": bankID, "error": err.Error()}).Warn("Failed to bump transaction cache version")
	}
	if err := cache.DeletePrefix(ctx, transactionsPrefix(bankID)); err != nil {
		logrus.WithFields(logrus.Fields{"bank_id": bankID, "error": err.Error()}).Warn("Failed to invalidate transaction cache")
	}
}

// invalidateCategoryNames retires every cached listing of the user
func invalidateCategoryNames(ctx context.Context, cache PageCache, userID uint) {
	if cache == nil {
		return
	}
	if err := cache.Bump(ctx, categoryVersionKey(userID)); err != nil {
		logrus.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Warn("Failed to bump category cache version")
	}
}

// CreateTransactionHandler records a transaction against a bank of the authenticated user
func CreateTransactionHandler(transactions TransactionAPI, cache PageCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c) // Get user from context
		if !ok {
			return
		}
		bankID, ok := pathID(c, "bankId")
		if !ok {
			return
		}
		var req CreateTransactionRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		tx, err := transactions.Create(c.Request.Context(), service.CreateTransactionInput{
			Amount:      req.Amount,      // Transaction amount
			Type:        req.Type,        // Transaction type
			BankID:      bankID,          // Bank from the path
			UserID:      user.ID,         // Authenticated owner
			CategoryIDs: req.CategoryIDs, // Categories to tag
		})
		if err != nil {
			middleware.RespondWithError(c, err)
			return
		}
		invalidateTransactions(c.Request.Context(), cache, bankID) // Listing pages are stale now
		c.JSON(http.StatusCreated, tx)                             // Return the created transaction
	}
}

// ListTransactionsHandler returns a page of the bank's transactions, cached per page
func ListTransactionsHandler(transactions TransactionAPI, cache PageCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		bankID, ok := pathID(c, "bankId")
		if !ok {
			return
		}
		page, ok := pageQuery(c) // Read skip and take
		if !ok {
			return
		}
		ctx := c.Request.Context()
		var key string
		useCache := cache != nil
		if useCache {
			key, useCache = listingKey(ctx, cache, user.ID, bankID, page) // Cache key for this page
		}
		if useCache {
			var cached []domain.Transaction
			found, err := cache.Get(ctx, key, &cached) // Try to get from cache
			if err == nil && found {
				c.Header(CacheHeader, "HIT")
				c.JSON(http.StatusOK, cached) // Return cached page
				return
			}
			if err != nil {
				logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Cache read failed")
			}
		}
		list, err := transactions.List(ctx, user.ID, bankID, page) // Fetch from DB
		if err != nil {
			middleware.RespondWithError(c, err)
			return
		}
		if useCache {
			if err := cache.Set(ctx, key, list); err != nil { // Cache the page
				logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Cache write failed")
			}
		}
		c.Header(CacheHeader, "MISS")
		c.JSON(http.StatusOK, list) // Return the page
	}
}

// DeleteTransactionHandler removes a transaction and reverses its balance effect
func DeleteTransactionHandler(transactions TransactionAPI, cache PageCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		bankID, ok := pathID(c, "bankId")
		if !ok {
			return
		}
		transactionID, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := transactions.Delete(c.Request.Context(), user.ID, bankID, transactionID); err != nil {
			middleware.RespondWithError(c, err)
			return
		}
		invalidateTransactions(c.Request.Context(), cache, bankID) // Listing pages are stale now
		c.Status(http.StatusNoContent)
	}
}
