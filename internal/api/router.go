package api

import (
	"net/http" // HTTP status codes

	"finance_tracker/internal/middleware" // Auth, webhook and logging middleware

	"github.com/gin-gonic/gin" // Gin web framework
)

// Deps are the collaborators the HTTP surface needs
type Deps struct {
	Auth           AuthAPI                   // Register, login, refresh, logout
	Tokens         middleware.TokenValidator // Resolves bearer tokens
	Users          UserAPI                   // Current user profile
	Banks          BankAPI                   // Bank CRUD
	Categories     CategoryAPI               // Category CRUD
	Transactions   TransactionAPI            // Atomic transaction flow
	Statistics     StatisticsAPI             // Per category totals
	Cache          PageCache                 // Optional, nil disables caching
	WebhookSecret  string                    // Empty disables the webhook
	TrustedProxies []string                  // Proxies allowed to set client IP headers
}

// NewRouter builds the gin engine with every route
func NewRouter(d Deps) (*gin.Engine, error) {
	r := gin.New()                                    // Gin router instance
	r.Use(gin.Recovery(), middleware.RequestLogger()) // Panic recovery and request logs
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		return nil, err
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Auth routes
	authGroup := r.Group("/auth")
	authGroup.POST("/register", RegisterHandler(d.Auth))                                          // Registration endpoint
	authGroup.POST("/login", LoginHandler(d.Auth))                                                // Login endpoint
	authGroup.GET("/refresh", middleware.RefreshAuthMiddleware(d.Tokens), RefreshHandler(d.Auth)) // Refresh endpoint
	authGroup.POST("/logout", middleware.JWTAuthMiddleware(d.Tokens), LogoutHandler(d.Auth))      // Logout endpoint

	// Everything below requires an access token
	protected := r.Group("")
	protected.Use(middleware.JWTAuthMiddleware(d.Tokens))

	userGroup := protected.Group("/user")
	userGroup.GET("", GetMeHandler(d.Users))      // Current user
	userGroup.PATCH("", UpdateMeHandler(d.Users)) // Change email

	categoryGroup := protected.Group("/category")
	categoryGroup.POST("", CreateCategoryHandler(d.Categories))               // Create category
	categoryGroup.GET("", ListCategoriesHandler(d.Categories))                // List categories
	categoryGroup.GET("/:id", GetCategoryHandler(d.Categories))               // Get category
	categoryGroup.PATCH("/:id", RenameCategoryHandler(d.Categories, d.Cache)) // Rename category
	categoryGroup.DELETE("/:id", DeleteCategoryHandler(d.Categories))         // Delete category

	bankGroup := protected.Group("/bank")
	bankGroup.POST("", CreateBankHandler(d.Banks))                                                  // Create bank
	bankGroup.GET("", ListBanksHandler(d.Banks))                                                    // List banks
	bankGroup.GET("/:bankId", GetBankHandler(d.Banks))                                              // Get bank
	bankGroup.PATCH("/:bankId", RenameBankHandler(d.Banks))                                         // Rename bank
	bankGroup.DELETE("/:bankId", DeleteBankHandler(d.Banks))                                        // Delete bank
	bankGroup.POST("/:bankId/statistics", BankStatisticsHandler(d.Statistics))                      // Category totals
	bankGroup.POST("/:bankId/transaction", CreateTransactionHandler(d.Transactions, d.Cache))       // Record transaction
	bankGroup.GET("/:bankId/transaction", ListTransactionsHandler(d.Transactions, d.Cache))         // List transactions
	bankGroup.DELETE("/:bankId/transaction/:id", DeleteTransactionHandler(d.Transactions, d.Cache)) // Delete transaction

	// Webhook for trusted integrations, protected by a shared secret
	r.POST("/webhook", middleware.WebhookSecretMiddleware(d.WebhookSecret), WebhookHandler(d.Transactions, d.Cache))

	return r, nil
}
