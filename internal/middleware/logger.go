package middleware

import (
	"time" // Request latency

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/google/uuid"     // Request ids
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// RequestIDKey is the context key and RequestIDHeader the header holding the request id
const (
	RequestIDKey    = "requestId"
	RequestIDHeader = "X-Request-ID"
)

// RequestLogger tags each request with an id and logs one line when it completes
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now() // Start time for latency
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString() // Generate when the caller did not send one
		}
		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID) // Echo it back

		c.Next() // Run the handlers

		status := c.Writer.Status()
		entry := logrus.WithFields(logrus.Fields{
			"request_id": requestID,          // Request id
			"method":     c.Request.Method,   // HTTP method
			"path":       c.Request.URL.Path, // Request path
			"status":     status,             // Response status
			"latency":    time.Since(start),  // Time spent
			"client_ip":  c.ClientIP(),       // Caller address
		})
		switch {
		case status >= 500:
			entry.Error("Request completed")
		case status >= 400:
			entry.Warn("Request completed")
		default:
			entry.Info("Request completed")
		}
	}
}
