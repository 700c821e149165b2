package middleware

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"time"     // Envelope timestamp

	"finance_tracker/internal/domain" // Domain errors

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Status    int                 `json:"status"`            // HTTP status code
	Timestamp string              `json:"timestamp"`         // RFC3339 time of the failure
	Path      string              `json:"path"`              // Request path
	Method    string              `json:"method"`            // Request method
	ErrorName string              `json:"errorName"`         // Stable error identifier
	Message   string              `json:"message"`           // Human readable message
	Details   []domain.FieldError `json:"details,omitempty"` // Invalid fields, validation errors only
}

// errorKind pairs a domain error with its HTTP status and name
type errorKind struct {
	err    error
	status int
	name   string
}

var errorKinds = []errorKind{
	{domain.ErrValidation, http.StatusBadRequest, "ValidationError"},
	{domain.ErrDuplicateIdentity, http.StatusBadRequest, "DuplicateIdentity"},
	{domain.ErrIdentityNotFound, http.StatusBadRequest, "IdentityNotFound"},
	{domain.ErrCredentialMismatch, http.StatusUnauthorized, "CredentialMismatch"},
	{domain.ErrUnauthenticated, http.StatusUnauthorized, "Unauthenticated"},
	{domain.ErrAccessDenied, http.StatusForbidden, "AccessDenied"},
	{domain.ErrBankNotFound, http.StatusNotFound, "BankNotFound"},
	{domain.ErrCategoryNotFound, http.StatusNotFound, "CategoryNotFound"},
	{domain.ErrTransactionNotFound, http.StatusNotFound, "TransactionNotFound"},
	{domain.ErrBankInUse, http.StatusConflict, "BankInUse"},
	{domain.ErrCategoryInUse, http.StatusConflict, "CategoryInUse"},
	{domain.ErrCategoryExists, http.StatusConflict, "CategoryExists"},
}

// StatusFor returns the HTTP status and error name for err. Unknown errors are internal.
func StatusFor(err error) (int, string) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.status, k.name
		}
	}
	return http.StatusInternalServerError, "InternalError"
}

// RespondWithError aborts the request with the error envelope.
// Internal errors are logged and replaced by a generic message.
func RespondWithError(c *gin.Context, err error) {
	status, name := StatusFor(err)
	resp := ErrorResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      c.Request.URL.Path,
		Method:    c.Request.Method,
		ErrorName: name,
		Message:   err.Error(),
	}
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Message = "Invalid request data"
		resp.Details = verrs
	}
	if status == http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": c.GetString(RequestIDKey),
			"error":      err.Error(),
		}).Error("Request failed")
		resp.Message = "Internal server error" // Never leak internals
	}
	c.AbortWithStatusJSON(status, resp)
}

// RespondWithValidationError reports a single malformed field, such as an unparsable body or path id
func RespondWithValidationError(c *gin.Context, field, message string) {
	RespondWithError(c, domain.ValidationErrors{{Field: field, Message: message, Type: "format"}})
}
