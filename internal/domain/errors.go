package domain

import (
	"errors"
	"strings"
)

// Client-reportable errors. Handlers map them to HTTP statuses with errors.Is.
var (
	ErrValidation          = errors.New("validation failed")
	ErrDuplicateIdentity   = errors.New("user with such email already exists")
	ErrIdentityNotFound    = errors.New("user with such email not found")
	ErrCredentialMismatch  = errors.New("password does not match")
	ErrAccessDenied        = errors.New("access denied")
	ErrUnauthenticated     = errors.New("you are not authorized to perform the operation")
	ErrBankNotFound        = errors.New("bank not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrBankInUse           = errors.New("bank still has transactions")
	ErrCategoryInUse       = errors.New("category is still used by transactions")
	ErrCategoryExists      = errors.New("category with such name already exists")
)

// Internal errors. Never shown to clients verbatim.
var (
	ErrStorageFailure    = errors.New("storage failure")
	ErrAtomicUnitAborted = errors.New("atomic unit aborted")
)

// Errors returned by repositories, translated by services into the errors above.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")
)

// FieldError describes one invalid input field
type FieldError struct {
	Field   string `json:"field"`   // Input field name
	Message string `json:"message"` // Human readable reason
	Type    string `json:"type"`    // Failed rule
}

// ValidationErrors is returned by input Validate methods. It matches ErrValidation.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Unwrap() error {
	return ErrValidation
}
