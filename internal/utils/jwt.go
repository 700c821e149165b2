package utils

import (
	"errors"  // Sentinel errors
	"fmt"     // Error wrapping
	"strconv" // Subject conversion
	"strings" // Header parsing
	"time"    // Time for token expiration

	"finance_tracker/internal/domain" // Token pair type

	"github.com/golang-jwt/jwt/v5" // JWT library
	"github.com/google/uuid"       // Token ids
)

// ErrInvalidSubject is returned for tokens whose subject is not a user id
var ErrInvalidSubject = errors.New("token subject is not a user id")

// JWT Claims
type Claims struct {
	Email                string `json:"email"` // Custom claim for the user's email
	jwt.RegisteredClaims                       // Standard JWT claims, subject holds the user id
}

// UserID returns the user id stored in the subject claim
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidSubject
	}
	return uint(id), nil
}

// TokenIssuer signs and verifies access and refresh tokens. Each kind has its own secret and lifetime.
type TokenIssuer struct {
	accessSecret  []byte        // Secret for access tokens
	refreshSecret []byte        // Secret for refresh tokens
	accessTTL     time.Duration // Access token lifetime
	refreshTTL    time.Duration // Refresh token lifetime
}

// NewTokenIssuer creates a TokenIssuer
func NewTokenIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// IssuePair creates a fresh access and refresh token for the user
func (i *TokenIssuer) IssuePair(userID uint, email string) (domain.AuthTokenPair, error) {
	access, err := generateJWT(userID, email, i.accessSecret, i.accessTTL)
	if err != nil {
		return domain.AuthTokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := generateJWT(userID, email, i.refreshSecret, i.refreshTTL)
	if err != nil {
		return domain.AuthTokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return domain.AuthTokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ParseAccess validates an access token
func (i *TokenIssuer) ParseAccess(tokenStr string) (*Claims, error) {
	return parseJWT(tokenStr, i.accessSecret)
}

// ParseRefresh validates a refresh token
func (i *TokenIssuer) ParseRefresh(tokenStr string) (*Claims, error) {
	return parseJWT(tokenStr, i.refreshSecret)
}

// generateJWT creates a signed token for a given user
func generateJWT(userID uint, email string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email, // Custom claim for the email
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10), // User id
			ID:        uuid.NewString(),                       // Unique per token, so rotation never reissues the same string
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),       // Expiry
			IssuedAt:  jwt.NewNumericDate(now),                // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString(secret)                          // Sign the token with the secret
}

// parseJWT parses and validates a token string
func parseJWT(tokenStr string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return secret, nil // Return the secret key for validation
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), // Reject alg switching
		jwt.WithExpirationRequired(),                                 // Tokens must expire
	)
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}
	return claims, nil
}

// BearerToken extracts the token from an Authorization header value
func BearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}
