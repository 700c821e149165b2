package service

import (
	"context"
	"errors"
	"fmt"

	"finance_tracker/internal/domain"
	"finance_tracker/internal/utils"

	"github.com/sirupsen/logrus"
)

// PasswordHasher hashes passwords and refresh tokens
type PasswordHasher interface {
	Hash(raw string) (string, error)
	Verify(encoded, raw string) (bool, error)
}

// TokenIssuer signs and verifies the access/refresh token pair
type TokenIssuer interface {
	IssuePair(userID uint, email string) (domain.AuthTokenPair, error)
	ParseAccess(token string) (*utils.Claims, error)
	ParseRefresh(token string) (*utils.Claims, error)
}

// Credentials is the body of register and login
type Credentials struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=25"`
}

// AuthService implements registration, login and refresh-token rotation.
//
// Only a hash of the latest refresh token is stored per user, so issuing a new pair
// invalidates the previous refresh token.
type AuthService struct {
	users  domain.UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
}

// NewAuthService creates an AuthService
func NewAuthService(users domain.UserRepository, hasher PasswordHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

// Register creates a user and signs them in
func (s *AuthService) Register(ctx context.Context, in Credentials) (domain.AuthTokenPair, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return domain.AuthTokenPair{}, err
	}

	_, err := s.users.FindUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return domain.AuthTokenPair{}, domain.ErrDuplicateIdentity
	case !errors.Is(err, domain.ErrRecordNotFound):
		return domain.AuthTokenPair{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.AuthTokenPair{}, fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{Email: in.Email, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return domain.AuthTokenPair{}, domain.ErrDuplicateIdentity // Lost a race with a concurrent registration
		}
		return domain.AuthTokenPair{}, err
	}

	pair, err := s.issue(ctx, user)
	if err != nil {
		return domain.AuthTokenPair{}, err
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).Info("User registered")
	return pair, nil
}

// Login checks the password and rotates the refresh token
func (s *AuthService) Login(ctx context.Context, in Credentials) (domain.AuthTokenPair, error) {
	email := normalizeEmail(in.Email)
	user, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.AuthTokenPair{}, domain.ErrIdentityNotFound
	}
	if err != nil {
		return domain.AuthTokenPair{}, err
	}

	ok, err := s.hasher.Verify(user.PasswordHash, in.Password)
	if err != nil {
		return domain.AuthTokenPair{}, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		logrus.WithField("user_id", user.ID).Warn("Login with wrong password")
		return domain.AuthTokenPair{}, domain.ErrCredentialMismatch
	}
	return s.issue(ctx, user)
}

// Refresh exchanges the current refresh token for a new pair. Each refresh token works once.
func (s *AuthService) Refresh(ctx context.Context, principal domain.RefreshPrincipal) (domain.AuthTokenPair, error) {
	user, err := s.users.FindUserByID(ctx, principal.UserID)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.AuthTokenPair{}, domain.ErrAccessDenied
	}
	if err != nil {
		return domain.AuthTokenPair{}, err
	}
	if user.RefreshTokenHash == nil {
		return domain.AuthTokenPair{}, domain.ErrAccessDenied // Logged out or never signed in
	}

	ok, err := s.hasher.Verify(*user.RefreshTokenHash, principal.RefreshToken)
	if err != nil {
		return domain.AuthTokenPair{}, fmt.Errorf("verify refresh token: %w", err)
	}
	if !ok {
		logrus.WithField("user_id", user.ID).Warn("Refresh with a rotated or foreign token")
		return domain.AuthTokenPair{}, domain.ErrAccessDenied
	}

	pair, hash, err := s.sign(user)
	if err != nil {
		return domain.AuthTokenPair{}, err
	}
	err = s.users.RotateRefreshTokenHash(ctx, user.ID, *user.RefreshTokenHash, hash)
	if errors.Is(err, domain.ErrRecordNotFound) {
		logrus.WithField("user_id", user.ID).Warn("Refresh token already rotated by a concurrent request")
		return domain.AuthTokenPair{}, domain.ErrAccessDenied
	}
	if err != nil {
		return domain.AuthTokenPair{}, err
	}
	return pair, nil
}

// Logout forgets the stored refresh token so it can no longer be exchanged
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	if err := s.users.SetRefreshTokenHash(ctx, userID, nil); err != nil {
		return err
	}
	logrus.WithField("user_id", userID).Info("User logged out")
	return nil
}

// ValidateAccessToken resolves an access token to the user it was issued for
func (s *AuthService) ValidateAccessToken(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.ParseAccess(token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	user, err := s.users.FindUserByID(ctx, userID)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return nil, domain.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ValidateRefreshToken verifies the bearer refresh token in an Authorization header value
func (s *AuthService) ValidateRefreshToken(authorization string) (domain.RefreshPrincipal, error) {
	raw, ok := utils.BearerToken(authorization)
	if !ok {
		return domain.RefreshPrincipal{}, domain.ErrUnauthenticated
	}
	claims, err := s.tokens.ParseRefresh(raw)
	if err != nil {
		return domain.RefreshPrincipal{}, domain.ErrUnauthenticated
	}
	userID, err := claims.UserID()
	if err != nil {
		return domain.RefreshPrincipal{}, domain.ErrUnauthenticated
	}
	return domain.RefreshPrincipal{UserID: userID, Email: claims.Email, RefreshToken: raw}, nil
}

// issue signs a new pair and stores the hash of its refresh token
func (s *AuthService) issue(ctx context.Context, user *domain.User) (domain.AuthTokenPair, error) {
	pair, hash, err := s.sign(user)
	if err != nil {
		return domain.AuthTokenPair{}, err
	}
	if err := s.users.SetRefreshTokenHash(ctx, user.ID, &hash); err != nil {
		return domain.AuthTokenPair{}, err
	}
	return pair, nil
}

// sign issues a pair and hashes its refresh token
func (s *AuthService) sign(user *domain.User) (domain.AuthTokenPair, string, error) {
	pair, err := s.tokens.IssuePair(user.ID, user.Email)
	if err != nil {
		return domain.AuthTokenPair{}, "", fmt.Errorf("issue tokens: %w", err)
	}
	hash, err := s.hasher.Hash(pair.RefreshToken)
	if err != nil {
		return domain.AuthTokenPair{}, "", fmt.Errorf("hash refresh token: %w", err)
	}
	return pair, hash, nil
}
