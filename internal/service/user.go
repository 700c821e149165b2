package service

import (
	"context"
	"errors"

	"finance_tracker/internal/domain"

	"github.com/sirupsen/logrus"
)

// UpdateUserInput is the body of PATCH /user
type UpdateUserInput struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

// UserService exposes the signed-in user's profile
type UserService struct {
	users domain.UserRepository
}

func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

// Me reloads the user so the response reflects the stored state
func (s *UserService) Me(ctx context.Context, userID uint) (*domain.User, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return nil, domain.ErrIdentityNotFound
	}
	return user, err
}

// UpdateEmail changes the login email. Existing tokens stay valid until they expire.
func (s *UserService) UpdateEmail(ctx context.Context, userID uint, in UpdateUserInput) (*domain.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Email == in.Email {
		return user, nil
	}
	if err := s.users.UpdateUserEmail(ctx, userID, in.Email); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, domain.ErrDuplicateIdentity
		}
		return nil, err
	}
	logrus.WithField("user_id", userID).Info("User email updated")
	user.Email = in.Email
	return user, nil
}
