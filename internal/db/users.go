package db

import (
	"context" // Request scoped queries

	"finance_tracker/internal/domain" // Importing domain models
)

// CreateUser inserts a new user. A taken email yields domain.ErrDuplicateKey.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	return translate("create user", s.db.WithContext(ctx).Create(user).Error)
}

// FindUserByID loads a user by primary key
func (s *Store) FindUserByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate("find user", err)
	}
	return &user, nil
}

// FindUserByEmail loads a user by email
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate("find user by email", err)
	}
	return &user, nil
}

// SetRefreshTokenHash stores the hash of the current refresh token. nil clears it.
func (s *Store) SetRefreshTokenHash(ctx context.Context, userID uint, hash *string) error {
	err := s.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Update("refresh_token_hash", hash).Error
	return translate("set refresh token hash", err)
}

// RotateRefreshTokenHash replaces oldHash with newHash only while oldHash is still stored.
// A lost race or a cleared hash yields domain.ErrRecordNotFound.
func (s *Store) RotateRefreshTokenHash(ctx context.Context, userID uint, oldHash, newHash string) error {
	res := s.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ? AND refresh_token_hash = ?", userID, oldHash). // Compare and swap
		Update("refresh_token_hash", newHash)
	if res.Error != nil {
		return translate("rotate refresh token hash", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// UpdateUserEmail changes the email of a user
func (s *Store) UpdateUserEmail(ctx context.Context, userID uint, email string) error {
	err := s.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Update("email", email).Error
	return translate("update email", err)
}
