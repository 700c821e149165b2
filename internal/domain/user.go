package domain

import "time"

// User Model
type User struct {
	ID               uint       `gorm:"primaryKey" json:"id"`                       // Primary key
	Email            string     `gorm:"uniqueIndex;size:255;not null" json:"email"` // Unique email
	PasswordHash     string     `gorm:"not null" json:"-"`                          // Hashed password
	RefreshTokenHash *string    `gorm:"size:255" json:"-"`                          // Hash of the current refresh token
	CreatedAt        time.Time  `json:"createdAt"`                                  // Registration time
	Banks            []Bank     `json:"-"`                                          // Owned banks
	Categories       []Category `json:"-"`                                          // Owned categories
}

// AuthTokenPair is returned by register, login and refresh. It is never persisted.
type AuthTokenPair struct {
	AccessToken  string `json:"accessToken"`  // Short-lived access token
	RefreshToken string `json:"refreshToken"` // Long-lived refresh token
}

// RefreshPrincipal is the identity carried by a verified refresh token
type RefreshPrincipal struct {
	UserID       uint   // Token subject
	Email        string // Email claim
	RefreshToken string // Raw bearer token, compared against the stored hash
}
