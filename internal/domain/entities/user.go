package entities

import (
	"strings"
	"time"
)

// User represents an account that can log in to the application.
type User struct {
	ID              int64
	Email           string
	PasswordHash    string
	PasswordChanged bool   // false forces the change-password flow on next login
	Nickname        string // optional
	CreatedAt       time.Time
}

// NewUser creates a user that must change the given password hash on first login.
func NewUser(email, passwordHash, nickname string) *User {
	return &User{
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		Nickname:     strings.TrimSpace(nickname),
		CreatedAt:    time.Now().UTC(),
	}
}

// DisplayName returns the nickname, falling back to the email.
func (u *User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Email
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
