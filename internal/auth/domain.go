package auth

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/foodshare/foodshare/internal/shared"
)

// Credential bounds. Password length is measured in bytes because bcrypt
// rejects inputs longer than 72 bytes.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MinPasswordLength = 5
	MaxPasswordBytes  = 72
)

// User represents a registered account.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// SessionToken is the revocable server-side record of an issued token.
type SessionToken struct {
	ID        int64
	UserID    int64
	Token     string
	CreatedAt time.Time
}

// RegisterInput carries the registration payload.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=5,max=72"`
}

// Normalize trims and NFKC-normalizes the identifying fields in place.
func (in *RegisterInput) Normalize() {
	in.Username = NormalizeUsername(in.Username)
	in.Email = strings.TrimSpace(in.Email)
}

// Check enforces the bounds struct tags cannot express: username length
// after normalization and password length in bytes.
func (in RegisterInput) Check() error {
	if n := utf8.RuneCountInString(in.Username); n < MinUsernameLength || n > MaxUsernameLength {
		return fmt.Errorf("%w: username must be between %d and %d characters", shared.ErrValidation, MinUsernameLength, MaxUsernameLength)
	}
	if in.Email == "" {
		return fmt.Errorf("%w: email is required", shared.ErrValidation)
	}
	if len(in.Password) < MinPasswordLength || len(in.Password) > MaxPasswordBytes {
		return fmt.Errorf("%w: password must be between %d and %d bytes", shared.ErrValidation, MinPasswordLength, MaxPasswordBytes)
	}
	return nil
}

// NormalizeUsername is applied on registration and login so the stored name
// and the looked-up name agree. Case is preserved.
func NormalizeUsername(username string) string {
	return norm.NFKC.String(strings.TrimSpace(username))
}

// LoginInput carries the login payload. UserID is accepted for
// compatibility with older clients and is otherwise ignored.
type LoginInput struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,max=72"`
	UserID   int64  `json:"userId,omitempty"`
}
