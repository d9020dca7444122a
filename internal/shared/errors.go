package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates the password did not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("already exists")
	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrThrottled occurs when a login arrives inside the throttle window.
	ErrThrottled = errors.New("too many login attempts")
	// ErrTokenMissing occurs when no bearer credential was presented.
	ErrTokenMissing = errors.New("token missing")
	// ErrTokenInvalid covers bad signatures, expiry and revoked tokens.
	ErrTokenInvalid = errors.New("invalid token")
)
