package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/foodshare/foodshare/internal/shared"
)

// DefaultSessionLifetime bounds both the signed expiry and the stored row.
const DefaultSessionLifetime = 25 * time.Minute

// Claims is the signed token payload.
type Claims struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenSigner mints and verifies HS256 session tokens.
type TokenSigner struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// NewTokenSigner constructs a TokenSigner.
func NewTokenSigner(secret []byte, lifetime time.Duration) *TokenSigner {
	if lifetime <= 0 {
		lifetime = DefaultSessionLifetime
	}
	return &TokenSigner{
		secret:   secret,
		lifetime: lifetime,
		now:      time.Now,
	}
}

// Lifetime exposes the session lifetime shared with the janitor.
func (s *TokenSigner) Lifetime() time.Duration {
	return s.lifetime
}

// Sign issues a token for identity valid from issuedAt for one lifetime.
func (s *TokenSigner) Sign(identity shared.Identity, issuedAt time.Time) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("auth: signing secret not configured")
	}
	claims := Claims{
		UserID:   identity.ID,
		Username: identity.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(identity.ID, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.lifetime)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature and expiry and returns the embedded identity.
// Every failure wraps shared.ErrTokenInvalid.
func (s *TokenSigner) Parse(tokenString string) (shared.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return shared.Identity{}, fmt.Errorf("%w: expired", shared.ErrTokenInvalid)
		}
		return shared.Identity{}, fmt.Errorf("%w: %v", shared.ErrTokenInvalid, err)
	}
	if !token.Valid || claims.UserID <= 0 {
		return shared.Identity{}, shared.ErrTokenInvalid
	}
	return shared.Identity{ID: claims.UserID, Username: claims.Username}, nil
}
