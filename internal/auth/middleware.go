package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/foodshare/foodshare/internal/platform/httpx"
	"github.com/foodshare/foodshare/internal/shared"
)

// TokenCookieName is the cookie that mirrors the bearer token for browsers.
const TokenCookieName = "token"

// Middleware gates handlers behind a valid session token.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// RequireToken rejects requests whose bearer token fails validation and
// stores the identity and raw token in the request context otherwise.
func (m Middleware) RequireToken(opts ValidateOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			identity, err := m.Service.Authenticate(r.Context(), token, opts)
			if err != nil {
				switch {
				case errors.Is(err, shared.ErrTokenMissing):
					httpx.Message(w, http.StatusForbidden, "Token missing")
				case errors.Is(err, shared.ErrTokenInvalid):
					httpx.Message(w, http.StatusForbidden, "Invalid token")
				default:
					if m.Logger != nil {
						m.Logger.Error("validate token", slog.Any("error", err))
					}
					httpx.Message(w, http.StatusInternalServerError, "Could not validate token")
				}
				return
			}
			ctx := shared.ContextWithIdentity(r.Context(), identity)
			ctx = shared.ContextWithToken(ctx, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequestToken prefers the bearer header and falls back to the token cookie.
func RequestToken(r *http.Request) string {
	if token := BearerToken(r); token != "" {
		return token
	}
	if cookie, err := r.Cookie(TokenCookieName); err == nil {
		return cookie.Value
	}
	return ""
}
