package auth_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/foodshare/foodshare/internal/auth"
	"github.com/foodshare/foodshare/internal/platform/httpx"
	"github.com/foodshare/foodshare/internal/shared"
)

type authFixture struct {
	router  http.Handler
	repo    *auth.FakeRepository
	service *auth.Service
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := auth.NewFakeRepository()
	service := auth.NewService(repo,
		auth.NewPasswordHasher(bcrypt.MinCost),
		auth.NewTokenSigner([]byte("handler-secret"), auth.DefaultSessionLifetime),
		auth.NewMemoryThrottle(auth.DefaultThrottleWindow),
		logger,
	)
	handler := auth.NewHandler(logger, service, false)

	r := chi.NewRouter()
	r.Route("/api/auth", handler.MountRoutes)
	r.Group(func(r chi.Router) {
		r.Use(handler.Middleware().RequireToken(auth.FullCheck))
		r.Get("/api/protected", func(w http.ResponseWriter, r *http.Request) {
			identity, _ := shared.IdentityFromContext(r.Context())
			httpx.JSON(w, http.StatusOK, identity)
		})
	})
	return &authFixture{router: r, repo: repo, service: service}
}

func (f *authFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, req)
	return res
}

func decodeMessage(t *testing.T, res *httptest.ResponseRecorder) string {
	t.Helper()
	var body httpx.MessageBody
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	return body.Message
}

func aliceCredentials() map[string]string {
	return map[string]string{"username": "alice", "password": "pw123"}
}

func TestAuthFlowRegisterLoginLogout(t *testing.T) {
	f := newAuthFixture(t)

	res := f.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice", "email": "a@x.com", "password": "pw123",
	})
	require.Equal(t, http.StatusCreated, res.Code)
	assert.Equal(t, "User registered successfully", decodeMessage(t, res))

	res = f.do(t, http.MethodPost, "/api/auth/login", "", aliceCredentials())
	require.Equal(t, http.StatusOK, res.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	cookies := res.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.TokenCookieName, cookies[0].Name)
	assert.Equal(t, login.Token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, int(auth.DefaultSessionLifetime/time.Second), cookies[0].MaxAge)

	res = f.do(t, http.MethodGet, "/api/protected", login.Token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	var identity shared.Identity
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &identity))
	assert.Equal(t, "alice", identity.Username)

	res = f.do(t, http.MethodPost, "/api/auth/logout", login.Token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Logout successful. Token invalidated.", decodeMessage(t, res))

	res = f.do(t, http.MethodGet, "/api/protected", login.Token, nil)
	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Equal(t, "Invalid token", decodeMessage(t, res))

	res = f.do(t, http.MethodPost, "/api/auth/logout", login.Token, nil)
	assert.Equal(t, http.StatusForbidden, res.Code)
}

func TestLogoutOpaqueStoredToken(t *testing.T) {
	f := newAuthFixture(t)
	f.repo.PutToken(3, "abc", time.Now())

	res := f.do(t, http.MethodPost, "/api/auth/logout", "abc", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.False(t, f.repo.HasToken("abc"))

	res = f.do(t, http.MethodPost, "/api/auth/logout", "abc", nil)
	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Equal(t, "Invalid token", decodeMessage(t, res))
}

func TestLogoutTokenRevokedConcurrently(t *testing.T) {
	f := newAuthFixture(t)
	f.repo.PutToken(3, "abc", time.Now())
	f.repo.AfterFindToken = f.repo.RemoveToken

	res := f.do(t, http.MethodPost, "/api/auth/logout", "abc", nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Token not found or already invalidated.", decodeMessage(t, res))
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	f := newAuthFixture(t)

	res := f.do(t, http.MethodGet, "/api/protected", "", nil)
	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Equal(t, "Token missing", decodeMessage(t, res))

	res = f.do(t, http.MethodGet, "/api/protected", "not.a.jwt", nil)
	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Equal(t, "Invalid token", decodeMessage(t, res))
}

func TestRegisterErrors(t *testing.T) {
	f := newAuthFixture(t)

	res := f.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice", "email": "a@x.com", "password": "pw123",
	})
	require.Equal(t, http.StatusCreated, res.Code)

	res = f.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice", "email": "b@x.com", "password": "pw456",
	})
	assert.Equal(t, http.StatusConflict, res.Code)
	assert.Equal(t, "User already exists", decodeMessage(t, res))
	assert.Equal(t, "a@x.com", f.repo.UserEmail("alice"))

	res = f.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "bob", "email": "not-an-email", "password": "pw123",
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, decodeMessage(t, res), "email")

	res = f.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "carol", "email": "c@x.com", "password": strings.Repeat("é", 40),
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, decodeMessage(t, res), "72 bytes")
	assert.Empty(t, f.repo.UserEmail("carol"))

	res = f.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "  ab  ", "email": "d@x.com", "password": "pw123",
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Empty(t, f.repo.UserEmail("ab"))

	res = f.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "  dave  ", "email": " e@x.com ", "password": "pw123",
	})
	require.Equal(t, http.StatusCreated, res.Code)
	assert.Equal(t, "e@x.com", f.repo.UserEmail("dave"))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginErrors(t *testing.T) {
	f := newAuthFixture(t)
	f.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice", "email": "a@x.com", "password": "pw123",
	})

	res := f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "ghost", "password": "pw123"})
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "User not found", decodeMessage(t, res))

	res = f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "Invalid password", decodeMessage(t, res))

	res = f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = f.do(t, http.MethodPost, "/api/auth/login", "", aliceCredentials())
	require.Equal(t, http.StatusOK, res.Code)

	res = f.do(t, http.MethodPost, "/api/auth/login", "", aliceCredentials())
	assert.Equal(t, http.StatusTooManyRequests, res.Code)
	assert.Equal(t, "Please wait before trying again", decodeMessage(t, res))
	assert.Equal(t, 1, f.repo.TokenCount())
}

func TestLoginThrottleIsPerAccount(t *testing.T) {
	f := newAuthFixture(t)
	for _, u := range []map[string]string{
		{"username": "alice", "email": "a@x.com", "password": "pw123"},
		{"username": "ALICE", "email": "upper@x.com", "password": "pw456"},
	} {
		res := f.do(t, http.MethodPost, "/api/auth/register", "", u)
		require.Equal(t, http.StatusCreated, res.Code)
	}

	res := f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "ALICE", "password": "pw456"})
	require.Equal(t, http.StatusOK, res.Code)

	res = f.do(t, http.MethodPost, "/api/auth/login", "", aliceCredentials())
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, 2, f.repo.TokenCount())
}

func TestCheckToken(t *testing.T) {
	f := newAuthFixture(t)
	f.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice", "email": "a@x.com", "password": "pw123",
	})
	res := f.do(t, http.MethodPost, "/api/auth/login", "", aliceCredentials())
	require.Equal(t, http.StatusOK, res.Code)
	cookie := res.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/api/auth/check-token", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		IsAuthenticated bool   `json:"isAuthenticated"`
		Username        string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.IsAuthenticated)
	assert.Equal(t, "alice", body.Username)

	res = f.do(t, http.MethodGet, "/api/auth/check-token", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.JSONEq(t, `{"isAuthenticated":false}`, res.Body.String())
}
