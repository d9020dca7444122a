package httpx_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodshare/foodshare/internal/platform/httpx"
	"github.com/foodshare/foodshare/internal/shared"
)

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		shared.ErrValidation:                           http.StatusBadRequest,
		shared.ErrNotFound:                             http.StatusNotFound,
		shared.ErrInvalidCredentials:                   http.StatusUnauthorized,
		shared.ErrTokenMissing:                         http.StatusForbidden,
		shared.ErrTokenInvalid:                         http.StatusForbidden,
		shared.ErrDuplicate:                            http.StatusConflict,
		shared.ErrThrottled:                            http.StatusTooManyRequests,
		fmt.Errorf("wrapped: %w", shared.ErrDuplicate): http.StatusConflict,
		errors.New("connection refused"):               http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, httpx.StatusFor(err), err.Error())
	}
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	res := httptest.NewRecorder()
	httpx.RespondError(res, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.NotContains(t, res.Body.String(), "password authentication")
	assert.Equal(t, "application/json", res.Header().Get("Content-Type"))
}

func TestDecodeJSONMalformed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	var target map[string]any
	err := httpx.DecodeJSON(req, &target)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrValidation)
}
