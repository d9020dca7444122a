package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/foodshare/foodshare/internal/platform/httpx"
	"github.com/foodshare/foodshare/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger       *slog.Logger
	service      *Service
	middleware   Middleware
	validator    *validator.Validate
	secureCookie bool
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, secureCookie bool) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:       logger,
		service:      service,
		middleware:   Middleware{Service: service, Logger: logger},
		validator:    httpx.NewValidator(),
		secureCookie: secureCookie,
	}
}

// Middleware returns the token gate bound to this handler's service.
func (h *Handler) Middleware() Middleware {
	return h.middleware
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.Get("/check-token", h.handleCheckToken)
	r.Group(func(r chi.Router) {
		r.Use(h.middleware.RequireToken(StoreOnly))
		r.Post("/logout", h.handleLogout)
	})
}

type tokenResponse struct {
	Token string `json:"token"`
}

type checkTokenResponse struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	Username        string `json:"username,omitempty"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in RegisterInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	in.Normalize()
	if err := h.validator.Struct(in); err != nil {
		httpx.Message(w, http.StatusBadRequest, httpx.ValidationMessage(err))
		return
	}

	if _, err := h.service.Register(r.Context(), in); err != nil {
		switch {
		case errors.Is(err, shared.ErrDuplicate):
			httpx.Message(w, http.StatusConflict, "User already exists")
		case errors.Is(err, shared.ErrValidation):
			httpx.RespondError(w, err)
		default:
			h.logger.Error("register user", slog.Any("error", err))
			httpx.Message(w, http.StatusInternalServerError, "Error registering user")
		}
		return
	}
	httpx.Message(w, http.StatusCreated, "User registered successfully")
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in LoginInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validator.Struct(in); err != nil {
		httpx.Message(w, http.StatusBadRequest, httpx.ValidationMessage(err))
		return
	}

	token, err := h.service.Login(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrThrottled):
			httpx.Message(w, http.StatusTooManyRequests, "Please wait before trying again")
		case errors.Is(err, shared.ErrNotFound):
			httpx.Message(w, http.StatusNotFound, "User not found")
		case errors.Is(err, shared.ErrInvalidCredentials):
			httpx.Message(w, http.StatusUnauthorized, "Invalid password")
		default:
			h.logger.Error("login", slog.Any("error", err))
			httpx.Message(w, http.StatusInternalServerError, "Login failed. Please try again.")
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.service.SessionLifetime().Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.JSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := shared.TokenFromContext(r.Context())
	if err := h.service.Logout(r.Context(), token); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Message(w, http.StatusBadRequest, "Token not found or already invalidated.")
			return
		}
		h.logger.Error("logout", slog.Any("error", err))
		httpx.Message(w, http.StatusInternalServerError, "Logout failed. Please try again.")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.Message(w, http.StatusOK, "Logout successful. Token invalidated.")
}

func (h *Handler) handleCheckToken(w http.ResponseWriter, r *http.Request) {
	identity, err := h.service.Authenticate(r.Context(), RequestToken(r), FullCheck)
	if err != nil {
		if errors.Is(err, shared.ErrTokenMissing) || errors.Is(err, shared.ErrTokenInvalid) {
			httpx.JSON(w, http.StatusUnauthorized, checkTokenResponse{IsAuthenticated: false})
			return
		}
		h.logger.Error("check token", slog.Any("error", err))
		httpx.Message(w, http.StatusInternalServerError, "Could not validate token")
		return
	}
	httpx.JSON(w, http.StatusOK, checkTokenResponse{IsAuthenticated: true, Username: identity.Username})
}
