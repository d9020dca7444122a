package food

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/foodshare/foodshare/internal/platform/httpx"
	"github.com/foodshare/foodshare/internal/shared"
)

// Handler exposes food sharing endpoints. Routes expect an authenticated
// identity in the request context.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validator: httpx.NewValidator()}
}

// MountRoutes registers food routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/share", h.handleShare)
	r.Get("/available", h.handleAvailable)
	r.Get("/mine", h.handleMine)
}

func (h *Handler) handleShare(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Message(w, http.StatusForbidden, "Token missing")
		return
	}
	var in ShareInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validator.Struct(in); err != nil {
		httpx.Message(w, http.StatusBadRequest, httpx.ValidationMessage(err))
		return
	}
	if _, err := h.service.Share(r.Context(), identity.ID, in); err != nil {
		if httpx.StatusFor(err) == http.StatusBadRequest {
			httpx.RespondError(w, err)
			return
		}
		h.logger.Error("share food", slog.Int64("user_id", identity.ID), slog.Any("error", err))
		httpx.Message(w, http.StatusInternalServerError, "Error sharing food")
		return
	}
	httpx.Message(w, http.StatusCreated, "Food shared successfully")
}

func (h *Handler) handleAvailable(w http.ResponseWriter, r *http.Request) {
	shares, err := h.service.Available(r.Context())
	if err != nil {
		h.logger.Error("list available food", slog.Any("error", err))
		httpx.Message(w, http.StatusInternalServerError, "Error retrieving available food")
		return
	}
	httpx.JSON(w, http.StatusOK, nonNil(shares))
}

func (h *Handler) handleMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Message(w, http.StatusForbidden, "Token missing")
		return
	}
	shares, err := h.service.Mine(r.Context(), identity.ID)
	if err != nil {
		h.logger.Error("list own food", slog.Int64("user_id", identity.ID), slog.Any("error", err))
		httpx.Message(w, http.StatusInternalServerError, "Error retrieving your shared food")
		return
	}
	httpx.JSON(w, http.StatusOK, nonNil(shares))
}

func nonNil(shares []Share) []Share {
	if shares == nil {
		return []Share{}
	}
	return shares
}
