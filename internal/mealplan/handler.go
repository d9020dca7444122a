package mealplan

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/foodshare/foodshare/internal/platform/httpx"
	"github.com/foodshare/foodshare/internal/shared"
)

// Handler exposes meal plan endpoints.
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

// MountRoutes registers meal plan routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/save", h.handleSave)
	r.Get("/list", h.handleList)
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Message(w, http.StatusForbidden, "Token missing")
		return
	}
	var in SaveInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validator.Struct(in); err != nil {
		httpx.Message(w, http.StatusBadRequest, httpx.ValidationMessage(err))
		return
	}
	if _, err := h.service.Save(r.Context(), identity.ID, in); err != nil {
		if httpx.StatusFor(err) == http.StatusBadRequest {
			httpx.RespondError(w, err)
			return
		}
		h.logger.Error("save meal plan", slog.Int64("user_id", identity.ID), slog.Any("error", err))
		httpx.Message(w, http.StatusInternalServerError, "Error saving meal plan")
		return
	}
	httpx.Message(w, http.StatusCreated, "Meal plan saved successfully")
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Message(w, http.StatusForbidden, "Token missing")
		return
	}
	plans, err := h.service.List(r.Context(), identity.ID)
	if err != nil {
		h.logger.Error("list meal plans", slog.Int64("user_id", identity.ID), slog.Any("error", err))
		httpx.Message(w, http.StatusInternalServerError, "Error retrieving meal plans")
		return
	}
	if plans == nil {
		plans = []Plan{}
	}
	httpx.JSON(w, http.StatusOK, plans)
}
