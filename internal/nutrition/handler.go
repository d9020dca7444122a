package nutrition

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/foodshare/foodshare/internal/platform/httpx"
	"github.com/foodshare/foodshare/internal/shared"
)

// Handler exposes nutrition endpoints.
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

// MountRoutes registers nutrition routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/log", h.handleLog)
	r.Get("/logs", h.handleLogs)
	r.Get("/summary", h.handleSummary)
}

func (h *Handler) handleLog(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Message(w, http.StatusForbidden, "Token missing")
		return
	}
	var in LogInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validator.Struct(in); err != nil {
		httpx.Message(w, http.StatusBadRequest, httpx.ValidationMessage(err))
		return
	}
	if _, err := h.service.Record(r.Context(), identity.ID, in); err != nil {
		if httpx.StatusFor(err) == http.StatusBadRequest {
			httpx.RespondError(w, err)
			return
		}
		h.logger.Error("log nutrition", slog.Int64("user_id", identity.ID), slog.Any("error", err))
		httpx.Message(w, http.StatusInternalServerError, "Error logging nutrition")
		return
	}
	httpx.Message(w, http.StatusCreated, "Nutrition logged successfully")
}

func (h *Handler) handleLogs(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Message(w, http.StatusForbidden, "Token missing")
		return
	}
	logs, err := h.service.Logs(r.Context(), identity.ID)
	if err != nil {
		h.logger.Error("list nutrition logs", slog.Int64("user_id", identity.ID), slog.Any("error", err))
		httpx.Message(w, http.StatusInternalServerError, "Error retrieving logs")
		return
	}
	if logs == nil {
		logs = []Log{}
	}
	httpx.JSON(w, http.StatusOK, logs)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Message(w, http.StatusForbidden, "Token missing")
		return
	}
	totals, err := h.service.Summary(r.Context(), identity.ID)
	if err != nil {
		h.logger.Error("nutrition summary", slog.Int64("user_id", identity.ID), slog.Any("error", err))
		httpx.Message(w, http.StatusInternalServerError, "Error retrieving summary")
		return
	}
	if totals == nil {
		totals = []DailyTotal{}
	}
	httpx.JSON(w, http.StatusOK, totals)
}
