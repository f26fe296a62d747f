package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Chidipothusiritha/ftransaction-2025/internal/dto"
	"github.com/Chidipothusiritha/ftransaction-2025/internal/repository"
	"github.com/Chidipothusiritha/ftransaction-2025/internal/service"
)

type AlertHandler struct {
	alerts *service.AlertService
	logger *zap.Logger
}

func NewAlertHandler(alerts *service.AlertService, logger *zap.Logger) *AlertHandler {
	return &AlertHandler{alerts: alerts, logger: logger}
}

// Feed returns recent open alerts for the dashboard widget
func (h *AlertHandler) Feed(w http.ResponseWriter, r *http.Request) {
	items, err := h.alerts.Feed(r.Context(), queryLimit(r, 12))
	if err != nil {
		h.logger.Error("alert feed failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to load alerts")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// Resolve marks a single alert cleared or resolved (operator override)
func (h *AlertHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req dto.ResolveAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.alerts.Resolve(r.Context(), req.AlertID, req.Status)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, map[string]string{"message": "Alert updated"})
	case errors.Is(err, service.ErrInvalidAlertStatus):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrAlertNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error("alert resolve failed", zap.Error(err), zap.Int("alert_id", req.AlertID))
		respondError(w, http.StatusInternalServerError, "Failed to update alert")
	}
}
