package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/Chidipothusiritha/ftransaction-2025/internal/dto"
	"github.com/Chidipothusiritha/ftransaction-2025/internal/middleware"
	"github.com/Chidipothusiritha/ftransaction-2025/internal/repository"
	"github.com/Chidipothusiritha/ftransaction-2025/internal/service"
)

// DeviceLinker resolves a device fingerprint to a device id before
// ingestion.
type DeviceLinker interface {
	GetOrCreate(ctx context.Context, customerID int, fingerprint, label string) (int, error)
}

type TransactionHandler struct {
	ingestion    *service.IngestionService
	stepUp       *service.StepUpService
	alerts       *service.AlertService
	accounts     service.AccountStore
	transactions service.TransactionStore
	devices      DeviceLinker
	logger       *zap.Logger
}

func NewTransactionHandler(
	ingestion *service.IngestionService,
	stepUp *service.StepUpService,
	alerts *service.AlertService,
	accounts service.AccountStore,
	transactions service.TransactionStore,
	devices DeviceLinker,
	logger *zap.Logger,
) *TransactionHandler {
	return &TransactionHandler{
		ingestion:    ingestion,
		stepUp:       stepUp,
		alerts:       alerts,
		accounts:     accounts,
		transactions: transactions,
		devices:      devices,
		logger:       logger,
	}
}

// Ingest creates a transaction on one of the caller's accounts and runs
// detection. When detection parks the transaction behind step-up
// verification, the response says so.
func (h *TransactionHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.CustomerID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req dto.IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	account, err := h.accounts.GetByID(r.Context(), req.AccountID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid account selection")
		return
	}
	if account.CustomerID != customerID {
		respondError(w, http.StatusForbidden, "Invalid account selection")
		return
	}

	deviceID := req.DeviceID
	if req.Fingerprint != "" && h.devices != nil {
		// Best-effort: a device registry hiccup never blocks the payment.
		if id, err := h.devices.GetOrCreate(r.Context(), customerID, req.Fingerprint, req.DeviceLabel); err != nil {
			h.logger.Warn("device link failed", zap.Error(err))
		} else {
			deviceID = &id
		}
	}

	txID, err := h.ingestion.Ingest(r.Context(), service.IngestRequest{
		AccountID:  req.AccountID,
		MerchantID: req.MerchantID,
		DeviceID:   deviceID,
		Amount:     req.Amount,
		Currency:   req.Currency,
		Direction:  req.Direction,
		Status:     req.Status,
		TS:         req.TS,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("ingest failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create transaction")
		return
	}

	alerts, err := h.alerts.ListForTransaction(r.Context(), txID)
	if err != nil {
		h.logger.Warn("alert listing failed", zap.Error(err), zap.Int("transaction_id", txID))
	}

	required, err := h.stepUp.Required(r.Context(), txID)
	if err != nil {
		h.logger.Warn("step-up check failed", zap.Error(err), zap.Int("transaction_id", txID))
	}
	message := "Transaction created. Alerts evaluated."
	if required {
		if err := h.stepUp.Begin(r.Context(), txID); err != nil {
			h.logger.Error("failed to suspend settlement", zap.Error(err), zap.Int("transaction_id", txID))
		} else {
			message = "Transaction held for verification. Confirm with your PIN."
		}
	}

	respondJSON(w, http.StatusCreated, dto.IngestResponse{
		TransactionID:  txID,
		Alerts:         alerts,
		StepUpRequired: required,
		Message:        message,
	})
}

// Get returns a single transaction
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid transaction id")
		return
	}

	tx, err := h.transactions.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to load transaction")
		return
	}
	respondJSON(w, http.StatusOK, tx)
}

// List returns recent transactions
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 50)
	transactions, err := h.transactions.ListRecent(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}
	respondJSON(w, http.StatusOK, transactions)
}

// ListAlerts returns every alert raised against a transaction. Callers use
// it to decide whether step-up verification is required.
func (h *TransactionHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid transaction id")
		return
	}

	alerts, err := h.alerts.ListForTransaction(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list alerts")
		return
	}
	respondJSON(w, http.StatusOK, alerts)
}

// ConfirmStepUp settles or reverses a pending transaction after PIN
// verification.
func (h *TransactionHandler) ConfirmStepUp(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.CustomerID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid transaction id")
		return
	}

	var req dto.StepUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err = h.stepUp.Confirm(r.Context(), id, customerID, req.PIN, req.Decision)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, map[string]string{"message": "Step-up " + req.Decision + "d"})
	case errors.Is(err, service.ErrInvalidPIN),
		errors.Is(err, service.ErrNotAccountOwner),
		errors.Is(err, service.ErrPINNotSet):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotPendingVerification):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidDecision):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrTransactionNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error("step-up confirmation failed", zap.Error(err), zap.Int("transaction_id", id))
		respondError(w, http.StatusInternalServerError, "Step-up confirmation failed")
	}
}

func queryLimit(r *http.Request, fallback int) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			return limit
		}
	}
	return fallback
}
