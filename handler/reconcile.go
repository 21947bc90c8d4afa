package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/basiliclabs/pagoconnect/connector"
	"github.com/basiliclabs/pagoconnect/infra/logger"
	"github.com/basiliclabs/pagoconnect/infra/response"
)

// ReconcileService defines the confirmation operations keyed by transaction id
type ReconcileService interface {
	ApprovePayment(ctx context.Context, transactionID string) error
	DenyPayment(ctx context.Context, transactionID string) error
}

// ReconcileHandler handles the inbound confirmation webhooks fired by the
// external payment app. Response bodies follow the fixed webhook contract:
// 200 {"success":true}, 404 {"error":"Transaction not found"},
// 500 {"error":"Internal server error"}.
type ReconcileHandler struct {
	connector ReconcileService
}

// NewReconcileHandler creates a new reconcile handler
func NewReconcileHandler(connector ReconcileService) *ReconcileHandler {
	return &ReconcileHandler{connector: connector}
}

// ApprovePayment handles POST /approve-payment/{transactionID}
func (h *ReconcileHandler) ApprovePayment(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.connector.ApprovePayment)
}

// DenyPayment handles POST /deny-payment/{transactionID}
func (h *ReconcileHandler) DenyPayment(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.connector.DenyPayment)
}

func (h *ReconcileHandler) handle(w http.ResponseWriter, r *http.Request, op func(context.Context, string) error) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	transactionID := chi.URLParam(r, "transactionID")
	if transactionID == "" {
		_ = response.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "Transaction not found"})
		return
	}

	err := op(ctx, transactionID)
	switch {
	case err == nil:
		_ = response.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
	case errors.Is(err, connector.ErrTransactionNotFound):
		_ = response.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "Transaction not found"})
	default:
		logger.Error("confirmation processing failed", err, logger.LogContext{TransactionID: transactionID})
		_ = response.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
}
