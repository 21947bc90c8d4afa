package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/basiliclabs/pagoconnect/flow"
	"github.com/basiliclabs/pagoconnect/infra/response"
)

// ConnectorService defines the gateway operations the payment handler exposes
type ConnectorService interface {
	Authorize(ctx context.Context, req flow.AuthorizationRequest) (flow.AuthorizationResponse, error)
	Cancel(ctx context.Context, req flow.CancellationRequest) flow.CancellationResponse
	Refund(ctx context.Context, req flow.RefundRequest) flow.RefundResponse
	Settle(ctx context.Context, req flow.SettlementRequest) flow.SettlementResponse
}

// PaymentHandler handles the checkout platform facing endpoints
type PaymentHandler struct {
	connector ConnectorService
	validate  *validator.Validate
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(connector ConnectorService, validate *validator.Validate) *PaymentHandler {
	return &PaymentHandler{
		connector: connector,
		validate:  validate,
	}
}

// Authorize handles authorization requests. The body is written as the raw
// authorization response, the wire format the platform expects.
func (h *PaymentHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var req flow.AuthorizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Validation error", err)
		return
	}

	resp, err := h.connector.Authorize(ctx, req)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Authorization failed", err)
		return
	}

	_ = response.WriteJSON(w, http.StatusOK, resp)
}

// Cancel handles cancellation requests
func (h *PaymentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	paymentID := chi.URLParam(r, "paymentID")
	if paymentID == "" {
		response.Error(w, http.StatusBadRequest, "Missing payment ID", nil)
		return
	}

	var req flow.CancellationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// body is optional for cancellations
		req = flow.CancellationRequest{}
	}
	req.PaymentID = paymentID

	resp := h.connector.Cancel(ctx, req)
	_ = response.WriteJSON(w, http.StatusOK, resp)
}

// Refund handles refund requests
func (h *PaymentHandler) Refund(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	paymentID := chi.URLParam(r, "paymentID")
	if paymentID == "" {
		response.Error(w, http.StatusBadRequest, "Missing payment ID", nil)
		return
	}

	var req flow.RefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req = flow.RefundRequest{}
	}
	req.PaymentID = paymentID

	resp := h.connector.Refund(ctx, req)
	_ = response.WriteJSON(w, http.StatusOK, resp)
}

// Settle handles settlement requests
func (h *PaymentHandler) Settle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	paymentID := chi.URLParam(r, "paymentID")
	if paymentID == "" {
		response.Error(w, http.StatusBadRequest, "Missing payment ID", nil)
		return
	}

	var req flow.SettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req = flow.SettlementRequest{}
	}
	req.PaymentID = paymentID

	resp := h.connector.Settle(ctx, req)
	_ = response.WriteJSON(w, http.StatusOK, resp)
}
