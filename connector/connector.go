// Package connector implements the gateway-facing entry points: authorization
// with flow resolution, the fixed cancel/refund/settle outcomes, and the
// reconciliation of external payment-app confirmations.
package connector

import (
	"context"
	"errors"
	"fmt"

	"github.com/basiliclabs/pagoconnect/audit"
	"github.com/basiliclabs/pagoconnect/flow"
	"github.com/basiliclabs/pagoconnect/infra/logger"
	"github.com/basiliclabs/pagoconnect/store"
)

// Auditor records gateway operations for offline inspection
type Auditor interface {
	Record(ctx context.Context, e audit.Entry) error
}

// Options wires the connector's collaborators. Flows and Store are required;
// the rest are optional side channels.
type Options struct {
	Flows    *flow.Registry
	Store    store.Store
	Notifier Notifier
	Callback CallbackFunc
	Audit    Auditor
}

// Connector orchestrates authorization requests against the flow table and the
// correlation store
type Connector struct {
	flows    *flow.Registry
	store    store.Store
	notifier Notifier
	callback CallbackFunc
	audit    Auditor
}

// New creates a connector
func New(opts Options) *Connector {
	return &Connector{
		flows:    opts.Flows,
		store:    opts.Store,
		notifier: opts.Notifier,
		callback: opts.Callback,
		audit:    opts.Audit,
	}
}

// Authorize resolves an authorization request. Replayed requests whose payment
// id already has a persisted result get that result back unchanged; everything
// else runs through the flow table. Payment-app flows additionally persist the
// pending correlation record so the confirmation webhooks can find the request
// later.
func (c *Connector) Authorize(ctx context.Context, req flow.AuthorizationRequest) (flow.AuthorizationResponse, error) {
	c.notifyProcessor(ctx, req)

	persisted, err := c.store.GetAuthorization(ctx, req.PaymentID)
	if err == nil {
		logger.Debug("replaying persisted authorization", logger.LogContext{PaymentID: req.PaymentID})
		return persisted, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return flow.AuthorizationResponse{}, fmt.Errorf("authorization lookup failed: %w", err)
	}

	selected := flow.Classify(req)
	resp := c.flows.Execute(req, func(deferred flow.AuthorizationResponse) {
		c.saveAndNotify(ctx, req, deferred)
	})

	if resp.PaymentAppData != nil {
		c.persistPendingTransaction(ctx, req, resp)
	}

	c.record(ctx, audit.Entry{
		PaymentID: req.PaymentID,
		Operation: "authorize",
		Flow:      string(selected),
		Status:    string(resp.Status),
		Value:     req.Value,
		Currency:  req.Currency,
	})

	return resp, nil
}

// Cancel always approves with a fresh cancellation id
func (c *Connector) Cancel(ctx context.Context, req flow.CancellationRequest) flow.CancellationResponse {
	c.notifyProcessor(ctx, req)
	c.record(ctx, audit.Entry{PaymentID: req.PaymentID, Operation: "cancel", Status: "approved"})
	return flow.ApproveCancellation(req, flow.NewID())
}

// Refund always denies; refunds are handled manually in this simulation
func (c *Connector) Refund(ctx context.Context, req flow.RefundRequest) flow.RefundResponse {
	c.notifyProcessor(ctx, req)
	c.record(ctx, audit.Entry{PaymentID: req.PaymentID, Operation: "refund", Status: "denied", Value: req.Value})
	return flow.DenyRefund(req)
}

// Settle always denies; settlement happens on the external payment app side
func (c *Connector) Settle(ctx context.Context, req flow.SettlementRequest) flow.SettlementResponse {
	c.notifyProcessor(ctx, req)
	c.record(ctx, audit.Entry{PaymentID: req.PaymentID, Operation: "settle", Status: "denied", Value: req.Value})
	return flow.DenySettlement(req)
}

// saveAndNotify persists a deferred response and forwards it to the checkout
// platform. Both steps are side effects of an already-answered authorization,
// so failures are logged and deliberately discarded.
func (c *Connector) saveAndNotify(ctx context.Context, req flow.AuthorizationRequest, resp flow.AuthorizationResponse) {
	if err := c.store.SaveAuthorization(ctx, resp); err != nil {
		logger.Error("failed to persist deferred authorization", err, logger.LogContext{PaymentID: req.PaymentID})
	}
	if c.callback != nil {
		c.callback(req, resp)
	}
}

func (c *Connector) persistPendingTransaction(ctx context.Context, req flow.AuthorizationRequest, resp flow.AuthorizationResponse) {
	payload, err := flow.ParseAppPayload(resp.PaymentAppData.Payload)
	if err != nil {
		logger.Error("failed to parse payment app payload", err, logger.LogContext{PaymentID: req.PaymentID})
		return
	}
	if payload.TransactionID == "" {
		logger.Warn("payment app payload has no transaction id", logger.LogContext{PaymentID: req.PaymentID})
		return
	}

	if err := c.store.SavePendingTransaction(ctx, payload.TransactionID, req); err != nil {
		// the immediate response is still valid, the confirmation will just 404
		logger.Error("failed to store pending transaction", err, logger.LogContext{
			PaymentID:     req.PaymentID,
			TransactionID: payload.TransactionID,
		})
	}
}

func (c *Connector) notifyProcessor(ctx context.Context, payload any) {
	if c.notifier == nil {
		return
	}
	if err := c.notifier.Notify(ctx, payload); err != nil {
		// best-effort by contract, never fails the operation
		logger.Warn("processor notification failed", logger.LogContext{
			Fields: map[string]any{"error": err.Error()},
		})
	}
}

func (c *Connector) record(ctx context.Context, e audit.Entry) {
	if c.audit == nil {
		return
	}
	if err := c.audit.Record(ctx, e); err != nil {
		logger.Warn("audit record failed", logger.LogContext{
			PaymentID: e.PaymentID,
			Fields:    map[string]any{"error": err.Error()},
		})
	}
}
