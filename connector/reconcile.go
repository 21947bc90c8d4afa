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

// ErrTransactionNotFound reports a confirmation for an unknown, already
// resolved or expired transaction id
var ErrTransactionNotFound = errors.New("transaction not found")

// ApprovePayment resolves the pending transaction to an approved terminal
// response, persists it under the original payment id and notifies the
// checkout platform.
func (c *Connector) ApprovePayment(ctx context.Context, transactionID string) error {
	return c.reconcile(ctx, transactionID, true)
}

// DenyPayment resolves the pending transaction to a denied terminal response,
// persists it under the original payment id and notifies the checkout platform.
func (c *Connector) DenyPayment(ctx context.Context, transactionID string) error {
	return c.reconcile(ctx, transactionID, false)
}

// reconcile consumes the pending record before writing the terminal result, so
// an at-least-once webhook delivery resolves each transaction exactly once; the
// duplicate sees not-found and mutates nothing.
func (c *Connector) reconcile(ctx context.Context, transactionID string, approve bool) error {
	req, err := c.store.TakePendingTransaction(ctx, transactionID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrTransactionNotFound
	}
	if err != nil {
		return fmt.Errorf("pending transaction lookup failed: %w", err)
	}

	var resp flow.AuthorizationResponse
	if approve {
		resp = flow.Approve(req, flow.NewID(), flow.NewID(), flow.NewID())
	} else {
		resp = flow.Deny(req, flow.NewID())
	}

	if err := c.store.SaveAuthorization(ctx, resp); err != nil {
		return fmt.Errorf("failed to persist reconciled authorization: %w", err)
	}

	logger.Info("pending transaction reconciled", logger.LogContext{
		PaymentID:     req.PaymentID,
		TransactionID: transactionID,
		Fields:        map[string]any{"status": resp.Status},
	})

	if c.callback != nil {
		c.callback(req, resp)
	}

	c.record(ctx, audit.Entry{
		PaymentID:     req.PaymentID,
		Operation:     "reconcile",
		Status:        string(resp.Status),
		TransactionID: transactionID,
		Value:         req.Value,
		Currency:      req.Currency,
	})

	return nil
}
