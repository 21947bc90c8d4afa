package connector

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"github.com/basiliclabs/pagoconnect/flow"
	"github.com/basiliclabs/pagoconnect/infra/logger"
)

// Notifier posts gateway events to the downstream processor. Callers treat the
// call as best-effort: they log the returned error and move on.
type Notifier interface {
	Notify(ctx context.Context, payload any) error
}

// CallbackFunc delivers a final authorization outcome to the checkout platform.
// It is invoked whenever a terminal response becomes known outside the
// synchronous call path. Implementations must not panic; failures stay inside
// the callback.
type CallbackFunc func(req flow.AuthorizationRequest, resp flow.AuthorizationResponse)

// ProcessorNotifier implements Notifier over plain HTTP POST
type ProcessorNotifier struct {
	url    string
	client *http.Client
}

// NewProcessorNotifier creates a notifier for the processor at url
func NewProcessorNotifier(url string, timeout time.Duration) *ProcessorNotifier {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &ProcessorNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Notify posts payload as JSON and fails on any non-2xx status
func (n *ProcessorNotifier) Notify(ctx context.Context, payload any) error {
	body, err := sonic.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("notification request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification rejected with status %d", resp.StatusCode)
	}
	return nil
}

// NewPlatformCallback returns a CallbackFunc that posts the final outcome to
// the callback URL carried by the originating request. Delivery is
// fire-and-forget; failures are logged and dropped.
func NewPlatformCallback(client *http.Client) CallbackFunc {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return func(req flow.AuthorizationRequest, resp flow.AuthorizationResponse) {
		if req.CallbackURL == "" {
			logger.Warn("no callback URL on request, dropping platform notification", logger.LogContext{
				PaymentID: req.PaymentID,
			})
			return
		}

		body, err := sonic.Marshal(resp)
		if err != nil {
			logger.Error("failed to marshal platform callback", err, logger.LogContext{PaymentID: req.PaymentID})
			return
		}

		httpReq, err := http.NewRequest(http.MethodPost, req.CallbackURL, bytes.NewReader(body))
		if err != nil {
			logger.Error("failed to create platform callback request", err, logger.LogContext{PaymentID: req.PaymentID})
			return
		}
		httpReq.Header.Set("Content-Type", "application/json")

		r, err := client.Do(httpReq)
		if err != nil {
			logger.Error("platform callback failed", err, logger.LogContext{PaymentID: req.PaymentID})
			return
		}
		defer r.Body.Close()
		_, _ = io.Copy(io.Discard, r.Body)

		if r.StatusCode < 200 || r.StatusCode >= 300 {
			logger.Warn("platform callback rejected", logger.LogContext{
				PaymentID: req.PaymentID,
				Fields:    map[string]any{"status": r.StatusCode},
			})
		}
	}
}
