package store

import (
	"context"
	"errors"

	"github.com/basiliclabs/pagoconnect/flow"
)

// ErrNotFound is returned when a key has no record in its bucket
var ErrNotFound = errors.New("record not found")

// Store is the durable key-value persistence behind the connector. It keeps
// two logical buckets: authorization results keyed by payment id, and pending
// payment-app transactions keyed by transaction correlation id. The backing
// store serializes individual key reads and writes but offers no cross-key
// transaction.
type Store interface {
	// SaveAuthorization persists resp as the latest result for its payment id,
	// overwriting any prior pending result.
	SaveAuthorization(ctx context.Context, resp flow.AuthorizationResponse) error

	// GetAuthorization returns the last persisted result for the payment id,
	// or ErrNotFound.
	GetAuthorization(ctx context.Context, paymentID string) (flow.AuthorizationResponse, error)

	// SavePendingTransaction records the originating request of a payment-app
	// authorization under its transaction correlation id.
	SavePendingTransaction(ctx context.Context, transactionID string, req flow.AuthorizationRequest) error

	// TakePendingTransaction atomically reads and removes the pending record,
	// or returns ErrNotFound. Removal is what makes duplicate confirmation
	// deliveries observable as not-found.
	TakePendingTransaction(ctx context.Context, transactionID string) (flow.AuthorizationRequest, error)
}
