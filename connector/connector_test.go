package connector_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basiliclabs/pagoconnect/connector"
	"github.com/basiliclabs/pagoconnect/flow"
	"github.com/basiliclabs/pagoconnect/store"
)

const testBaseURL = "https://connector.example.com"

// mockNotifier records processor notifications and optionally fails
type mockNotifier struct {
	mu       sync.Mutex
	payloads []any
	err      error
}

func (m *mockNotifier) Notify(ctx context.Context, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads = append(m.payloads, payload)
	return m.err
}

func (m *mockNotifier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.payloads)
}

// callbackRecorder captures platform callback invocations
type callbackRecorder struct {
	mu    sync.Mutex
	calls []flow.AuthorizationResponse
}

func (c *callbackRecorder) fn(req flow.AuthorizationRequest, resp flow.AuthorizationResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, resp)
}

func (c *callbackRecorder) responses() []flow.AuthorizationResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]flow.AuthorizationResponse(nil), c.calls...)
}

type fixture struct {
	conn     *connector.Connector
	store    *store.RedisStore
	notifier *mockNotifier
	callback *callbackRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s := store.NewRedisStore(client)
	notifier := &mockNotifier{}
	callback := &callbackRecorder{}

	conn := connector.New(connector.Options{
		Flows:    flow.NewRegistry(testBaseURL),
		Store:    s,
		Notifier: notifier,
		Callback: callback.fn,
	})

	return &fixture{conn: conn, store: s, notifier: notifier, callback: callback}
}

func TestAuthorize_ImmediateApprove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := flow.AuthorizationRequest{PaymentID: "p1", Card: &flow.Card{Number: "4444333322221111"}}
	resp, err := f.conn.Authorize(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, "p1", resp.PaymentID)
	assert.Equal(t, flow.StatusApproved, resp.Status)
	assert.NotEmpty(t, resp.AuthorizationID)
	assert.Empty(t, f.callback.responses())
	assert.Equal(t, 1, f.notifier.count())
}

func TestAuthorize_AsyncApprove_DeliversCallback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := flow.AuthorizationRequest{PaymentID: "p2", Card: &flow.Card{Number: "4222222222222224"}}
	resp, err := f.conn.Authorize(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, flow.StatusPending, resp.Status)

	calls := f.callback.responses()
	require.Len(t, calls, 1)
	assert.Equal(t, "p2", calls[0].PaymentID)
	assert.Equal(t, flow.StatusApproved, calls[0].Status)

	// the deferred final response is persisted for later replay
	persisted, err := f.store.GetAuthorization(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, flow.StatusApproved, persisted.Status)
}

func TestAuthorize_IdempotentReplay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := flow.AuthorizationRequest{PaymentID: "p2", Card: &flow.Card{Number: "4222222222222224"}}

	_, err := f.conn.Authorize(ctx, req)
	require.NoError(t, err)
	require.Len(t, f.callback.responses(), 1)

	// second call replays the persisted terminal result without running the flow
	resp, err := f.conn.Authorize(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, flow.StatusApproved, resp.Status)
	assert.Len(t, f.callback.responses(), 1, "replay must not trigger another callback")
}

func TestAuthorize_PaymentApp_PersistsPendingTransaction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := flow.AuthorizationRequest{
		PaymentID:     "p5",
		PaymentMethod: "Promissories",
		Value:         99,
		Currency:      "USD",
	}
	resp, err := f.conn.Authorize(ctx, req)

	require.NoError(t, err)
	require.NotNil(t, resp.PaymentAppData)

	payload, err := flow.ParseAppPayload(resp.PaymentAppData.Payload)
	require.NoError(t, err)

	stored, err := f.store.TakePendingTransaction(ctx, payload.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, "p5", stored.PaymentID)
}

func TestAuthorize_NotifierFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("processor unreachable")

	resp, err := f.conn.Authorize(context.Background(), flow.AuthorizationRequest{
		PaymentID: "p1",
		Card:      &flow.Card{Number: "4444333322221111"},
	})

	require.NoError(t, err, "processor notification is best-effort")
	assert.Equal(t, flow.StatusApproved, resp.Status)
}

func TestFixedOperations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cancel := f.conn.Cancel(ctx, flow.CancellationRequest{PaymentID: "p1"})
	assert.Equal(t, "p1", cancel.PaymentID)
	assert.NotEmpty(t, cancel.CancellationID)

	refund := f.conn.Refund(ctx, flow.RefundRequest{PaymentID: "p1", Value: 10})
	assert.Equal(t, "refund-manually", refund.Code)

	settle := f.conn.Settle(ctx, flow.SettlementRequest{PaymentID: "p1", Value: 10})
	assert.Equal(t, "settle-denied", settle.Code)

	assert.Equal(t, 3, f.notifier.count())
}
