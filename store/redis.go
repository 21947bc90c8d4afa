package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/basiliclabs/pagoconnect/flow"
)

const (
	authorizationsBucket      = "authorizations"
	pendingTransactionsBucket = "pending-transactions"
)

// RedisStore implements Store on a redis client. Buckets are key prefixes.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a redis-backed store
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func bucketKey(bucket, id string) string {
	return bucket + ":" + id
}

func (s *RedisStore) SaveAuthorization(ctx context.Context, resp flow.AuthorizationResponse) error {
	payload, err := sonic.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal authorization response: %w", err)
	}

	if err := s.client.Set(ctx, bucketKey(authorizationsBucket, resp.PaymentID), payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to save authorization %s: %w", resp.PaymentID, err)
	}
	return nil
}

func (s *RedisStore) GetAuthorization(ctx context.Context, paymentID string) (flow.AuthorizationResponse, error) {
	data, err := s.client.Get(ctx, bucketKey(authorizationsBucket, paymentID)).Result()
	if errors.Is(err, redis.Nil) {
		return flow.AuthorizationResponse{}, ErrNotFound
	}
	if err != nil {
		return flow.AuthorizationResponse{}, fmt.Errorf("failed to read authorization %s: %w", paymentID, err)
	}

	var resp flow.AuthorizationResponse
	if err := sonic.UnmarshalString(data, &resp); err != nil {
		return flow.AuthorizationResponse{}, fmt.Errorf("failed to unmarshal authorization %s: %w", paymentID, err)
	}
	return resp, nil
}

func (s *RedisStore) SavePendingTransaction(ctx context.Context, transactionID string, req flow.AuthorizationRequest) error {
	payload, err := sonic.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal authorization request: %w", err)
	}

	if err := s.client.Set(ctx, bucketKey(pendingTransactionsBucket, transactionID), payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to save pending transaction %s: %w", transactionID, err)
	}
	return nil
}

// TakePendingTransaction consumes the pending record with GETDEL so that a
// confirmation delivered twice resolves the record exactly once.
func (s *RedisStore) TakePendingTransaction(ctx context.Context, transactionID string) (flow.AuthorizationRequest, error) {
	data, err := s.client.GetDel(ctx, bucketKey(pendingTransactionsBucket, transactionID)).Result()
	if errors.Is(err, redis.Nil) {
		return flow.AuthorizationRequest{}, ErrNotFound
	}
	if err != nil {
		return flow.AuthorizationRequest{}, fmt.Errorf("failed to take pending transaction %s: %w", transactionID, err)
	}

	var req flow.AuthorizationRequest
	if err := sonic.UnmarshalString(data, &req); err != nil {
		return flow.AuthorizationRequest{}, fmt.Errorf("failed to unmarshal pending transaction %s: %w", transactionID, err)
	}
	return req, nil
}
