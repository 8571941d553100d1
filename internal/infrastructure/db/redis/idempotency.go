package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/explore-taroudant/explore-api/internal/core/ports"
)

const (
	idempotencyTTL = 24 * time.Hour
	// A claim that is never completed (crash, lost connection) expires after
	// pendingTTL so the client can retry.
	pendingTTL    = time.Minute
	pendingMarker = "pending"
)

// IdempotencyStore maps a client-supplied request key to the reservation it
// created. Key format: idem:reservation:<actor_id>:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: idempotencyTTL}
}

// Claim takes the key with SETNX. When another request holds it, the stored
// reservation id is returned, or "" while that request is still pending.
func (s *IdempotencyStore) Claim(ctx context.Context, actorID, key string) (bool, string, error) {
	k := s.key(actorID, key)
	ok, err := s.client.SetNX(ctx, k, pendingMarker, pendingTTL).Result()
	if err != nil {
		return false, "", fmt.Errorf("idempotency claim: %w", err)
	}
	if ok {
		return true, "", nil
	}

	id, err := s.client.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// Released or expired between SETNX and GET; the holder is gone.
		return false, "", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("idempotency lookup: %w", err)
	}
	if id == pendingMarker {
		return false, "", nil
	}
	return false, id, nil
}

// Complete replaces the pending marker with the reservation id.
func (s *IdempotencyStore) Complete(ctx context.Context, actorID, key, reservationID string) error {
	if err := s.client.Set(ctx, s.key(actorID, key), reservationID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

// Release deletes a pending claim.
func (s *IdempotencyStore) Release(ctx context.Context, actorID, key string) error {
	if err := s.client.Del(ctx, s.key(actorID, key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(actorID, key string) string {
	return fmt.Sprintf("idem:reservation:%s:%s", actorID, key)
}
