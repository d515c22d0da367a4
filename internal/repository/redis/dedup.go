package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "webhook:session:"

	// sessionTTL keeps dedup markers well past the provider's retry window.
	sessionTTL = 24 * time.Hour
)

// SessionDedup marks checkout sessions as processed using Redis SETNX. It is
// a fast-path filter for webhook retries; the bookings table's unique
// constraint remains the durable guard.
type SessionDedup struct {
	client *redis.Client
}

// NewSessionDedup creates a Redis-backed session dedup store.
func NewSessionDedup(client *redis.Client) *SessionDedup {
	return &SessionDedup{client: client}
}

// MarkProcessed atomically records the session id. It returns false when the
// session was already marked, meaning a retry or replay is in flight.
func (d *SessionDedup) MarkProcessed(ctx context.Context, sessionID string) (bool, error) {
	ok, err := d.client.SetNX(ctx, sessionKeyPrefix+sessionID, "1", sessionTTL).Result()
	if err != nil {
		return false, fmt.Errorf("mark session processed: %w", err)
	}
	return ok, nil
}
