package api

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList stores the IDs of logged-out tokens in Redis so every
// instance rejects them. Entries expire together with the token they revoke.
type RevocationList struct {
	client *redis.Client
}

// NewRevocationList creates a revocation list on the provided Redis client.
func NewRevocationList(client *redis.Client) *RevocationList {
	return &RevocationList{client: client}
}

func (r *RevocationList) key(jti string) string {
	return "revoked_token:" + jti
}

// Revoke records the token ID for the given remaining lifetime.
func (r *RevocationList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Second
	}
	return r.client.Set(ctx, r.key(jti), 1, ttl).Err()
}

// IsRevoked reports whether the token ID has been revoked.
func (r *RevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
