package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "auth:revoked:"

// Revoker tracks tokens invalidated before their natural expiry.
type Revoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisRevocationList denylists token ids in Redis with a TTL matching the
// token's remaining lifetime, so entries clean themselves up.
type RedisRevocationList struct {
	client *redis.Client
}

// NewRedisRevocationList builds a revocation list over the shared client.
func NewRedisRevocationList(client *redis.Client) *RedisRevocationList {
	return &RedisRevocationList{client: client}
}

// Revoke denylists the token id until it would have expired anyway.
func (l *RedisRevocationList) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return l.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether the token id has been denylisted.
func (l *RedisRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	res, err := l.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return res > 0, nil
}
