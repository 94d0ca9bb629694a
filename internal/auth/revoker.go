package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revoker tracks signed-out tokens until their natural expiry. A pending
// society denied at the gate must never retain a live session, so denial
// and logout both land here.
type Revoker interface {
	Revoke(ctx context.Context, session *Session) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type redisRevoker struct {
	rdb *redis.Client
}

func NewRedisRevoker(rdb *redis.Client) Revoker {
	return &redisRevoker{rdb: rdb}
}

func revocationKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("revoked_token:%s", hex.EncodeToString(sum[:]))
}

func (r *redisRevoker) Revoke(ctx context.Context, session *Session) error {
	if r.rdb == nil {
		return nil
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		// Already expired, nothing to do.
		return nil
	}

	return r.rdb.Set(ctx, revocationKey(session.Token), "revoked", ttl).Err()
}

func (r *redisRevoker) IsRevoked(ctx context.Context, token string) (bool, error) {
	if r.rdb == nil {
		return false, nil
	}

	n, err := r.rdb.Exists(ctx, revocationKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}

	return n > 0, nil
}
