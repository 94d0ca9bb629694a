package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// checkAndSetRateLimit allows one attempt per key per window. Without
// redis the limit is a no-op.
func checkAndSetRateLimit(ctx context.Context, rdb *redis.Client, action, key string, limit time.Duration) (bool, error) {
	if rdb == nil || limit <= 0 {
		return true, nil
	}

	redisKey := fmt.Sprintf("rate_limit:%s:%s", action, key)

	wasSet, err := rdb.SetNX(ctx, redisKey, "locked", limit).Result()
	if err != nil {
		return true, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}
