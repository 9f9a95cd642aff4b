package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"mediascope/logger"
	"mediascope/model"

	"github.com/go-redis/redis/v8"
)

// ReportKey builds the cache key for an inline report. Input paths can be
// long and contain arbitrary characters, so the path is hashed.
func ReportKey(input string, format model.InfoFormat, full bool) string {
	sum := sha256.Sum256([]byte(input))
	return fmt.Sprintf("report:%s:%s:%t", hex.EncodeToString(sum[:12]), format, full)
}

// GetReport returns a cached inline report, or nil on a miss. An unavailable
// cache is reported as a miss, never as an error.
func GetReport(ctx context.Context, input string, format model.InfoFormat, full bool) []byte {
	if RedisClient == nil {
		return nil
	}

	key := ReportKey(input, format, full)
	val, err := RedisClient.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("report cache read failed", logger.String("key", key), logger.ErrorField(err))
		}
		return nil
	}

	logger.Debug("report cache hit", logger.String("key", key))
	return val
}

// SetReport stores an inline report with the given TTL. Failures are logged
// and swallowed; caching is strictly best effort.
func SetReport(ctx context.Context, input string, format model.InfoFormat, full bool, report []byte, ttl time.Duration) {
	if RedisClient == nil {
		return
	}

	key := ReportKey(input, format, full)
	if err := RedisClient.Set(ctx, key, report, ttl).Err(); err != nil {
		logger.Warn("report cache write failed", logger.String("key", key), logger.ErrorField(err))
	}
}
