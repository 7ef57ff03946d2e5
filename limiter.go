// Copyright (C) 2024-2026, Sealrpc Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package sealrpc

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter admits or rejects a request before any body parsing occurs.
// The key is extracted from the request's originating address.
type RateLimiter interface {
	// Allow returns nil to admit, ErrRateLimited to reject, or any other
	// error when the limiter backend itself failed.
	Allow(ctx context.Context, key string) error
}

// RatePolicy holds fixed-window limiter tuning parameters.
type RatePolicy struct {
	Window time.Duration
	Limit  int
}

// Default admission policies. Unencrypted routes get the strict budget;
// encrypted traffic is authenticated and presumed lower-risk.
var (
	DefaultPlainPolicy     = RatePolicy{Window: time.Minute, Limit: 30}
	DefaultEncryptedPolicy = RatePolicy{Window: time.Minute, Limit: 120}
)

// RedisLimiter enforces a RatePolicy with fixed-window Redis counters:
// INCR plus a conditional EXPIRE on the window's first hit.
type RedisLimiter struct {
	redis  redis.UniversalClient
	prefix string
	policy RatePolicy
}

// NewRedisLimiter creates a limiter backed by the given Redis client.
// The prefix namespaces counter keys so independent policies can share
// one Redis instance.
func NewRedisLimiter(redisClient redis.UniversalClient, prefix string, policy RatePolicy) *RedisLimiter {
	return &RedisLimiter{
		redis:  redisClient,
		prefix: prefix,
		policy: policy,
	}
}

// Allow counts one request against key's current window.
func (l *RedisLimiter) Allow(ctx context.Context, key string) error {
	k := l.prefix + ":" + key
	count, err := l.redis.Incr(ctx, k).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
	}
	if count == 1 {
		if err := l.redis.Expire(ctx, k, l.policy.Window).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
		}
	}
	if count > int64(l.policy.Limit) {
		return ErrRateLimited
	}
	return nil
}

// allowAll admits everything. It is the default when no limiter is
// configured.
type allowAll struct{}

func (allowAll) Allow(context.Context, string) error { return nil }
