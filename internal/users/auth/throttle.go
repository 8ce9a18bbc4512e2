// Copyright (c) 2026 Medira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/medira/internal/platform/constants"
)

// # Redis Throttle

// RedisLoginThrottle implements [LoginThrottle] backed by Redis counters.
//
// # Key Layout
//
// One counter per subject under "auth:login_attempts:<subject>", expiring
// after the attempt window so counters reset without any sweeper process.
type RedisLoginThrottle struct {
	client      *redis.Client
	maxAttempts int
}

// NewLoginThrottle constructs a [RedisLoginThrottle] using the platform limits.
func NewLoginThrottle(client *redis.Client) *RedisLoginThrottle {
	return &RedisLoginThrottle{
		client:      client,
		maxAttempts: constants.LoginMaxAttempts,
	}
}

// key builds the Redis key for a throttled subject.
func (throttle *RedisLoginThrottle) key(subject string) string {
	return constants.RedisPrefixLoginAttempts + subject
}

/*
TooManyAttempts reports whether the subject exhausted its attempt budget.

Parameters:
  - context: context.Context
  - subject: string (canonical email)

Returns:
  - bool: true when the counter reached the configured maximum
  - error: Redis retrieval failures
*/
func (throttle *RedisLoginThrottle) TooManyAttempts(context context.Context, subject string) (bool, error) {
	count, err := throttle.client.Get(context, throttle.key(subject)).Int()

	// Missing key means zero recorded failures
	if err == redis.Nil {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("login_throttle_get_failed: %w", err)
	}

	return count >= throttle.maxAttempts, nil
}

/*
RecordFailure registers one failed attempt and arms the window TTL.

Description: The TTL is set only when the key is created, so the window is
anchored to the first failure rather than sliding with each attempt.

Parameters:
  - context: context.Context
  - subject: string
  - window: time.Duration

Returns:
  - error: Redis execution failures
*/
func (throttle *RedisLoginThrottle) RecordFailure(context context.Context, subject string, window time.Duration) error {
	key := throttle.key(subject)

	count, err := throttle.client.Incr(context, key).Result()
	if err != nil {
		return fmt.Errorf("login_throttle_incr_failed: %w", err)
	}

	// First failure in the window arms the expiry
	if count == 1 {
		if err := throttle.client.Expire(context, key, window).Err(); err != nil {
			return fmt.Errorf("login_throttle_expire_failed: %w", err)
		}
	}

	return nil
}

/*
Reset clears the failure counter after a successful login.

Parameters:
  - context: context.Context
  - subject: string

Returns:
  - error: Redis deletion failures
*/
func (throttle *RedisLoginThrottle) Reset(context context.Context, subject string) error {
	if err := throttle.client.Del(context, throttle.key(subject)).Err(); err != nil {
		return fmt.Errorf("login_throttle_reset_failed: %w", err)
	}
	return nil
}
