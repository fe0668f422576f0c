package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/2beens/wodcycle/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
)

// LoginChecker validates admin session tokens against redis.
type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
	// overridable for tests
	Now func() time.Time
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
		Now:         time.Now,
	}
}

func (c *LoginChecker) IsLogged(ctx context.Context, token string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.login_checker.is_logged")
	defer func() { tracing.EndSpan(span, err) }()

	createdAtUnixStr, err := c.redisClient.Get(ctx, sessionKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	createdAtUnix, err := strconv.ParseInt(createdAtUnixStr, 10, 64)
	if err != nil {
		return false, err
	}
	// logged out sessions are kept with a zero timestamp until cleaned
	if createdAtUnix <= 0 {
		return false, nil
	}

	createdAt := time.Unix(createdAtUnix, 0)
	if c.Now().Sub(createdAt) > c.ttl {
		return false, nil
	}
	return true, nil
}
