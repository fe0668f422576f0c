package overrides

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/wodcycle/internal/telemetry/tracing"

	"cloud.google.com/go/civil"
	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
)

const overridesHashKey = "wodcycle-overrides"

var _ Store = (*RedisStore)(nil)

// RedisStore keeps all overrides in a single redis hash: field is the ISO
// date, value the JSON encoded override.
type RedisStore struct {
	redisClient *redis.Client
}

func NewRedisStore(redisClient *redis.Client) *RedisStore {
	return &RedisStore{
		redisClient: redisClient,
	}
}

func (s *RedisStore) Get(ctx context.Context, date civil.Date) (_ *ManualOverride, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.redis.overrides.get")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(attribute.String("date", date.String()))

	val, err := s.redisClient.HGet(ctx, overridesHashKey, date.String()).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("hget override %s: %w", date, err)
	}

	var o ManualOverride
	if err := json.Unmarshal([]byte(val), &o); err != nil {
		return nil, fmt.Errorf("unmarshal override %s: %w", date, err)
	}
	return &o, nil
}

func (s *RedisStore) Set(ctx context.Context, override ManualOverride) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.redis.overrides.set")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(attribute.String("date", override.Date.String()))

	overrideJson, err := json.Marshal(override)
	if err != nil {
		return fmt.Errorf("marshal override: %w", err)
	}

	if err := s.redisClient.HSet(ctx, overridesHashKey, override.Date.String(), string(overrideJson)).Err(); err != nil {
		return fmt.Errorf("hset override %s: %w", override.Date, err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, date civil.Date) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.redis.overrides.remove")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(attribute.String("date", date.String()))

	removed, err := s.redisClient.HDel(ctx, overridesHashKey, date.String()).Result()
	if err != nil {
		return fmt.Errorf("hdel override %s: %w", date, err)
	}
	if removed == 0 {
		return ErrOverrideNotFound
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, from, to civil.Date) (_ []ManualOverride, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.redis.overrides.list")
	defer func() { tracing.EndSpan(span, err) }()

	all, err := s.redisClient.HGetAll(ctx, overridesHashKey).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall overrides: %w", err)
	}

	list := make([]ManualOverride, 0)
	for dateStr, val := range all {
		date, err := civil.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse override date [%s]: %w", dateStr, err)
		}
		if !inRange(date, from, to) {
			continue
		}

		var o ManualOverride
		if err := json.Unmarshal([]byte(val), &o); err != nil {
			return nil, fmt.Errorf("unmarshal override %s: %w", dateStr, err)
		}
		list = append(list, o)
	}
	sortByDate(list)
	return list, nil
}
