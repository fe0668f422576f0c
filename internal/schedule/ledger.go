package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/wodcycle/internal/telemetry/tracing"

	"cloud.google.com/go/civil"
	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
)

const (
	generatedKeyPrefix = "wodcycle-generated||"
	// long enough to outlive any clock skew around midnight
	generatedFlagTTL = 7 * 24 * time.Hour
)

// RedisGenerationLedger remembers which dates already had their content
// generated, so the job never materializes a date twice.
type RedisGenerationLedger struct {
	redisClient *redis.Client
}

func NewRedisGenerationLedger(redisClient *redis.Client) *RedisGenerationLedger {
	return &RedisGenerationLedger{
		redisClient: redisClient,
	}
}

func generatedKey(date civil.Date) string {
	return generatedKeyPrefix + date.String()
}

// MarkGenerated claims the date. It returns false if the date was already claimed.
func (l *RedisGenerationLedger) MarkGenerated(ctx context.Context, date civil.Date, at time.Time) (_ bool, err error) {
	ctx, span := tracing.GlobalJobTracer.Start(ctx, "ledger.redis.mark_generated")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(attribute.String("date", date.String()))

	claimed, err := l.redisClient.SetNX(ctx, generatedKey(date), at.Unix(), generatedFlagTTL).Result()
	if err != nil {
		return false, fmt.Errorf("setnx generated flag %s: %w", date, err)
	}
	return claimed, nil
}

// Unmark releases the claim, used when materialization failed and the date
// should be retried.
func (l *RedisGenerationLedger) Unmark(ctx context.Context, date civil.Date) error {
	if err := l.redisClient.Del(ctx, generatedKey(date)).Err(); err != nil {
		return fmt.Errorf("del generated flag %s: %w", date, err)
	}
	return nil
}
