package overrides

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/wodcycle/internal/telemetry/tracing"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var _ Store = (*PsqlStore)(nil)

// PsqlStore keeps one row per overridden date, the override itself as a JSONB document.
type PsqlStore struct {
	db *pgxpool.Pool
}

func NewPsqlStore(db *pgxpool.Pool) *PsqlStore {
	return &PsqlStore{
		db: db,
	}
}

func (s *PsqlStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS wod_override (
			date       DATE PRIMARY KEY,
			override   JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	if err != nil {
		return fmt.Errorf("create wod_override table: %w", err)
	}
	return nil
}

func (s *PsqlStore) Get(ctx context.Context, date civil.Date) (_ *ManualOverride, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.psql.overrides.get")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(attribute.String("date", date.String()))

	var raw []byte
	err = s.db.
		QueryRow(ctx, `
			SELECT override
			FROM wod_override
			WHERE date = $1::date
		`, date.String()).
		Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select override %s: %w", date, err)
	}

	var o ManualOverride
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, fmt.Errorf("unmarshal override %s: %w", date, err)
	}
	return &o, nil
}

func (s *PsqlStore) Set(ctx context.Context, override ManualOverride) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.psql.overrides.set")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(attribute.String("date", override.Date.String()))

	overrideJson, err := json.Marshal(override)
	if err != nil {
		return fmt.Errorf("marshal override: %w", err)
	}

	updatedAt := override.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO wod_override (date, override, updated_at)
		VALUES ($1::date, $2, $3)
		ON CONFLICT (date) DO UPDATE
			SET override = EXCLUDED.override,
			    updated_at = EXCLUDED.updated_at;
	`,
		override.Date.String(),
		overrideJson,
		updatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert override %s: %w", override.Date, err)
	}
	return nil
}

func (s *PsqlStore) Remove(ctx context.Context, date civil.Date) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.psql.overrides.remove")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(attribute.String("date", date.String()))

	tag, err := s.db.Exec(ctx, `DELETE FROM wod_override WHERE date = $1::date`, date.String())
	if err != nil {
		return fmt.Errorf("delete override %s: %w", date, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOverrideNotFound
	}
	return nil
}

func (s *PsqlStore) List(ctx context.Context, from, to civil.Date) (_ []ManualOverride, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.psql.overrides.list")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(
		attribute.String("from", from.String()),
		attribute.String("to", to.String()),
	)

	rows, err := s.db.Query(ctx, `
		SELECT override
		FROM wod_override
		WHERE date BETWEEN $1::date AND $2::date
		ORDER BY date ASC;
	`, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("select overrides: %w", err)
	}
	defer rows.Close()

	list := make([]ManualOverride, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var o ManualOverride
		if err := json.Unmarshal(raw, &o); err != nil {
			return nil, fmt.Errorf("unmarshal override: %w", err)
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}
