package overrides

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/civil"
	_ "modernc.org/sqlite"
)

var _ Store = (*SqliteStore)(nil)

// SqliteStore is the single-file override store used for local development.
type SqliteStore struct {
	db *sql.DB
}

// NewSqliteStore opens (or creates) the database at dbPath and creates the table.
func NewSqliteStore(dbPath string) (*SqliteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS wod_override (
			date       TEXT PRIMARY KEY,
			override   TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create wod_override table: %w", err)
	}

	return &SqliteStore{db: db}, nil
}

func (s *SqliteStore) Close() error {
	return s.db.Close()
}

func (s *SqliteStore) Get(ctx context.Context, date civil.Date) (*ManualOverride, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT override FROM wod_override WHERE date = ?`,
		date.String(),
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select override %s: %w", date, err)
	}

	var o ManualOverride
	if err := json.Unmarshal([]byte(raw), &o); err != nil {
		return nil, fmt.Errorf("unmarshal override %s: %w", date, err)
	}
	return &o, nil
}

func (s *SqliteStore) Set(ctx context.Context, override ManualOverride) error {
	overrideJson, err := json.Marshal(override)
	if err != nil {
		return fmt.Errorf("marshal override: %w", err)
	}

	updatedAt := override.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO wod_override (date, override, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET override = excluded.override, updated_at = excluded.updated_at
	`,
		override.Date.String(),
		string(overrideJson),
		updatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert override %s: %w", override.Date, err)
	}
	return nil
}

func (s *SqliteStore) Remove(ctx context.Context, date civil.Date) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM wod_override WHERE date = ?`, date.String())
	if err != nil {
		return fmt.Errorf("delete override %s: %w", date, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOverrideNotFound
	}
	return nil
}

func (s *SqliteStore) List(ctx context.Context, from, to civil.Date) ([]ManualOverride, error) {
	// ISO dates sort lexicographically
	rows, err := s.db.QueryContext(ctx, `
		SELECT override FROM wod_override
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC
	`, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("select overrides: %w", err)
	}
	defer rows.Close()

	list := make([]ManualOverride, 0)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var o ManualOverride
		if err := json.Unmarshal([]byte(raw), &o); err != nil {
			return nil, fmt.Errorf("unmarshal override: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}
