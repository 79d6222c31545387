package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// PostgresStore keeps one table per kind with the record serialized as JSONB.
// seq preserves append order.
type PostgresStore[T any] struct {
	db    *sql.DB
	table string
	log   zerolog.Logger
}

func NewPostgresStore[T any](db *sql.DB, kind Kind, log zerolog.Logger) *PostgresStore[T] {
	return &PostgresStore[T]{
		db:    db,
		table: pq.QuoteIdentifier("store_" + string(kind)),
		log:   log.With().Str("kind", string(kind)).Logger(),
	}
}

// EnsureTable creates the backing table when it does not exist yet.
func (s *PostgresStore[T]) EnsureTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+s.table+` (
		seq BIGSERIAL PRIMARY KEY,
		body JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	if err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

func (s *PostgresStore[T]) ReadAll(ctx context.Context) ([]T, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT seq, body FROM `+s.table+` ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", s.table, err)
	}
	defer rows.Close()

	records := make([]T, 0)
	for rows.Next() {
		var seq int64
		var body []byte
		if err := rows.Scan(&seq, &body); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table, err)
		}
		var rec T
		if err := json.Unmarshal(body, &rec); err != nil {
			s.log.Warn().Err(err).Int64("seq", seq).Msg("skipping undecodable record")
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", s.table, err)
	}
	return records, nil
}

func (s *PostgresStore[T]) Append(ctx context.Context, record T) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO `+s.table+` (body) VALUES ($1)`, body); err != nil {
		return fmt.Errorf("insert %s: %w", s.table, err)
	}
	return nil
}
