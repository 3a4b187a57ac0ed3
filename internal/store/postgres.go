package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS candidates (
	code       TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	attributes JSONB NOT NULL DEFAULT '{}'::jsonb,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Migrate creates the candidates table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresSchema)
	return err
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) ListCandidates(ctx context.Context, filter CandidateFilter) ([]Candidate, error) {
	query := `SELECT code, name, attributes FROM candidates WHERE 1=1`
	args := []interface{}{}
	n := 0

	if len(filter.Codes) > 0 {
		n++
		query += fmt.Sprintf(" AND code = ANY($%d)", n)
		args = append(args, filter.Codes)
	}

	query += " ORDER BY code ASC"

	if filter.Limit > 0 {
		n++
		query += fmt.Sprintf(" LIMIT $%d", n)
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCandidates(rows)
}

func (s *PostgresStore) GetCandidate(ctx context.Context, code string) (*Candidate, error) {
	c := &Candidate{}
	var attrs []byte
	err := s.pool.QueryRow(ctx, `
		SELECT code, name, attributes
		FROM candidates WHERE code = $1`, code,
	).Scan(&c.Code, &c.Name, &attrs)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(attrs, &c.Attributes); err != nil {
		return nil, fmt.Errorf("decode attributes for %s: %w", code, err)
	}
	return c, nil
}

// ImportCandidates upserts a dataset in a single transaction.
func (s *PostgresStore) ImportCandidates(ctx context.Context, cands []Candidate) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, c := range cands {
		attrs, err := json.Marshal(c.Attributes)
		if err != nil {
			return 0, fmt.Errorf("encode attributes for %s: %w", c.Code, err)
		}
		batch.Queue(`
			INSERT INTO candidates (code, name, attributes, updated_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (code) DO UPDATE
			SET name = EXCLUDED.name, attributes = EXCLUDED.attributes, updated_at = now()`,
			c.Code, c.Name, attrs)
	}

	br := tx.SendBatch(ctx, batch)
	for range cands {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return 0, fmt.Errorf("upsert candidate: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return len(cands), nil
}

func scanCandidates(rows pgx.Rows) ([]Candidate, error) {
	var out []Candidate
	for rows.Next() {
		var c Candidate
		var attrs []byte
		if err := rows.Scan(&c.Code, &c.Name, &attrs); err != nil {
			return nil, err
		}
		if attrs != nil {
			if err := json.Unmarshal(attrs, &c.Attributes); err != nil {
				return nil, fmt.Errorf("decode attributes for %s: %w", c.Code, err)
			}
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
