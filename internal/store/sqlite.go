package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS candidates (
	code       TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	attributes TEXT NOT NULL DEFAULT '{}',
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// SQLiteStore keeps a candidate dataset in a local file for offline ranking.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ListCandidates(ctx context.Context, filter CandidateFilter) ([]Candidate, error) {
	query := `SELECT code, name, attributes FROM candidates`
	var args []interface{}

	if len(filter.Codes) > 0 {
		marks := make([]string, len(filter.Codes))
		for i, code := range filter.Codes {
			marks[i] = "?"
			args = append(args, code)
		}
		query += " WHERE code IN (" + strings.Join(marks, ", ") + ")"
	}
	query += " ORDER BY code ASC"

	if filter.Limit > 0 || filter.Offset > 0 {
		limit := filter.Limit
		if limit <= 0 {
			limit = -1
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying candidates: %w", err)
	}
	defer rows.Close()

	var out []Candidate
	for rows.Next() {
		var c Candidate
		var attrs string
		if err := rows.Scan(&c.Code, &c.Name, &attrs); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(attrs), &c.Attributes); err != nil {
			return nil, fmt.Errorf("decode attributes for %s: %w", c.Code, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetCandidate(ctx context.Context, code string) (*Candidate, error) {
	c := &Candidate{}
	var attrs string
	err := s.db.QueryRowContext(ctx,
		`SELECT code, name, attributes FROM candidates WHERE code = ?`, code,
	).Scan(&c.Code, &c.Name, &attrs)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(attrs), &c.Attributes); err != nil {
		return nil, fmt.Errorf("decode attributes for %s: %w", code, err)
	}
	return c, nil
}

func (s *SQLiteStore) ImportCandidates(ctx context.Context, cands []Candidate) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO candidates (code, name, attributes, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(code) DO UPDATE
		SET name = excluded.name, attributes = excluded.attributes, updated_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, c := range cands {
		attrs, err := json.Marshal(c.Attributes)
		if err != nil {
			return 0, fmt.Errorf("encode attributes for %s: %w", c.Code, err)
		}
		if _, err := stmt.ExecContext(ctx, c.Code, c.Name, string(attrs)); err != nil {
			return 0, fmt.Errorf("upsert %s: %w", c.Code, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return len(cands), nil
}
