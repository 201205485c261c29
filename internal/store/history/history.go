// Package history keeps a local SQLite log of saved document snapshots, so
// the CLI can list and restore earlier versions of a longread.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/idilsaglam/longread/internal/log"
	"github.com/idilsaglam/longread/internal/model"
)

var ErrNotFound = errors.New("revision not found")

type Revision struct {
	ID        int64
	Key       string
	Title     string
	CreatedAt time.Time
	Document  model.Document
}

type History struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (and creates if needed) the history database at path.
func Open(ctx context.Context, path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &History{db: db, now: time.Now}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS revisions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			doc_key TEXT NOT NULL,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			created_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_revisions_key ON revisions(doc_key, id);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return fmt.Errorf("migrate history: %w", err)
		}
	}
	return nil
}

func (h *History) Close() error {
	return h.db.Close()
}

// Record stores doc as the newest revision of key. A snapshot identical to
// the newest one is not stored again; the existing revision is returned.
func (h *History) Record(ctx context.Context, key string, doc model.Document) (Revision, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return Revision{}, fmt.Errorf("json marshal: %w", err)
	}

	var (
		lastID   int64
		lastBody string
		lastAt   int64
	)
	err = h.db.QueryRowContext(ctx,
		`SELECT id, body, created_at_unixms FROM revisions WHERE doc_key = ? ORDER BY id DESC LIMIT 1`, key,
	).Scan(&lastID, &lastBody, &lastAt)
	switch {
	case err == nil && lastBody == string(body):
		return Revision{ID: lastID, Key: key, Title: doc.Title, CreatedAt: time.UnixMilli(lastAt), Document: doc}, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return Revision{}, fmt.Errorf("read latest revision: %w", err)
	}

	at := h.now()
	res, err := h.db.ExecContext(ctx,
		`INSERT INTO revisions(doc_key, title, body, created_at_unixms) VALUES(?, ?, ?, ?)`,
		key, doc.Title, string(body), at.UnixMilli(),
	)
	if err != nil {
		return Revision{}, fmt.Errorf("insert revision: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Revision{}, err
	}
	log.Get().Debug("revision recorded", zap.String("key", key), zap.Int64("id", id))
	return Revision{ID: id, Key: key, Title: doc.Title, CreatedAt: time.UnixMilli(at.UnixMilli()), Document: doc}, nil
}

// List returns the newest revisions of key first. limit <= 0 means all.
func (h *History) List(ctx context.Context, key string, limit int) ([]Revision, error) {
	q := `SELECT id, doc_key, title, body, created_at_unixms FROM revisions WHERE doc_key = ? ORDER BY id DESC`
	args := []any{key}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := h.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	defer rows.Close()

	var out []Revision
	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (h *History) Get(ctx context.Context, id int64) (Revision, error) {
	row := h.db.QueryRowContext(ctx,
		`SELECT id, doc_key, title, body, created_at_unixms FROM revisions WHERE id = ?`, id)
	r, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Revision{}, fmt.Errorf("revision %d: %w", id, ErrNotFound)
	}
	return r, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (Revision, error) {
	var (
		r    Revision
		body string
		at   int64
	)
	if err := s.Scan(&r.ID, &r.Key, &r.Title, &body, &at); err != nil {
		return Revision{}, err
	}
	if err := json.Unmarshal([]byte(body), &r.Document); err != nil {
		return Revision{}, fmt.Errorf("json unmarshal revision %d: %w", r.ID, err)
	}
	r.CreatedAt = time.UnixMilli(at)
	return r, nil
}
