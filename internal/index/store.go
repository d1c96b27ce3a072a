// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index keeps exported memos in a SQLite database so they can be
// searched by text, tag, and date without importing them into a note app.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/flomo-export/pkg/types"
)

const (
	// DefaultDBPath is used when no database path is configured.
	DefaultDBPath = "flomo.db"

	defaultMaxResults = 20
)

// memoNamespace scopes memo IDs so the same memo always maps to the same ID.
var memoNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://flomoapp.com/memo"))

// MemoID returns the stable ID of m, derived from its timestamp, content,
// tags, and files. Only memos equal in all four share an ID.
func MemoID(m types.Memo) string {
	name := strings.Join([]string{
		m.CreatedAt,
		m.Content,
		strings.Join(m.Tags, " "),
		strings.Join(m.Files, "\n"),
	}, "\x00")
	return uuid.NewSHA1(memoNamespace, []byte(name)).String()
}

// Store manages the memo index database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the index database at cfg.DBPath and creates the
// schema if it does not exist.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = DefaultDBPath
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS memos (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL,
			content TEXT NOT NULL,
			tags TEXT,
			files TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_memos_created_at ON memos(created_at)`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS memos_fts USING fts4(content, tokenize=unicode61)`,
		`CREATE TRIGGER IF NOT EXISTS memos_ai AFTER INSERT ON memos BEGIN
			INSERT INTO memos_fts(docid, content) VALUES (new.rowid, new.content);
		END`,
		`CREATE TRIGGER IF NOT EXISTS memos_ad AFTER DELETE ON memos BEGIN
			DELETE FROM memos_fts WHERE docid = old.rowid;
		END`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// StoreSummary holds counts from an indexing run.
type StoreSummary struct {
	Removed int
	Indexed int
}

// Replace swaps the indexed memos for memos in one transaction. Memos that
// share an ID (identical in every field) are stored once.
func (s *Store) Replace(ctx context.Context, memos []types.Memo, w io.Writer) (StoreSummary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return StoreSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var summary StoreSummary

	res, err := tx.ExecContext(ctx, `DELETE FROM memos`)
	if err != nil {
		return StoreSummary{}, fmt.Errorf("clearing memos: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		summary.Removed = int(n)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO memos (id, created_at, content, tags, files) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return StoreSummary{}, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range memos {
		tagsJSON, _ := json.Marshal(nonNil(m.Tags))
		filesJSON, _ := json.Marshal(nonNil(m.Files))
		res, err := stmt.ExecContext(ctx, MemoID(m), m.CreatedAt, m.Content, string(tagsJSON), string(filesJSON))
		if err != nil {
			return StoreSummary{}, fmt.Errorf("inserting memo %s: %w", m.CreatedAt, err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			summary.Indexed++
		}
	}

	if err := tx.Commit(); err != nil {
		return StoreSummary{}, fmt.Errorf("committing index: %w", err)
	}

	fmt.Fprintf(w, "indexed: %d, removed: %d\n", summary.Indexed, summary.Removed)
	return summary, nil
}

// Count returns the number of indexed memos.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM memos`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting memos: %w", err)
	}
	return n, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
