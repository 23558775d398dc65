// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library keeps a user-curated bibliography of records in SQLite.
// Records enter the library only when the user saves them; search
// operations never read from it.
package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/scholar-search/internal/cite"
	"github.com/pdiddy/scholar-search/pkg/types"
)

const dbFile = "library.db"

// ErrNotFound is returned when no saved record matches a key.
var ErrNotFound = errors.New("record not found in library")

// Entry is one saved record with its library key.
type Entry struct {
	Key     string       `json:"key" yaml:"key"`
	AddedAt time.Time    `json:"added_at" yaml:"added_at"`
	Record  types.Record `json:"record" yaml:"record"`
}

// Store manages the library database.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens or creates dir/library.db and its schema.
func Open(dir string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating library directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, log: log}
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
		`CREATE TABLE IF NOT EXISTS records (
			key TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			year TEXT,
			source_provider TEXT NOT NULL,
			added_at TEXT NOT NULL,
			data TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_added_at ON records(added_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Key returns the library key of a title: lower-cased letters and digits
// separated by single dashes.
func Key(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}

// Save stores rec. When a record with the same key exists, its unknown
// fields are filled from rec and its SourceProvider is kept. Save reports
// whether an existing entry was merged.
func (s *Store) Save(ctx context.Context, rec types.Record) (bool, error) {
	if !types.IsKnown(rec.Title) {
		return false, errors.New("cannot save a record without a title")
	}
	key := Key(rec.Title)
	if key == "" {
		return false, fmt.Errorf("title %q has no letters or digits to key on", rec.Title)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	existing, err := scanEntry(tx.QueryRowContext(ctx,
		`SELECT key, added_at, data FROM records WHERE key = ?`, key))
	merged := false
	switch {
	case errors.Is(err, ErrNotFound):
		existing = Entry{Key: key, AddedAt: time.Now().UTC(), Record: rec}
	case err != nil:
		return false, err
	default:
		existing.Record.Merge(rec)
		merged = true
	}

	data, err := json.Marshal(existing.Record)
	if err != nil {
		return false, fmt.Errorf("encoding record: %w", err)
	}
	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO records
		(key, title, year, source_provider, added_at, data) VALUES (?, ?, ?, ?, ?, ?)`,
		key, existing.Record.Title, existing.Record.Year, existing.Record.SourceProvider,
		existing.AddedAt.Format(time.RFC3339Nano), string(data))
	if err != nil {
		return false, fmt.Errorf("storing record %s: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing record %s: %w", key, err)
	}

	s.log.Info("saved record", "key", key, "merged", merged, "source_provider", existing.Record.SourceProvider)
	return merged, nil
}

// Get returns the entry stored under key.
func (s *Store) Get(ctx context.Context, key string) (Entry, error) {
	return scanEntry(s.db.QueryRowContext(ctx,
		`SELECT key, added_at, data FROM records WHERE key = ?`, key))
}

// List returns every entry in the order it was first saved.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, added_at, data FROM records ORDER BY added_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Remove deletes the entry stored under key.
func (s *Store) Remove(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("deleting record %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting record %s: %w", key, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	s.log.Info("removed record", "key", key)
	return nil
}

// Export formats.
const (
	FormatBibTeX = "bibtex"
	FormatRIS    = "ris"
	FormatCSL    = "csl"
)

// Export writes every saved record to w in the given format.
func (s *Store) Export(ctx context.Context, format string, w io.Writer) error {
	entries, err := s.List(ctx)
	if err != nil {
		return err
	}
	records := make([]types.Record, len(entries))
	for i, e := range entries {
		records[i] = e.Record
	}

	switch format {
	case FormatBibTeX:
		_, err = io.WriteString(w, cite.BibTeXList(records))
	case FormatRIS:
		_, err = io.WriteString(w, cite.RISList(records))
	case FormatCSL:
		err = cite.CSL(records, w)
	default:
		return fmt.Errorf("unknown export format %q (want bibtex, ris or csl)", format)
	}
	if err != nil {
		return fmt.Errorf("writing %s export: %w", format, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var e Entry
	var addedAt, data string
	if err := row.Scan(&e.Key, &addedAt, &data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, fmt.Errorf("reading record: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, addedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing added_at of %s: %w", e.Key, err)
	}
	e.AddedAt = t
	if err := json.Unmarshal([]byte(data), &e.Record); err != nil {
		return Entry{}, fmt.Errorf("decoding record %s: %w", e.Key, err)
	}
	return e, nil
}
