// Package sqlitestore implements the note persistence contract on top of an
// SQLCipher-encrypted SQLite file. Identifiers come from AUTOINCREMENT, which
// never reuses rowids after deletion. Queries load rows in id order and
// evaluate the same predicates as the in-memory engine, so both backends are
// indistinguishable to callers.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mutecomm/go-sqlcipher/v4"

	"github.com/kuitang/noteledger/internal/errs"
	"github.com/kuitang/noteledger/internal/notes"
)

const (
	// MaxOpenConns is the maximum number of open connections.
	// SQLite is single-writer, so high connection counts are counterproductive.
	MaxOpenConns = 2

	// MaxIdleConns is the maximum number of idle connections. Shared-cache
	// in-memory databases vanish when the last connection closes, so at
	// least one idle connection must be retained.
	MaxIdleConns = 1
)

const schema = `
CREATE TABLE IF NOT EXISTS notes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    body TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '[]',
    owner TEXT NOT NULL,
    visibility INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);
`

const noteColumns = "id, title, body, tags, owner, visibility, created_at, updated_at"

// Store is an encrypted SQLite note engine.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) an encrypted note database at path.
// The key must be KeySize bytes, typically derived with DeriveKey.
func Open(path string, key []byte) (*Store, error) {
	if path == "" {
		return nil, errs.New(errs.InvalidArgument, "database path is required")
	}
	if len(key) != KeySize {
		return nil, errs.New(errs.InvalidArgument, fmt.Sprintf("database key must be %d bytes", KeySize))
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, errs.Wrap(errs.Unavailable, "failed to create data directory", err)
		}
	}

	// DSN format: file.db?_pragma_key=x'HEX_KEY'&_pragma_cipher_page_size=4096
	dsn := fmt.Sprintf("%s?_pragma_key=x'%s'&_pragma_cipher_page_size=4096", path, hex.EncodeToString(key))
	dsn = appendParams(dsn, commonParams())
	return open(dsn, false)
}

// OpenInMemory opens an encrypted shared-cache in-memory database, mainly
// for tests. Each distinct name is an independent database.
func OpenInMemory(name string, key []byte) (*Store, error) {
	if name == "" {
		return nil, errs.New(errs.InvalidArgument, "database name is required")
	}
	if len(key) != KeySize {
		return nil, errs.New(errs.InvalidArgument, fmt.Sprintf("database key must be %d bytes", KeySize))
	}
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma_key=x'%s'&_pragma_cipher_page_size=4096",
		name, hex.EncodeToString(key))
	return open(dsn, true)
}

func open(dsn string, memory bool) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errs.Wrap(errs.Unavailable, "failed to open note database", err)
	}

	db.SetMaxOpenConns(MaxOpenConns)
	db.SetMaxIdleConns(MaxIdleConns)

	// A wrong key surfaces here as a read failure on the first page.
	var sqliteVersion string
	if err := db.QueryRow("SELECT sqlite_version()").Scan(&sqliteVersion); err != nil {
		db.Close()
		return nil, errs.Wrap(errs.Unavailable, "failed to verify note database", err)
	}

	if memory {
		if err := applyFastPragmas(db); err != nil {
			db.Close()
			return nil, errs.Wrap(errs.Unavailable, "failed to apply memory pragmas", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errs.Wrap(errs.Unavailable, "failed to initialize note schema", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Create assigns the next identifier and timestamps, stores the note, and
// returns it. AUTOINCREMENT guarantees identifiers are never reused.
func (s *Store) Create(ctx context.Context, draft notes.Draft) (*notes.Note, error) {
	draft, err := notes.ValidateCreateDraft(draft)
	if err != nil {
		return nil, err
	}

	tagsJSON, err := encodeTags(draft.Tags)
	if err != nil {
		return nil, err
	}

	nowUnix := time.Now().UTC().Unix()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (title, body, tags, owner, visibility, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		draft.Title, draft.Body, tagsJSON, draft.Owner, int64(draft.Visibility), nowUnix, nowUnix)
	if err != nil {
		return nil, errs.Wrap(errs.Unavailable, "failed to create note", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errs.Wrap(errs.Unavailable, "failed to read new note id", err)
	}

	now := time.Unix(nowUnix, 0).UTC()
	return &notes.Note{
		ID:         id,
		Title:      draft.Title,
		Body:       draft.Body,
		Tags:       draft.Tags,
		Owner:      draft.Owner,
		Visibility: draft.Visibility,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Get returns the note with the given id.
func (s *Store) Get(ctx context.Context, id int64) (*notes.Note, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE id = ?", id)
	note, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notes.NotFound()
	}
	if err != nil {
		return nil, errs.Wrap(errs.Unavailable, "failed to get note", err)
	}
	return note, nil
}

// Update replaces the mutable fields of the note with the given id.
func (s *Store) Update(ctx context.Context, id int64, draft notes.Draft) (*notes.Note, error) {
	draft, err := notes.ValidateUpdateDraft(draft)
	if err != nil {
		return nil, err
	}

	tagsJSON, err := encodeTags(draft.Tags)
	if err != nil {
		return nil, err
	}

	nowUnix := time.Now().UTC().Unix()
	res, err := s.db.ExecContext(ctx,
		`UPDATE notes SET title = ?, body = ?, tags = ?, visibility = ?, updated_at = ?
		 WHERE id = ?`,
		draft.Title, draft.Body, tagsJSON, int64(draft.Visibility), nowUnix, id)
	if err != nil {
		return nil, errs.Wrap(errs.Unavailable, "failed to update note", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, errs.Wrap(errs.Unavailable, "failed to check note update", err)
	}
	if affected == 0 {
		return nil, notes.NotFound()
	}
	return s.Get(ctx, id)
}

// Delete removes the note with the given id. The id is never assigned again.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return errs.Wrap(errs.Unavailable, "failed to delete note", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errs.Wrap(errs.Unavailable, "failed to check note delete", err)
	}
	if affected == 0 {
		return notes.NotFound()
	}
	return nil
}

// List returns all notes matching pred in insertion order. Rows are scanned
// in id order and filtered in Go, mirroring the in-memory engine's full-scan
// evaluation.
func (s *Store) List(ctx context.Context, pred notes.Predicate) ([]*notes.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+noteColumns+" FROM notes ORDER BY id")
	if err != nil {
		return nil, errs.Wrap(errs.Unavailable, "failed to list notes", err)
	}
	defer rows.Close()

	out := make([]*notes.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, errs.Wrap(errs.Unavailable, "failed to scan note", err)
		}
		if pred == nil || pred(note) {
			out = append(out, note)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.Unavailable, "failed to list notes", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*notes.Note, error) {
	var (
		note       notes.Note
		tagsJSON   string
		visibility int64
		createdAt  int64
		updatedAt  int64
	)
	err := row.Scan(&note.ID, &note.Title, &note.Body, &tagsJSON, &note.Owner,
		&visibility, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	tags, err := decodeTags(tagsJSON)
	if err != nil {
		return nil, err
	}
	note.Tags = tags
	note.Visibility = notes.Visibility(visibility)
	note.CreatedAt = time.Unix(createdAt, 0).UTC()
	note.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &note, nil
}

func encodeTags(tags []string) (string, error) {
	if len(tags) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return "", errs.Wrap(errs.Internal, "failed to encode tags", err)
	}
	return string(raw), nil
}

func decodeTags(raw string) ([]string, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	if len(tags) == 0 {
		return nil, nil
	}
	return tags, nil
}

func commonParams() string {
	// Production-safe defaults: WAL + NORMAL provides good throughput while preserving safety.
	return "_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on"
}

func appendParams(dsn, params string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + params
	}
	return dsn + "?" + params
}

func applyFastPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=MEMORY",
		"PRAGMA synchronous=OFF",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA secure_delete=OFF",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return err
		}
	}
	return nil
}
