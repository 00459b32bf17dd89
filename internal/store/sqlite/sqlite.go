// Package sqlite implements an embedded contact store that keeps each
// contact as a JSON document in a single SQLite table.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/smileynet/phonebook/internal/config"
	"github.com/smileynet/phonebook/internal/contact"
	"github.com/smileynet/phonebook/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS contacts (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id  TEXT NOT NULL UNIQUE,
	doc TEXT NOT NULL
);
`

// searchQuery matches term as a literal substring of any document field.
// instr is case-sensitive and does no pattern interpretation.
const searchQuery = `
SELECT id, doc FROM contacts
WHERE instr(coalesce(json_extract(doc, '$."First Name"'), ''), ?1) > 0
   OR instr(coalesce(json_extract(doc, '$."Last Name"'), ''), ?1) > 0
   OR instr(coalesce(json_extract(doc, '$."Number"'), ''), ?1) > 0
   OR instr(coalesce(json_extract(doc, '$."Address"'), ''), ?1) > 0
ORDER BY seq`

// Store is a contact store backed by SQLite.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ store.Store = (*Store)(nil)

// document is the stored JSON shape; the id lives in its own column.
type document struct {
	FirstName string `json:"First Name"`
	LastName  string `json:"Last Name"`
	Number    string `json:"Number"`
	Address   string `json:"Address"`
}

// Open opens (or creates) the database at path and ensures the schema exists.
func Open(ctx context.Context, path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: creating directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening %s: %w", path, err)
	}
	// One writer; avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: creating schema: %w", err)
	}
	logger.Debug("sqlite store opened", zap.String("path", path))
	return &Store{db: db, logger: logger}, nil
}

// Factory opens a SQLite store at db.StorePath(); it satisfies store.Factory.
func Factory(ctx context.Context, db config.Database, logger *zap.Logger) (store.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, db.Timeout)
	defer cancel()
	return Open(ctx, db.StorePath(), logger)
}

// Insert stores c under a fresh UUID.
func (s *Store) Insert(ctx context.Context, c contact.Contact) (string, error) {
	data, err := json.Marshal(document{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Number:    c.Number,
		Address:   c.Address,
	})
	if err != nil {
		return "", fmt.Errorf("sqlite: marshaling contact: %w", err)
	}

	id := uuid.NewString()
	if _, err := s.db.ExecContext(ctx, `INSERT INTO contacts (id, doc) VALUES (?, ?)`, id, string(data)); err != nil {
		return "", fmt.Errorf("sqlite: inserting contact: %w", err)
	}
	return id, nil
}

// List returns every contact in insertion order.
func (s *Store) List(ctx context.Context) ([]contact.Contact, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, doc FROM contacts ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing contacts: %w", err)
	}
	return scanContacts(rows)
}

// Delete removes the contact with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", store.ErrInvalidID, id)
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: deleting %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	return nil
}

// Search returns contacts where term occurs in any field.
func (s *Store) Search(ctx context.Context, term string) ([]contact.Contact, error) {
	if term == "" {
		return s.List(ctx)
	}
	rows, err := s.db.QueryContext(ctx, searchQuery, term)
	if err != nil {
		return nil, fmt.Errorf("sqlite: searching %q: %w", term, err)
	}
	return scanContacts(rows)
}

// Close closes the database handle.
func (s *Store) Close(_ context.Context) error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("sqlite: closing: %w", err)
	}
	return nil
}

func scanContacts(rows *sql.Rows) ([]contact.Contact, error) {
	defer rows.Close()

	var out []contact.Contact
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("sqlite: scanning row: %w", err)
		}
		var doc document
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, fmt.Errorf("sqlite: decoding document %s: %w", id, err)
		}
		out = append(out, contact.Contact{
			ID:        id,
			FirstName: doc.FirstName,
			LastName:  doc.LastName,
			Number:    doc.Number,
			Address:   doc.Address,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: reading rows: %w", err)
	}
	return out, nil
}
