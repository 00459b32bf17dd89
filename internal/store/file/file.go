// Package file implements a contact store persisted as a single JSON
// document file. Every mutation rewrites the file atomically.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"
	"go.uber.org/zap"

	"github.com/smileynet/phonebook/internal/config"
	"github.com/smileynet/phonebook/internal/contact"
	"github.com/smileynet/phonebook/internal/store"
)

// Store keeps all contacts in memory and mirrors them to a JSON file.
type Store struct {
	mu       sync.Mutex
	path     string
	contacts []contact.Contact
	logger   *zap.Logger
}

var _ store.Store = (*Store)(nil)

// Open loads the store at path, creating an empty one if the file does not exist.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{path: path, logger: logger}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("store file missing, starting empty", zap.String("path", path))
			return s, nil
		}
		return nil, fmt.Errorf("file: reading %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.contacts); err != nil {
		return nil, fmt.Errorf("file: parsing %s: %w", path, err)
	}
	logger.Debug("store file loaded", zap.String("path", path), zap.Int("contacts", len(s.contacts)))
	return s, nil
}

// Factory opens a file store at db.StorePath(); it satisfies store.Factory.
func Factory(_ context.Context, db config.Database, logger *zap.Logger) (store.Store, error) {
	return Open(db.StorePath(), logger)
}

// Insert appends c with a fresh UUID and persists the file.
func (s *Store) Insert(_ context.Context, c contact.Contact) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = uuid.NewString()
	next := append(append([]contact.Contact(nil), s.contacts...), c)
	if err := s.save(next); err != nil {
		return "", err
	}
	s.contacts = next
	return c.ID, nil
}

// List returns a copy of every contact in insertion order.
func (s *Store) List(_ context.Context) ([]contact.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]contact.Contact(nil), s.contacts...), nil
}

// Delete removes the contact with the given ID and persists the file.
func (s *Store) Delete(_ context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", store.ErrInvalidID, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, c := range s.contacts {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}

	next := make([]contact.Contact, 0, len(s.contacts)-1)
	next = append(next, s.contacts[:idx]...)
	next = append(next, s.contacts[idx+1:]...)
	if err := s.save(next); err != nil {
		return err
	}
	s.contacts = next
	return nil
}

// Search returns the contacts matching term in insertion order.
func (s *Store) Search(_ context.Context, term string) ([]contact.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []contact.Contact
	for _, c := range s.contacts {
		if c.Matches(term) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Close is a no-op; every mutation is already on disk.
func (s *Store) Close(_ context.Context) error {
	return nil
}

// save writes contacts to the store file atomically.
func (s *Store) save(contacts []contact.Contact) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("file: creating directory: %w", err)
		}
	}

	if contacts == nil {
		contacts = []contact.Contact{}
	}
	data, err := json.MarshalIndent(contacts, "", "  ")
	if err != nil {
		return fmt.Errorf("file: marshaling: %w", err)
	}

	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("file: writing %s: %w", s.path, err)
	}
	s.logger.Debug("store file written", zap.String("path", s.path), zap.Int("contacts", len(contacts)))
	return nil
}
