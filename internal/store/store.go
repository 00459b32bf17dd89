// Package store defines the contact storage contract shared by every
// backend and opens the backend selected in configuration.
package store

import (
	"context"
	"errors"

	"github.com/smileynet/phonebook/internal/contact"
)

// Sentinel errors for caller-checkable conditions.
var (
	ErrNotFound  = errors.New("store: contact not found")
	ErrInvalidID = errors.New("store: invalid contact id")
)

// Store persists contacts. Implementations assign the contact ID on Insert.
type Store interface {
	// Insert stores c and returns the assigned ID. c.ID is ignored.
	Insert(ctx context.Context, c contact.Contact) (string, error)
	// List returns every contact in insertion order.
	List(ctx context.Context) ([]contact.Contact, error)
	// Delete removes the contact with the given ID.
	Delete(ctx context.Context, id string) error
	// Search returns the contacts where term is a literal, case-sensitive
	// substring of any field. The empty term returns every contact.
	Search(ctx context.Context, term string) ([]contact.Contact, error)
	// Close releases the connection.
	Close(ctx context.Context) error
}
