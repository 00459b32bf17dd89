// Package book is the phonebook service: it validates input, calls the
// contact store, and logs every failure before returning it.
package book

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/smileynet/phonebook/internal/contact"
	"github.com/smileynet/phonebook/internal/store"
)

// Book wraps a Store with validation and logging.
type Book struct {
	store  store.Store
	logger *zap.Logger
}

// Option configures a Book.
type Option func(*Book)

// WithLogger sets the logger used to record failures.
func WithLogger(l *zap.Logger) Option {
	return func(b *Book) {
		if l != nil {
			b.logger = l
		}
	}
}

// New creates a Book over s.
func New(s store.Store, opts ...Option) *Book {
	b := &Book{store: s, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Add normalizes and validates c, then stores it. The returned contact
// carries the assigned ID. Validation failures are *contact.ValidationError.
func (b *Book) Add(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	c = c.Normalize()
	c.ID = ""
	if err := c.Validate(); err != nil {
		b.logger.Debug("contact rejected", zap.Error(err))
		return contact.Contact{}, err
	}

	id, err := b.store.Insert(ctx, c)
	if err != nil {
		b.logger.Error("insert contact failed", zap.Error(err))
		return contact.Contact{}, fmt.Errorf("book: add: %w", err)
	}
	c.ID = id
	b.logger.Info("contact added", zap.String("id", id))
	return c, nil
}

// List returns every contact in insertion order.
func (b *Book) List(ctx context.Context) ([]contact.Contact, error) {
	cs, err := b.store.List(ctx)
	if err != nil {
		b.logger.Error("list contacts failed", zap.Error(err))
		return nil, fmt.Errorf("book: list: %w", err)
	}
	return cs, nil
}

// Search returns the contacts matching the trimmed term; an empty term lists
// every contact.
func (b *Book) Search(ctx context.Context, term string) ([]contact.Contact, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return b.List(ctx)
	}
	cs, err := b.store.Search(ctx, term)
	if err != nil {
		b.logger.Error("search contacts failed", zap.String("term", term), zap.Error(err))
		return nil, fmt.Errorf("book: search: %w", err)
	}
	return cs, nil
}

// Delete removes the contact with the given ID.
func (b *Book) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if err := b.store.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			b.logger.Warn("delete contact rejected", zap.String("id", id), zap.Error(err))
		} else {
			b.logger.Error("delete contact failed", zap.String("id", id), zap.Error(err))
		}
		return fmt.Errorf("book: delete: %w", err)
	}
	b.logger.Info("contact deleted", zap.String("id", id))
	return nil
}

// Close releases the underlying store.
func (b *Book) Close(ctx context.Context) error {
	if err := b.store.Close(ctx); err != nil {
		b.logger.Error("close store failed", zap.Error(err))
		return fmt.Errorf("book: close: %w", err)
	}
	return nil
}
