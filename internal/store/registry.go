package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/smileynet/phonebook/internal/config"
)

// Factory opens a Store for the given database settings.
type Factory func(ctx context.Context, db config.Database, logger *zap.Logger) (Store, error)

// Registry maps backend names to factory functions.
// It is not safe for concurrent use; registration should happen at startup.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a named backend factory. Overwrites if name already exists.
// Panics if name is empty or f is nil (programmer error).
func (r *Registry) Register(name string, f Factory) {
	if name == "" {
		panic("store: Register called with empty name")
	}
	if f == nil {
		panic("store: Register called with nil factory")
	}
	r.factories[name] = f
}

// Open instantiates the backend named by db.Backend.
// Returns *UnknownBackendError if the name is not registered.
func (r *Registry) Open(ctx context.Context, db config.Database, logger *zap.Logger) (Store, error) {
	f, ok := r.factories[db.Backend]
	if !ok {
		return nil, &UnknownBackendError{
			Name:      db.Backend,
			Available: r.Backends(),
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s, err := f(ctx, db, logger.With(zap.String("backend", db.Backend)))
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", db.Backend, err)
	}
	return s, nil
}

// Backends returns registered backend names in sorted order.
func (r *Registry) Backends() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownBackendError indicates a backend name is not registered.
type UnknownBackendError struct {
	Name      string
	Available []string
}

func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("store: unknown backend %q (available: %s)", e.Name, strings.Join(e.Available, ", "))
}
