package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/smileynet/phonebook/internal/config"
	"github.com/smileynet/phonebook/internal/contact"
)

// nopStore is a Store that holds nothing.
type nopStore struct{ name string }

func (nopStore) Insert(context.Context, contact.Contact) (string, error)   { return "", nil }
func (nopStore) List(context.Context) ([]contact.Contact, error)           { return nil, nil }
func (nopStore) Delete(context.Context, string) error                      { return nil }
func (nopStore) Search(context.Context, string) ([]contact.Contact, error) { return nil, nil }
func (nopStore) Close(context.Context) error                               { return nil }

func factoryFor(name string) Factory {
	return func(context.Context, config.Database, *zap.Logger) (Store, error) {
		return nopStore{name: name}, nil
	}
}

func TestRegistry(t *testing.T) {
	t.Run("register and open backend", func(t *testing.T) {
		r := NewRegistry()
		r.Register("file", factoryFor("file"))

		s, err := r.Open(context.Background(), config.Database{Backend: "file"}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := s.(nopStore).name; got != "file" {
			t.Errorf("opened %q, want %q", got, "file")
		}
	})

	t.Run("unknown backend returns UnknownBackendError", func(t *testing.T) {
		r := NewRegistry()
		r.Register("sqlite", factoryFor("sqlite"))

		_, err := r.Open(context.Background(), config.Database{Backend: "redis"}, nil)
		var ube *UnknownBackendError
		if !errors.As(err, &ube) {
			t.Fatalf("expected *UnknownBackendError, got %T", err)
		}
		if ube.Name != "redis" {
			t.Errorf("Name = %q, want %q", ube.Name, "redis")
		}
		if len(ube.Available) != 1 || ube.Available[0] != "sqlite" {
			t.Errorf("Available = %v, want [sqlite]", ube.Available)
		}
		if !strings.Contains(err.Error(), "sqlite") {
			t.Errorf("error = %q, want available backends listed", err)
		}
	})

	t.Run("backends returns sorted names", func(t *testing.T) {
		r := NewRegistry()
		r.Register("sqlite", factoryFor("sqlite"))
		r.Register("file", factoryFor("file"))
		r.Register("mongo", factoryFor("mongo"))

		got := strings.Join(r.Backends(), ",")
		if got != "file,mongo,sqlite" {
			t.Errorf("Backends() = %q, want file,mongo,sqlite", got)
		}
	})

	t.Run("duplicate registration overwrites", func(t *testing.T) {
		r := NewRegistry()
		r.Register("file", factoryFor("first"))
		r.Register("file", factoryFor("second"))

		s, err := r.Open(context.Background(), config.Database{Backend: "file"}, nil)
		if err != nil {
			t.Fatal(err)
		}
		if got := s.(nopStore).name; got != "second" {
			t.Errorf("opened %q, want second", got)
		}
	})

	t.Run("factory error is wrapped", func(t *testing.T) {
		boom := errors.New("connection refused")
		r := NewRegistry()
		r.Register("mongo", func(context.Context, config.Database, *zap.Logger) (Store, error) {
			return nil, boom
		})

		_, err := r.Open(context.Background(), config.Database{Backend: "mongo"}, nil)
		if !errors.Is(err, boom) {
			t.Fatalf("error = %v, want wrapped factory error", err)
		}
		if !strings.Contains(err.Error(), "opening mongo") {
			t.Errorf("error = %q, want backend named", err)
		}
	})

	t.Run("logger carries backend field", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		r := NewRegistry()
		r.Register("file", func(_ context.Context, _ config.Database, l *zap.Logger) (Store, error) {
			l.Info("opened")
			return nopStore{}, nil
		})

		if _, err := r.Open(context.Background(), config.Database{Backend: "file"}, zap.New(core)); err != nil {
			t.Fatal(err)
		}
		entries := logs.FilterField(zap.String("backend", "file")).All()
		if len(entries) != 1 {
			t.Errorf("entries with backend field = %d, want 1", len(entries))
		}
	})
}

func TestRegistry_RegisterPanics(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		f       Factory
	}{
		{"empty name", "", factoryFor("x")},
		{"nil factory", "file", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("Register should panic")
				}
			}()
			NewRegistry().Register(tt.backend, tt.f)
		})
	}
}
