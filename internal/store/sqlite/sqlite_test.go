package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/smileynet/phonebook/internal/config"
	"github.com/smileynet/phonebook/internal/contact"
	"github.com/smileynet/phonebook/internal/store"
	"github.com/smileynet/phonebook/internal/store/storetest"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "contacts.db"), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestStore_Contract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return openTemp(t)
	})
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "contacts.db")

	s, err := Open(ctx, path, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	id, err := s.Insert(ctx, contact.Contact{FirstName: "Grace", LastName: "Hopper", Number: "12345678"})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := s.Close(ctx); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(ctx, path, nil)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close(ctx)

	got, err := reopened.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != id || got[0].LastName != "Hopper" {
		t.Errorf("List() after reopen = %+v, want Grace Hopper (%s)", got, id)
	}
}

func TestFactory_UsesStorePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "pb.db")
	cfg := config.DefaultConfig().Database
	cfg.Backend = config.BackendSQLite
	cfg.Path = path

	s, err := Factory(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Factory() error = %v", err)
	}
	defer s.Close(context.Background())

	if _, err := s.Insert(context.Background(), contact.Contact{FirstName: "A", LastName: "B", Number: "12345678"}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
}
