// Package storetest provides a behavioral test suite that every store
// backend must pass.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/smileynet/phonebook/internal/contact"
	"github.com/smileynet/phonebook/internal/store"
)

// OpenFunc returns a fresh, empty store for a single subtest.
type OpenFunc func(t *testing.T) store.Store

// Sample returns a fixed set of contacts used by the suite.
func Sample() []contact.Contact {
	return []contact.Contact{
		{FirstName: "Ada", LastName: "Lovelace", Number: "0912345678", Address: "12 St James's Square, London"},
		{FirstName: "Alan", LastName: "Turing", Number: "0987654321", Address: "Wilmslow"},
		{FirstName: "Grace", LastName: "Hopper", Number: "12345678", Address: ""},
		{FirstName: "Edsger", LastName: "Dijkstra", Number: "31205550199", Address: "Nuenen (NL)"},
	}
}

// ignoreID compares contacts by field values only.
var ignoreID = cmpopts.IgnoreFields(contact.Contact{}, "ID")

// Run executes the contract suite against the stores returned by open.
func Run(t *testing.T, open OpenFunc) {
	t.Helper()
	ctx := context.Background()

	t.Run("empty store lists nothing", func(t *testing.T) {
		s := open(t)
		got, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("List() = %v, want empty", got)
		}
	})

	t.Run("inserted contacts are listed in insertion order", func(t *testing.T) {
		s := open(t)
		ids := insertAll(t, s, Sample())

		got, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if diff := cmp.Diff(Sample(), got, ignoreID); diff != "" {
			t.Errorf("List() mismatch (-want +got):\n%s", diff)
		}
		for i, c := range got {
			if c.ID != ids[i] {
				t.Errorf("List()[%d].ID = %q, want %q", i, c.ID, ids[i])
			}
		}
	})

	t.Run("insert assigns distinct ids", func(t *testing.T) {
		s := open(t)
		ids := insertAll(t, s, Sample())
		seen := make(map[string]bool)
		for _, id := range ids {
			if id == "" {
				t.Fatal("Insert() returned empty id")
			}
			if seen[id] {
				t.Fatalf("Insert() returned duplicate id %q", id)
			}
			seen[id] = true
		}
	})

	t.Run("insert ignores caller id", func(t *testing.T) {
		s := open(t)
		c := Sample()[0]
		c.ID = "caller-chosen"
		id, err := s.Insert(ctx, c)
		if err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		if id == "caller-chosen" {
			t.Error("Insert() should assign its own id")
		}
	})

	t.Run("delete removes exactly one record", func(t *testing.T) {
		s := open(t)
		ids := insertAll(t, s, Sample())

		if err := s.Delete(ctx, ids[1]); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}

		got, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		want := append(Sample()[:1:1], Sample()[2:]...)
		if diff := cmp.Diff(want, got, ignoreID); diff != "" {
			t.Errorf("List() after Delete mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("delete twice reports not found", func(t *testing.T) {
		s := open(t)
		ids := insertAll(t, s, Sample()[:1])
		if err := s.Delete(ctx, ids[0]); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if err := s.Delete(ctx, ids[0]); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("second Delete() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete rejects malformed id", func(t *testing.T) {
		s := open(t)
		insertAll(t, s, Sample()[:1])
		if err := s.Delete(ctx, "not an id"); !errors.Is(err, store.ErrInvalidID) {
			t.Errorf("Delete(malformed) error = %v, want ErrInvalidID", err)
		}
	})

	t.Run("search matches any field", func(t *testing.T) {
		s := open(t)
		insertAll(t, s, Sample())

		tests := []struct {
			term string
			want []string // first names
		}{
			{"Ada", []string{"Ada"}},
			{"Turing", []string{"Alan"}},
			{"1234", []string{"Ada", "Grace"}},
			{"London", []string{"Ada"}},
			{"a", []string{"Ada", "Alan", "Grace", "Edsger"}},
			{"ada", nil},
			{"Nobody", nil},
		}
		for _, tt := range tests {
			got, err := s.Search(ctx, tt.term)
			if err != nil {
				t.Fatalf("Search(%q) error = %v", tt.term, err)
			}
			if diff := cmp.Diff(tt.want, firstNames(got), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Search(%q) mismatch (-want +got):\n%s", tt.term, diff)
			}
		}
	})

	t.Run("search treats term literally", func(t *testing.T) {
		s := open(t)
		insertAll(t, s, Sample())

		for _, term := range []string{".*", "(NL)", "^Ada", "%", "_"} {
			got, err := s.Search(ctx, term)
			if err != nil {
				t.Fatalf("Search(%q) error = %v", term, err)
			}
			var want []string
			for _, c := range Sample() {
				if c.Matches(term) {
					want = append(want, c.FirstName)
				}
			}
			if diff := cmp.Diff(want, firstNames(got), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Search(%q) mismatch (-want +got):\n%s", term, diff)
			}
		}
	})

	t.Run("empty search lists everything", func(t *testing.T) {
		s := open(t)
		insertAll(t, s, Sample())
		got, err := s.Search(ctx, "")
		if err != nil {
			t.Fatalf("Search(\"\") error = %v", err)
		}
		if diff := cmp.Diff(Sample(), got, ignoreID); diff != "" {
			t.Errorf("Search(\"\") mismatch (-want +got):\n%s", diff)
		}
	})
}

func insertAll(t *testing.T, s store.Store, cs []contact.Contact) []string {
	t.Helper()
	ids := make([]string, len(cs))
	for i, c := range cs {
		id, err := s.Insert(context.Background(), c)
		if err != nil {
			t.Fatalf("Insert(%+v) error = %v", c, err)
		}
		ids[i] = id
	}
	return ids
}

func firstNames(cs []contact.Contact) []string {
	var names []string
	for _, c := range cs {
		names = append(names, c.FirstName)
	}
	return names
}
