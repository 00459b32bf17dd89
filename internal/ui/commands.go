package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/phonebook/internal/contact"
)

// queryCmd lists (empty term) or searches contacts and wraps the result in a
// ContactsMsg tagged with seq.
func queryCmd(b Book, timeout time.Duration, seq int, term string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var (
			cs  []contact.Contact
			err error
		)
		if term == "" {
			cs, err = b.List(ctx)
		} else {
			cs, err = b.Search(ctx, term)
		}
		return ContactsMsg{Seq: seq, Term: term, Contacts: cs, Err: err}
	}
}

// addCmd stores c and wraps the result in an AddedMsg.
func addCmd(b Book, timeout time.Duration, c contact.Contact) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		added, err := b.Add(ctx, c)
		return AddedMsg{Contact: added, Err: err}
	}
}

// deleteCmd removes the contact with id and wraps the result in a DeletedMsg.
func deleteCmd(b Book, timeout time.Duration, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		return DeletedMsg{ID: id, Err: b.Delete(ctx, id)}
	}
}
