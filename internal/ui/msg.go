// Package ui implements the phonebook window: a contact table, a side form
// for new contacts, and a toolbar with delete and live search.
package ui

import (
	"context"

	"github.com/smileynet/phonebook/internal/contact"
)

// Mode represents the current window mode.
type Mode int

const (
	ModeBrowse  Mode = iota // Table, form and toolbar are interactive.
	ModeConfirm             // Delete confirmation dialog is open.
)

// Focus represents which widget has keyboard focus.
type Focus int

const (
	FocusTable  Focus = iota // Contact table.
	FocusForm                // New-contact form.
	FocusSearch              // Toolbar search field.
)

// next returns the focus after f in tab order.
func (f Focus) next() Focus {
	return (f + 1) % 3
}

// prev returns the focus before f in tab order.
func (f Focus) prev() Focus {
	return (f + 2) % 3
}

// --- Consumer-side interfaces ---

// Book is the phonebook service the window drives.
type Book interface {
	List(ctx context.Context) ([]contact.Contact, error)
	Search(ctx context.Context, term string) ([]contact.Contact, error)
	Add(ctx context.Context, c contact.Contact) (contact.Contact, error)
	Delete(ctx context.Context, id string) error
}

// --- tea.Msg types ---

// ContactsMsg carries the result of a list or search query. Seq identifies
// the query so that results of superseded searches can be dropped.
type ContactsMsg struct {
	Seq      int
	Term     string
	Contacts []contact.Contact
	Err      error
}

// AddedMsg carries the result of adding a contact.
type AddedMsg struct {
	Contact contact.Contact
	Err     error
}

// DeletedMsg carries the result of deleting a contact.
type DeletedMsg struct {
	ID  string
	Err error
}

// RefreshMsg requests that the current query be re-run.
type RefreshMsg struct{}

// StatusLevel classifies a status bar message.
type StatusLevel int

const (
	StatusInfo StatusLevel = iota
	StatusWarning
	StatusError
)

// status is the message shown in the status bar.
type status struct {
	level StatusLevel
	text  string
}
