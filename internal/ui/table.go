package ui

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/phonebook/internal/contact"
)

// Fixed column widths; the address column takes the remaining width.
const (
	colFirstName   = 14
	colLastName    = 14
	colPhone       = 13
	minColAddress  = 10
	cellPaddingSum = 2 // default table cell style pads one column each side
)

// contactTable is the bubbles table plus the contacts behind its rows.
// The contact ID is kept alongside each row rather than in a visible column.
type contactTable struct {
	table    table.Model
	contacts []contact.Contact
}

func newContactTable() contactTable {
	t := table.New(
		table.WithColumns(columns(0)),
		table.WithFocused(true),
		table.WithHeight(10),
		table.WithStyles(tableStyles(true)),
	)
	return contactTable{table: t}
}

// columns lays out the four visible columns for an inner width.
func columns(width int) []table.Column {
	address := width - (colFirstName + colLastName + colPhone) - 4*cellPaddingSum
	if address < minColAddress {
		address = minColAddress
	}
	return []table.Column{
		{Title: "First Name", Width: colFirstName},
		{Title: "Last Name", Width: colLastName},
		{Title: "Phone", Width: colPhone},
		{Title: "Address", Width: address},
	}
}

// SetSize resizes the table to the given inner width and height.
func (ct *contactTable) SetSize(width, height int) {
	ct.table.SetColumns(columns(width))
	ct.table.SetWidth(width)
	ct.table.SetHeight(height)
}

// SetFocused toggles keyboard focus and the cursor highlight.
func (ct *contactTable) SetFocused(focused bool) {
	if focused {
		ct.table.Focus()
	} else {
		ct.table.Blur()
	}
	ct.table.SetStyles(tableStyles(focused))
}

// SetContacts replaces the rows, keeping the cursor in range.
func (ct *contactTable) SetContacts(cs []contact.Contact) {
	ct.contacts = append([]contact.Contact(nil), cs...)
	rows := make([]table.Row, len(ct.contacts))
	for i, c := range ct.contacts {
		rows[i] = table.Row{c.FirstName, c.LastName, c.Number, c.Address}
	}
	ct.table.SetRows(rows)
	ct.clampCursor()
}

// Remove drops the row for id. It reports whether a row was removed.
func (ct *contactTable) Remove(id string) bool {
	for i, c := range ct.contacts {
		if c.ID == id {
			next := append(append([]contact.Contact(nil), ct.contacts[:i]...), ct.contacts[i+1:]...)
			cursor := ct.table.Cursor()
			ct.SetContacts(next)
			if cursor > i {
				cursor--
			}
			ct.table.SetCursor(cursor)
			ct.clampCursor()
			return true
		}
	}
	return false
}

// Selected returns the contact under the cursor.
func (ct contactTable) Selected() (contact.Contact, bool) {
	i := ct.table.Cursor()
	if i < 0 || i >= len(ct.contacts) {
		return contact.Contact{}, false
	}
	return ct.contacts[i], true
}

// Len returns the number of rows.
func (ct contactTable) Len() int {
	return len(ct.contacts)
}

// Update forwards navigation messages to the bubbles table.
func (ct contactTable) Update(msg tea.Msg) (contactTable, tea.Cmd) {
	var cmd tea.Cmd
	ct.table, cmd = ct.table.Update(msg)
	return ct, cmd
}

// View renders the table.
func (ct contactTable) View() string {
	return ct.table.View()
}

func (ct *contactTable) clampCursor() {
	n := len(ct.contacts)
	switch {
	case n == 0:
		ct.table.SetCursor(0)
	case ct.table.Cursor() >= n:
		ct.table.SetCursor(n - 1)
	case ct.table.Cursor() < 0:
		ct.table.SetCursor(0)
	}
}
