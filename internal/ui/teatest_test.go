package ui

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
)

// TestModel_Teatest_AddSearchDelete drives the window end to end.
func TestModel_Teatest_AddSearchDelete(t *testing.T) {
	b := newStubBook(sampleContacts()...)
	tm := teatest.NewTestModel(t, NewModel(b, WithTimeout(time.Second)), teatest.WithInitialTermSize(120, 30))

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("Lovelace"))
	}, teatest.WithDuration(3*time.Second))

	// Add a contact through the form.
	tm.Send(keyMsg("a"))
	tm.Type("Edsger")
	tm.Send(keyMsg("down"))
	tm.Type("Dijkstra")
	tm.Send(keyMsg("down"))
	tm.Type("0201234567")
	tm.Send(keyMsg("ctrl+s"))

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("Added Edsger Dijkstra"))
	}, teatest.WithDuration(3*time.Second))

	// Delete the first row.
	tm.Send(keyMsg("esc"))
	tm.Send(keyMsg("x"))
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("Are you sure"))
	}, teatest.WithDuration(3*time.Second))
	tm.Send(keyMsg("y"))
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("Contact deleted"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))

	final := tm.FinalModel(t).(Model)
	if final.table.Len() != 3 {
		t.Errorf("rows = %d, want 3", final.table.Len())
	}
	ids := b.ids()
	if len(ids) != 3 || ids[0] != "2" {
		t.Errorf("stored ids = %v, want first contact deleted", ids)
	}
}
