package ui

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/phonebook/internal/contact"
)

// stubBook is an in-memory Book with optional injected failures.
type stubBook struct {
	mu       sync.Mutex
	contacts []contact.Contact
	nextID   int
	searches []string

	listErr   error
	addErr    error
	deleteErr error
}

func newStubBook(cs ...contact.Contact) *stubBook {
	b := &stubBook{}
	for _, c := range cs {
		b.nextID++
		c.ID = strconv.Itoa(b.nextID)
		b.contacts = append(b.contacts, c)
	}
	return b
}

func (b *stubBook) List(context.Context) ([]contact.Contact, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listErr != nil {
		return nil, b.listErr
	}
	return append([]contact.Contact(nil), b.contacts...), nil
}

func (b *stubBook) Search(_ context.Context, term string) ([]contact.Contact, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.searches = append(b.searches, term)
	if b.listErr != nil {
		return nil, b.listErr
	}
	var out []contact.Contact
	for _, c := range b.contacts {
		if c.Matches(term) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (b *stubBook) Add(_ context.Context, c contact.Contact) (contact.Contact, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.addErr != nil {
		return contact.Contact{}, b.addErr
	}
	if err := c.Validate(); err != nil {
		return contact.Contact{}, err
	}
	b.nextID++
	c.ID = strconv.Itoa(b.nextID)
	b.contacts = append(b.contacts, c)
	return c, nil
}

func (b *stubBook) Delete(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.deleteErr != nil {
		return b.deleteErr
	}
	for i, c := range b.contacts {
		if c.ID == id {
			b.contacts = append(b.contacts[:i], b.contacts[i+1:]...)
			return nil
		}
	}
	return errors.New("contact not found")
}

func (b *stubBook) ids() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.contacts))
	for i, c := range b.contacts {
		out[i] = c.ID
	}
	return out
}

func sampleContacts() []contact.Contact {
	return []contact.Contact{
		{FirstName: "Ada", LastName: "Lovelace", Number: "0912345678", Address: "London"},
		{FirstName: "Alan", LastName: "Turing", Number: "0987654321", Address: "Wilmslow"},
		{FirstName: "Grace", LastName: "Hopper", Number: "12345678"},
	}
}

// loadedModel returns a sized model whose initial list has been delivered.
func loadedModel(t *testing.T, b Book) Model {
	t.Helper()
	m := NewModel(b)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	m = updated.(Model)
	return send(t, m, m.Init()())
}

// send applies msg and returns the resulting model, dropping the command.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	return updated.(Model)
}

// press sends a key and returns the model and command.
func press(t *testing.T, m Model, k string) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(keyMsg(k))
	return updated.(Model), cmd
}

// typeText sends each rune of s as a key press.
func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "delete":
		return tea.KeyMsg{Type: tea.KeyDelete}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// execBatch runs cmd and returns the messages it produces, flattening
// batches. Cursor blink messages are dropped.
func execBatch(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, execBatch(t, c)...)
		}
		return msgs
	}
	if isDomainMsg(msg) {
		return []tea.Msg{msg}
	}
	return nil
}

func isDomainMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case ContactsMsg, AddedMsg, DeletedMsg, RefreshMsg, tea.QuitMsg:
		return true
	}
	return false
}

// drain applies every domain message produced by cmd, recursively.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range execBatch(t, cmd) {
		updated, next := m.Update(msg)
		m = drain(t, updated.(Model), next)
	}
	return m
}

// stripANSI removes ANSI escape sequences from a string.
func stripANSI(s string) string {
	var out []byte
	i := 0
	for i < len(s) {
		if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && (s[j] < 'A' || s[j] > 'Z') && (s[j] < 'a' || s[j] > 'z') {
				j++
			}
			if j < len(s) {
				j++
			}
			i = j
		} else {
			out = append(out, s[i])
			i++
		}
	}
	return string(out)
}

// containsPlainText checks if s contains sub after stripping ANSI escapes.
func containsPlainText(s, sub string) bool {
	return strings.Contains(stripANSI(s), sub)
}
