package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/phonebook/internal/contact"
)

// CursorMarker is the prefix shown on the focused form field.
const CursorMarker = "▸ "

// Lines used by the title, toolbar, status bar and help bar.
const (
	titleHeight   = 1
	toolbarHeight = 1
	statusHeight  = 1
	helpBarHeight = 1
	borderChrome  = 2
)

// DefaultTimeout bounds each store call made by the window.
const DefaultTimeout = 5 * time.Second

// Model is the root Bubble Tea model for the phonebook window.
type Model struct {
	book    Book
	timeout time.Duration

	mode   Mode
	focus  Focus
	width  int
	height int

	table   contactTable
	form    formState
	search  textinput.Model
	confirm confirmState
	help    help.Model

	seq     int // sequence number of the latest query
	loading bool
	status  status
}

// ModelOption configures optional Model dependencies.
type ModelOption func(*Model)

// WithTimeout sets the per-call store timeout.
func WithTimeout(d time.Duration) ModelOption {
	return func(m *Model) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// NewModel creates a window over b with the table focused.
func NewModel(b Book, opts ...ModelOption) Model {
	search := textinput.New()
	search.Prompt = ""
	search.Placeholder = "name, number or address"
	search.Width = 24

	m := Model{
		book:    b,
		timeout: DefaultTimeout,
		mode:    ModeBrowse,
		focus:   FocusTable,
		table:   newContactTable(),
		form:    newFormState(),
		search:  search,
		help:    help.New(),
		loading: true,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init loads the full contact list.
func (m Model) Init() tea.Cmd {
	return queryCmd(m.book, m.timeout, m.seq, "")
}

// Update handles incoming messages with mode-based routing.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case ContactsMsg:
		if msg.Seq != m.seq {
			return m, nil // superseded by a newer query
		}
		m.loading = false
		if msg.Err != nil {
			m.setStatus(StatusError, fmt.Sprintf("Error: %v", msg.Err))
			return m, nil
		}
		m.table.SetContacts(msg.Contacts)
		return m, nil

	case AddedMsg:
		if msg.Err != nil {
			var ve *contact.ValidationError
			if errors.As(msg.Err, &ve) {
				m.setStatus(StatusError, capitalize(ve.Error()))
				return m, m.focusFormField(ve.Field)
			}
			m.setStatus(StatusError, fmt.Sprintf("Error: %v", msg.Err))
			return m, nil
		}
		m.setStatus(StatusInfo, fmt.Sprintf("Added %s %s", msg.Contact.FirstName, msg.Contact.LastName))
		return m, tea.Batch(m.form.Reset(), m.requery())

	case DeletedMsg:
		if msg.Err != nil {
			m.setStatus(StatusError, fmt.Sprintf("Error: %v", msg.Err))
			return m, m.requery()
		}
		m.table.Remove(msg.ID)
		m.setStatus(StatusInfo, "Contact deleted")
		return m, m.requery()

	case RefreshMsg:
		return m, m.requery()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.forward(msg)
}

// handleKey processes key messages with global and mode-specific routing.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.mode == ModeConfirm {
		return m.handleConfirmKey(msg)
	}

	switch msg.String() {
	case "tab":
		return m, m.setFocus(m.focus.next())
	case "shift+tab":
		return m, m.setFocus(m.focus.prev())
	}

	switch m.focus {
	case FocusForm:
		return m.handleFormKey(msg)
	case FocusSearch:
		return m.handleSearchKey(msg)
	default:
		return m.handleTableKey(msg)
	}
}

func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "x", "delete":
		return m.requestDelete()
	case "/":
		return m, m.setFocus(FocusSearch)
	case "a":
		return m, m.setFocus(FocusForm)
	case "r":
		return m, func() tea.Msg { return RefreshMsg{} }
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, m.setFocus(FocusTable)
	case "ctrl+s":
		return m.submit()
	case "enter", "down":
		cmd, moved := m.form.Next()
		if !moved && msg.String() == "enter" {
			return m.submit()
		}
		return m, cmd
	case "up":
		return m, m.form.Prev()
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m, m.setFocus(FocusTable)
	case "esc":
		if m.search.Value() == "" {
			return m, m.setFocus(FocusTable)
		}
		m.search.Reset()
		return m, m.requery()
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.requery())
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.mode = ModeBrowse
		return m, deleteCmd(m.book, m.timeout, m.confirm.target.ID)
	case "n", "N", "esc", "q":
		m.mode = ModeBrowse
		m.setStatus(StatusInfo, "Delete cancelled")
		return m, nil
	}
	return m, nil
}

// requestDelete opens the confirmation dialog for the selected row, or warns
// when nothing is selected.
func (m Model) requestDelete() (tea.Model, tea.Cmd) {
	selected, ok := m.table.Selected()
	if !ok {
		m.setStatus(StatusWarning, "Please select a record to delete")
		return m, nil
	}
	m.confirm = confirmState{target: selected}
	m.mode = ModeConfirm
	return m, nil
}

// submit validates the form and, if valid, stores the contact.
func (m Model) submit() (tea.Model, tea.Cmd) {
	c := m.form.Contact()
	if err := c.Validate(); err != nil {
		var ve *contact.ValidationError
		if errors.As(err, &ve) {
			m.setStatus(StatusError, capitalize(ve.Error()))
			return m, m.focusFormField(ve.Field)
		}
		m.setStatus(StatusError, err.Error())
		return m, nil
	}
	m.status = status{}
	return m, addCmd(m.book, m.timeout, c)
}

// requery re-runs the current search (or full list) as a new query.
func (m *Model) requery() tea.Cmd {
	m.seq++
	m.loading = true
	return queryCmd(m.book, m.timeout, m.seq, strings.TrimSpace(m.search.Value()))
}

// setFocus moves keyboard focus to f.
func (m *Model) setFocus(f Focus) tea.Cmd {
	m.focus = f
	m.table.SetFocused(f == FocusTable)
	m.form.Blur()
	m.search.Blur()
	switch f {
	case FocusForm:
		return m.form.Focus()
	case FocusSearch:
		return m.search.Focus()
	}
	return nil
}

// focusFormField focuses the form on the input for field.
func (m *Model) focusFormField(field contact.Field) tea.Cmd {
	return tea.Batch(m.setFocus(FocusForm), m.form.FocusField(field))
}

// forward passes non-key messages (cursor blink) to the focused input.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case FocusForm:
		m.form, cmd = m.form.Update(msg)
	case FocusSearch:
		m.search, cmd = m.search.Update(msg)
	}
	return m, cmd
}

func (m *Model) setStatus(level StatusLevel, text string) {
	m.status = status{level: level, text: text}
}

// contentHeight returns the usable height for pane content,
// accounting for border chrome and the fixed bars.
func (m Model) contentHeight() int {
	h := m.height - titleHeight - toolbarHeight - statusHeight - helpBarHeight - borderChrome
	if h < 1 {
		return 1
	}
	return h
}

// layout sizes the widgets for the current window.
func (m *Model) layout() {
	tableWidth, formWidth := PaneWidths(m.width)
	m.table.SetSize(max(tableWidth-borderChrome, 0), m.contentHeight())
	m.form.SetWidth(formWidth - borderChrome - 4)
}

// View renders the toolbar, table and form panes, status bar and help bar.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	helpBar := m.help.View(HelpBindings(m.mode, m.focus))
	title := titleStyle.Render("Phonebook")

	if m.mode == ModeConfirm {
		body := lipgloss.Place(m.width, m.contentHeight()+borderChrome+toolbarHeight,
			lipgloss.Center, lipgloss.Center, m.confirm.View())
		return lipgloss.JoinVertical(lipgloss.Left, title, body, m.viewStatus(), helpBar)
	}

	tableWidth, formWidth := PaneWidths(m.width)
	tableStyle, formStyle := UnfocusedBorder(), UnfocusedBorder()
	if m.focus == FocusTable {
		tableStyle = FocusedBorder()
	}
	if m.focus == FocusForm {
		formStyle = FocusedBorder()
	}
	tablePane := tableStyle.
		Width(max(tableWidth-borderChrome, 0)).
		Height(m.contentHeight()).
		Render(m.viewTable())
	formPane := formStyle.
		Width(max(formWidth-borderChrome, 0)).
		Height(m.contentHeight()).
		Padding(0, 1).
		Render(m.form.View())
	panes := lipgloss.JoinHorizontal(lipgloss.Top, tablePane, formPane)

	return lipgloss.JoinVertical(lipgloss.Left, title, m.viewToolbar(), panes, m.viewStatus(), helpBar)
}

// viewToolbar renders the Delete action and the Search field.
func (m Model) viewToolbar() string {
	del := mutedText.Render("[x]") + " Delete Contact"
	label := "Search"
	if m.focus == FocusSearch {
		label = titleStyle.Render(label)
	}
	return del + mutedText.Render("  │  ") + m.search.View() + " " + label
}

func (m Model) viewTable() string {
	if m.loading && m.table.Len() == 0 {
		return "Loading contacts..."
	}
	if m.table.Len() == 0 {
		if term := strings.TrimSpace(m.search.Value()); term != "" {
			return fmt.Sprintf("No contacts match %q", term)
		}
		return "No contacts yet. Press a to add one."
	}
	return m.table.View()
}

func (m Model) viewStatus() string {
	if m.status.text == "" {
		return ""
	}
	return statusStyles[m.status.level].Render(m.status.text)
}

// capitalize upper-cases the first letter of s for display.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
