package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/phonebook/internal/contact"
)

// formFields lists the form inputs in display and tab order.
var formFields = []contact.Field{
	contact.FieldFirstName,
	contact.FieldLastName,
	contact.FieldNumber,
	contact.FieldAddress,
}

// formState is the "New Contact" side form.
type formState struct {
	inputs  []textinput.Model
	current int
	focused bool
}

func newFormState() formState {
	inputs := make([]textinput.Model, len(formFields))
	for i, f := range formFields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = "Necessary"
		if f == contact.FieldAddress {
			ti.Placeholder = "Optional"
		}
		inputs[i] = ti
	}
	return formState{inputs: inputs}
}

// SetWidth sets the width of every input.
func (fs *formState) SetWidth(w int) {
	if w < 1 {
		w = 1
	}
	for i := range fs.inputs {
		fs.inputs[i].Width = w
	}
}

// Focus gives keyboard focus to the current input.
func (fs *formState) Focus() tea.Cmd {
	fs.focused = true
	return fs.inputs[fs.current].Focus()
}

// Blur removes keyboard focus from every input.
func (fs *formState) Blur() {
	fs.focused = false
	for i := range fs.inputs {
		fs.inputs[i].Blur()
	}
}

// FocusField moves the cursor to the input for f.
func (fs *formState) FocusField(f contact.Field) tea.Cmd {
	for i, ff := range formFields {
		if ff == f {
			return fs.moveTo(i)
		}
	}
	return nil
}

// Next moves to the next input. It reports false when already on the last one.
func (fs *formState) Next() (tea.Cmd, bool) {
	if fs.current >= len(fs.inputs)-1 {
		return nil, false
	}
	return fs.moveTo(fs.current + 1), true
}

// Prev moves to the previous input, stopping at the first.
func (fs *formState) Prev() tea.Cmd {
	if fs.current == 0 {
		return nil
	}
	return fs.moveTo(fs.current - 1)
}

func (fs *formState) moveTo(i int) tea.Cmd {
	fs.inputs[fs.current].Blur()
	fs.current = i
	if !fs.focused {
		return nil
	}
	return fs.inputs[i].Focus()
}

// Contact returns the form values as an unvalidated contact.
func (fs formState) Contact() contact.Contact {
	return contact.Contact{
		FirstName: fs.inputs[0].Value(),
		LastName:  fs.inputs[1].Value(),
		Number:    fs.inputs[2].Value(),
		Address:   fs.inputs[3].Value(),
	}.Normalize()
}

// Reset clears every input and returns to the first one.
func (fs *formState) Reset() tea.Cmd {
	for i := range fs.inputs {
		fs.inputs[i].Reset()
	}
	return fs.moveTo(0)
}

// Update forwards msg to the current input.
func (fs formState) Update(msg tea.Msg) (formState, tea.Cmd) {
	var cmd tea.Cmd
	fs.inputs[fs.current], cmd = fs.inputs[fs.current].Update(msg)
	return fs, cmd
}

// View renders the labelled inputs and the Add button.
func (fs formState) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("New Contact"))
	b.WriteString("\n")
	for i, f := range formFields {
		marker := "  "
		if fs.focused && i == fs.current {
			marker = CursorMarker
		}
		b.WriteString("\n" + marker + labelStyle.Render(f.String()+":") + "\n")
		b.WriteString("  " + fs.inputs[i].View() + "\n")
	}
	b.WriteString("\n")
	if fs.focused {
		b.WriteString(activeButtonStyle.Render("Add"))
		b.WriteString("\n" + mutedText.Render("ctrl+s or enter on the last field"))
	} else {
		b.WriteString(buttonStyle.Render("Add"))
	}
	return b.String()
}
