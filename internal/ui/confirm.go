package ui

import (
	"fmt"
	"strings"

	"github.com/smileynet/phonebook/internal/contact"
)

// confirmState holds the contact awaiting delete confirmation.
type confirmState struct {
	target contact.Contact
}

// View renders the confirmation dialog.
func (cs confirmState) View() string {
	var b strings.Builder
	b.WriteString("Are you sure that you want to delete the selected contact?\n")
	fmt.Fprintf(&b, "\n  first name: %s", cs.target.FirstName)
	fmt.Fprintf(&b, "\n  last name:  %s", cs.target.LastName)
	fmt.Fprintf(&b, "\n  number:     %s", cs.target.Number)
	fmt.Fprintf(&b, "\n  address:    %s", cs.target.Address)
	b.WriteString("\n\n  [y] Yes   [n] No")
	return dialogStyle.Render(b.String())
}
