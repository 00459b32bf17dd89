package ui

import "github.com/charmbracelet/bubbles/help"

// HelpBindings returns the help.KeyMap for the given mode and focus,
// providing context-aware help bar content.
func HelpBindings(mode Mode, focus Focus) help.KeyMap {
	if mode == ModeConfirm {
		return ConfirmKeyMap()
	}
	switch focus {
	case FocusForm:
		return FormKeyMap()
	case FocusSearch:
		return SearchKeyMap()
	default:
		return TableKeyMap()
	}
}
