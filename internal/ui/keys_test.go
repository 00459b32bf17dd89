package ui

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
)

func collectKeys(bindings []key.Binding) []string {
	var keys []string
	for _, b := range bindings {
		keys = append(keys, b.Keys()...)
	}
	return keys
}

func containsKey(keys []string, want string) bool {
	for _, k := range keys {
		if k == want {
			return true
		}
	}
	return false
}

func TestTableKeys_ContainsExpected(t *testing.T) {
	// Given: the table key map
	allKeys := collectKeys(TableKeyMap().ShortHelp())

	// Then: navigation, actions and quit are present
	for _, want := range []string{"up", "down", "x", "/", "a", "tab", "q"} {
		if !containsKey(allKeys, want) {
			t.Errorf("TableKeyMap missing key %q, got %v", want, allKeys)
		}
	}
}

func TestTableKeys_DeleteAvoidsTableBindings(t *testing.T) {
	// Given: the table delete binding
	keys := TableKeyMap().Delete.Keys()

	// Then: it does not reuse the bubbles table half-page key
	if containsKey(keys, "d") {
		t.Errorf("Delete binding %v collides with table half-page down", keys)
	}
}

func TestFormKeys_ContainsExpected(t *testing.T) {
	allKeys := collectKeys(FormKeyMap().ShortHelp())
	for _, want := range []string{"down", "enter", "up", "ctrl+s", "tab", "esc"} {
		if !containsKey(allKeys, want) {
			t.Errorf("FormKeyMap missing key %q, got %v", want, allKeys)
		}
	}
}

func TestConfirmKeys_Help(t *testing.T) {
	km := ConfirmKeyMap()
	if h := km.Yes.Help(); h.Key != "y/enter" {
		t.Errorf("Yes help key = %q, want %q", h.Key, "y/enter")
	}
	if h := km.No.Help(); h.Key != "n/esc" {
		t.Errorf("No help key = %q, want %q", h.Key, "n/esc")
	}
}

func TestFullHelp_CoversShortHelp(t *testing.T) {
	maps := map[string]interface {
		ShortHelp() []key.Binding
		FullHelp() [][]key.Binding
	}{
		"table":   TableKeyMap(),
		"form":    FormKeyMap(),
		"search":  SearchKeyMap(),
		"confirm": ConfirmKeyMap(),
	}
	for name, km := range maps {
		var full []string
		for _, group := range km.FullHelp() {
			full = append(full, collectKeys(group)...)
		}
		for _, k := range collectKeys(km.ShortHelp()) {
			if !containsKey(full, k) {
				t.Errorf("%s FullHelp missing %q", name, k)
			}
		}
	}
}

func TestHelpBindings_FollowModeAndFocus(t *testing.T) {
	tests := []struct {
		name  string
		mode  Mode
		focus Focus
		want  string
	}{
		{"table", ModeBrowse, FocusTable, "x"},
		{"form", ModeBrowse, FocusForm, "ctrl+s"},
		{"search", ModeBrowse, FocusSearch, "esc"},
		{"confirm overrides focus", ModeConfirm, FocusForm, "y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys := collectKeys(HelpBindings(tt.mode, tt.focus).ShortHelp())
			if !containsKey(keys, tt.want) {
				t.Errorf("HelpBindings(%d, %d) keys = %v, want %q", tt.mode, tt.focus, keys, tt.want)
			}
		})
	}
}
