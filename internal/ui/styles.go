package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// FormWidth is the total character width of the side form, borders included.
const FormWidth = 38

// MinTableWidth is the minimum character width for the table pane.
const MinTableWidth = 40

var (
	accent = lipgloss.AdaptiveColor{Light: "4", Dark: "12"}
	dim    = lipgloss.AdaptiveColor{Light: "240", Dark: "240"}
	muted  = lipgloss.AdaptiveColor{Light: "240", Dark: "245"}

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	mutedText  = lipgloss.NewStyle().Foreground(muted)
	labelStyle = lipgloss.NewStyle().Bold(true)

	statusStyles = map[StatusLevel]lipgloss.Style{
		StatusInfo:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "2", Dark: "10"}),
		StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "208", Dark: "208"}),
		StatusError:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "1", Dark: "9"}),
	}

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.NormalBorder()).
			BorderForeground(dim)

	activeButtonStyle = buttonStyle.BorderForeground(accent).Foreground(accent).Bold(true)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "1", Dark: "9"}).
			Padding(1, 2)
)

// FocusedBorder returns a lipgloss style with an accent-colored rounded border.
func FocusedBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent)
}

// UnfocusedBorder returns a lipgloss style with a dim rounded border.
func UnfocusedBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim)
}

// PaneWidths splits totalWidth between the table and the form. The form keeps
// FormWidth; the table gets the rest but never less than MinTableWidth.
func PaneWidths(totalWidth int) (tableWidth, formWidth int) {
	if totalWidth <= 0 {
		return 0, 0
	}
	formWidth = FormWidth
	tableWidth = totalWidth - formWidth
	if tableWidth < MinTableWidth {
		tableWidth = MinTableWidth
		formWidth = totalWidth - tableWidth
		if formWidth < 0 {
			formWidth = 0
		}
	}
	return tableWidth, formWidth
}

// tableStyles returns the bubbles table styles, highlighting the cursor row
// only while the table has focus.
func tableStyles(focused bool) table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dim).
		BorderBottom(true).
		Bold(true)
	if focused {
		s.Selected = s.Selected.
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(false)
	} else {
		s.Selected = lipgloss.NewStyle()
	}
	return s
}
