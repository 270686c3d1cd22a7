package report

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles defines the visual theme for the styled terminal report.
// Lipgloss automatically degrades to no-color when output is not a TTY.
type Styles struct {
	// Header styles the table header row.
	Header lipgloss.Style

	// Name styles the group name column.
	Name lipgloss.Style

	// Number styles numeric cells.
	Number lipgloss.Style

	// Total styles every cell of the Total row.
	Total lipgloss.Style

	// Border is used for table borders.
	Border lipgloss.Style

	// SummaryLabel and SummaryValue style the code/test summary.
	SummaryLabel lipgloss.Style
	SummaryValue lipgloss.Style

	// TestGood and TestLow color the ratio by test coverage of code.
	TestGood lipgloss.Style
	TestLow  lipgloss.Style

	// Muted is used for de-emphasized text.
	Muted lipgloss.Style
}

// DefaultStyles returns the default color scheme for terminal reports.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).Padding(0, 1),
		Name:   lipgloss.NewStyle().Padding(0, 1),
		Number: lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right),
		Total:  lipgloss.NewStyle().Bold(true).Padding(0, 1).Align(lipgloss.Right),
		Border: lipgloss.NewStyle().Foreground(lipgloss.Color("63")),

		SummaryLabel: lipgloss.NewStyle().Bold(true),
		SummaryValue: lipgloss.NewStyle(),

		TestGood: lipgloss.NewStyle().Foreground(lipgloss.Color("40")).Bold(true),
		TestLow:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")),

		Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// RatioStyle picks the ratio style: at least one test line per code
// line is good.
func (s Styles) RatioStyle(sum Summary) lipgloss.Style {
	if sum.CodeLOC > 0 && sum.TestLOC >= sum.CodeLOC {
		return s.TestGood
	}
	return s.TestLow
}
