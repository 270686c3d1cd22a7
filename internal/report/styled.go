package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Styled renders in as a lipgloss table followed by the summary. The
// columns and suppression rules match WriteText.
func Styled(in Input, s Styles) string {
	rows, total := in.cells()
	if total != nil {
		rows = append(rows, total)
	}
	totalRow := -1
	if total != nil {
		totalRow = len(rows) - 1
	}

	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = col.header
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return s.Header
			case row == totalRow && col == 0:
				return s.Total.Align(lipgloss.Left)
			case row == totalRow:
				return s.Total
			case columns[col].align == alignLeft:
				return s.Name
			default:
				return s.Number
			}
		}).
		Headers(headers...).
		Rows(rows...)

	var b strings.Builder
	if len(rows) == 0 {
		b.WriteString(s.Muted.Render("No source files counted."))
		b.WriteString("\n")
	} else {
		b.WriteString(t.String())
		b.WriteString("\n")
	}

	sum := in.Summary
	fmt.Fprintf(&b, "%s %s  %s %s  %s %s\n",
		s.SummaryLabel.Render("Code LOC:"), s.SummaryValue.Render(strconv.Itoa(sum.CodeLOC)),
		s.SummaryLabel.Render("Test LOC:"), s.SummaryValue.Render(strconv.Itoa(sum.TestLOC)),
		s.SummaryLabel.Render("Code to Test Ratio:"), s.RatioStyle(sum).Render(sum.Ratio))
	return b.String()
}

// WriteStyled writes Styled(in, DefaultStyles()) to w.
func WriteStyled(w io.Writer, in Input) error {
	if _, err := io.WriteString(w, Styled(in, DefaultStyles())); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
