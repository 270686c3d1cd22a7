// Package report renders computed group statistics as an aligned text
// table, a styled terminal table, or JSON. It does no filesystem
// access.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/unbound-force/codestats/internal/stats"
)

// Summary carries the code/test split printed under the table.
type Summary struct {
	CodeLOC int    `json:"code_loc"`
	TestLOC int    `json:"test_loc"`
	Ratio   string `json:"ratio"`
}

// Input is everything a renderer needs. Total may be nil.
type Input struct {
	Groups  []stats.Stats
	Total   stats.Stats
	Summary Summary
}

type alignment int

const (
	alignLeft alignment = iota
	alignRight
)

// column describes one table column. Width is the larger of minWidth
// and the longest rendered value.
type column struct {
	header   string
	minWidth int
	align    alignment
	value    func(stats.Stats) string
}

func itoa(n int) string { return strconv.Itoa(n) }

var columns = []column{
	{header: "Name", minWidth: 20, align: alignLeft, value: stats.Stats.Name},
	{header: "Lines", minWidth: 5, align: alignRight, value: func(s stats.Stats) string { return itoa(s.LinesRaw()) }},
	{header: "LOC", minWidth: 5, align: alignRight, value: func(s stats.Stats) string { return itoa(s.LinesCode()) }},
	{header: "Classes", minWidth: 7, align: alignRight, value: func(s stats.Stats) string { return itoa(s.Classes()) }},
	{header: "Methods", minWidth: 7, align: alignRight, value: func(s stats.Stats) string { return itoa(s.Methods()) }},
	{header: "M/C", minWidth: 3, align: alignRight, value: methodsPerClass},
	{header: "LOC/M", minWidth: 5, align: alignRight, value: func(s stats.Stats) string { return itoa(s.LOCPerMethod()) }},
}

// methodsPerClass renders M/C, blank where it is undefined.
func methodsPerClass(s stats.Stats) string {
	v, ok := s.MethodsPerClass()
	if !ok {
		return ""
	}
	return itoa(v)
}

// visible reports whether s gets a row. Groups without a single raw
// line are suppressed.
func visible(s stats.Stats) bool {
	return s != nil && s.LinesRaw() > 0
}

// cells renders every visible row, total last.
func (in Input) cells() (rows [][]string, total []string) {
	row := func(s stats.Stats) []string {
		out := make([]string, len(columns))
		for i, col := range columns {
			out[i] = col.value(s)
		}
		return out
	}
	for _, g := range in.Groups {
		if visible(g) {
			rows = append(rows, row(g))
		}
	}
	if visible(in.Total) {
		total = row(in.Total)
	}
	return rows, total
}

func columnWidths(rows [][]string, total []string) []int {
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = max(col.minWidth, len(col.header))
	}
	measure := func(r []string) {
		for i, cell := range r {
			widths[i] = max(widths[i], len(cell))
		}
	}
	for _, r := range rows {
		measure(r)
	}
	measure(total)
	return widths
}

// WriteText writes the fixed-column report: a bordered table of the
// non-empty groups, the Total row when present, and the summary line.
func WriteText(w io.Writer, in Input) error {
	rows, total := in.cells()
	widths := columnWidths(rows, total)

	var b strings.Builder
	splitter := splitterLine(widths)

	b.WriteString(splitter)
	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = col.header
	}
	b.WriteString(formatRow(headers, widths, true))
	b.WriteString(splitter)

	for _, r := range rows {
		b.WriteString(formatRow(r, widths, false))
	}
	b.WriteString(splitter)

	if in.Total != nil {
		if total != nil {
			b.WriteString(formatRow(total, widths, false))
		}
		b.WriteString(splitter)
	}

	b.WriteString(SummaryLine(in.Summary))
	b.WriteString("\n\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// Text returns the output of WriteText as a string.
func Text(in Input) string {
	var b strings.Builder
	_ = WriteText(&b, in) // strings.Builder never fails
	return b.String()
}

// SummaryLine returns the one-line code/test summary, without a
// trailing newline.
func SummaryLine(s Summary) string {
	return fmt.Sprintf(" Code LOC: %d  Test LOC: %d  Code to Test Ratio: %s",
		s.CodeLOC, s.TestLOC, s.Ratio)
}

func splitterLine(widths []int) string {
	var b strings.Builder
	b.WriteByte('|')
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteByte('|')
	}
	b.WriteByte('\n')
	return b.String()
}

// formatRow pads each cell with one space on either side. Header cells
// are all left-aligned.
func formatRow(cells []string, widths []int, header bool) string {
	var b strings.Builder
	b.WriteByte('|')
	for i, cell := range cells {
		if header || columns[i].align == alignLeft {
			fmt.Fprintf(&b, " %-*s |", widths[i], cell)
		} else {
			fmt.Fprintf(&b, " %*s |", widths[i], cell)
		}
	}
	b.WriteByte('\n')
	return b.String()
}
