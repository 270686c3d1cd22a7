package engine

import (
	"fmt"

	"github.com/unbound-force/codestats/internal/report"
	"github.com/unbound-force/codestats/internal/stats"
)

// Result is the outcome of one Run.
type Result struct {
	// Groups holds one leaf group per label, in registration order.
	Groups []*stats.Group

	// Total sums all groups. It is nil unless there is more than one.
	Total *stats.Aggregate

	// CodeLOC and TestLOC split code lines by test-group membership.
	CodeLOC int
	TestLOC int

	// Ratio is TestLOC/CodeLOC formatted as "1:x.y".
	Ratio string

	// Diagnostics lists files that could not be read. They contributed
	// nothing to the counts.
	Diagnostics []*FileReadError
}

// Group returns the statistics for label, or nil.
func (r *Result) Group(label string) *stats.Group {
	for _, g := range r.Groups {
		if g.Name() == label {
			return g
		}
	}
	return nil
}

// ReportInput is a convenience for rendering r with package report.
func (r *Result) ReportInput() report.Input {
	in := report.Input{
		Summary: report.Summary{
			CodeLOC: r.CodeLOC,
			TestLOC: r.TestLOC,
			Ratio:   r.Ratio,
		},
	}
	for _, g := range r.Groups {
		in.Groups = append(in.Groups, g)
	}
	if r.Total != nil {
		in.Total = r.Total
	}
	return in
}

// Report renders the plain-text table and summary line.
func (r *Result) Report() string {
	return report.Text(r.ReportInput())
}

// String implements fmt.Stringer with Report.
func (r *Result) String() string {
	return r.Report()
}

// FileReadError records a file that became unreadable between listing
// and reading. It is a diagnostic, never a run failure.
type FileReadError struct {
	Group string
	Path  string
	Err   error
}

// Error leaves the path to Err, which always names it.
func (e *FileReadError) Error() string {
	return fmt.Sprintf("group %q: %v", e.Group, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }
