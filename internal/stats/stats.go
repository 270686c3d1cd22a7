// Package stats defines the per-group line, class, and method
// counters and the metrics derived from them.
//
// A leaf Group is filled from the files in its directories. An
// Aggregate only ever sums leaf groups. The two are separate types so
// that adding raw counts to an aggregate, or merging into a leaf, is
// not expressible.
package stats

import (
	"errors"
	"fmt"
)

// ErrInvalidOperation reports a violated counter contract. It is
// fatal to a run: continuing would produce a misleading report.
var ErrInvalidOperation = errors.New("invalid statistics operation")

// structuralLines is the number of lines (opening and closing) that
// bound a method body without being method logic.
const structuralLines = 2

// Counts holds the four base counters of a group or a file.
type Counts struct {
	// Lines is the raw line count.
	Lines int `json:"lines"`

	// Code counts lines that are neither blank nor whole-line comments.
	Code int `json:"code"`

	// Classes counts lines matching the class declaration heuristic.
	Classes int `json:"classes"`

	// Methods counts lines matching the method/test-case heuristic.
	Methods int `json:"methods"`
}

// Add adds other into c.
func (c *Counts) Add(other Counts) {
	c.Lines += other.Lines
	c.Code += other.Code
	c.Classes += other.Classes
	c.Methods += other.Methods
}

// Validate checks that no counter is negative and that code lines do
// not exceed raw lines.
func (c Counts) Validate() error {
	if c.Lines < 0 || c.Code < 0 || c.Classes < 0 || c.Methods < 0 {
		return fmt.Errorf("%w: negative counts %+v", ErrInvalidOperation, c)
	}
	if c.Code > c.Lines {
		return fmt.Errorf("%w: %d code lines exceed %d raw lines",
			ErrInvalidOperation, c.Code, c.Lines)
	}
	return nil
}

// Stats is the read-only view shared by leaf groups and aggregates.
type Stats interface {
	Name() string
	Counts() Counts
	LinesRaw() int
	LinesCode() int
	Classes() int
	Methods() int

	// MethodsPerClass returns the floor of methods/classes and true,
	// or 0 and false when the value is undefined (aggregates).
	MethodsPerClass() (int, bool)

	// LOCPerMethod returns code lines per method, less two structural
	// lines when the quotient is at least two.
	LOCPerMethod() int

	IsAggregate() bool
}

// SafeDiv returns x/y, or 0 when y is zero.
func SafeDiv(x, y int) int {
	if y == 0 {
		return 0
	}
	return x / y
}

// LOCPerMethod computes the corrected code-lines-per-method figure.
func LOCPerMethod(code, methods int) int {
	v := SafeDiv(code, methods)
	if v >= structuralLines {
		v -= structuralLines
	}
	return v
}

// Group is a named leaf accumulator filled from files on disk.
type Group struct {
	name            string
	counts          Counts
	methodsPerClass int
	locPerMethod    int
}

var _ Stats = (*Group)(nil)

// NewGroup returns an empty leaf group.
func NewGroup(name string) *Group {
	return &Group{name: name}
}

// AddCounts adds one file's counters to the group. Counts that break
// the counter contract are rejected with ErrInvalidOperation and leave
// the group unchanged.
func (g *Group) AddCounts(c Counts) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("group %q: %w", g.name, err)
	}
	g.counts.Add(c)
	return nil
}

// Finalize recomputes the derived metrics from the current counters.
func (g *Group) Finalize() {
	g.methodsPerClass = SafeDiv(g.counts.Methods, g.counts.Classes)
	g.locPerMethod = LOCPerMethod(g.counts.Code, g.counts.Methods)
}

func (g *Group) Name() string                 { return g.name }
func (g *Group) Counts() Counts               { return g.counts }
func (g *Group) LinesRaw() int                { return g.counts.Lines }
func (g *Group) LinesCode() int               { return g.counts.Code }
func (g *Group) Classes() int                 { return g.counts.Classes }
func (g *Group) Methods() int                 { return g.counts.Methods }
func (g *Group) MethodsPerClass() (int, bool) { return g.methodsPerClass, true }
func (g *Group) LOCPerMethod() int            { return g.locPerMethod }
func (g *Group) IsAggregate() bool            { return false }

// Aggregate is a synthetic group, such as "Total", that sums leaf
// groups.
type Aggregate struct {
	name         string
	counts       Counts
	locPerMethod int
}

var _ Stats = (*Aggregate)(nil)

// NewAggregate returns an empty aggregate.
func NewAggregate(name string) *Aggregate {
	return &Aggregate{name: name}
}

// Merge adds the base counters of g into the aggregate.
func (a *Aggregate) Merge(g *Group) {
	a.counts.Add(g.counts)
}

// Finalize recomputes LOC/M. Methods per class is undefined for
// aggregates.
func (a *Aggregate) Finalize() {
	a.locPerMethod = LOCPerMethod(a.counts.Code, a.counts.Methods)
}

func (a *Aggregate) Name() string                 { return a.name }
func (a *Aggregate) Counts() Counts               { return a.counts }
func (a *Aggregate) LinesRaw() int                { return a.counts.Lines }
func (a *Aggregate) LinesCode() int               { return a.counts.Code }
func (a *Aggregate) Classes() int                 { return a.counts.Classes }
func (a *Aggregate) Methods() int                 { return a.counts.Methods }
func (a *Aggregate) MethodsPerClass() (int, bool) { return 0, false }
func (a *Aggregate) LOCPerMethod() int            { return a.locPerMethod }
func (a *Aggregate) IsAggregate() bool            { return true }
