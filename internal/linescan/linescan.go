// Package linescan classifies source lines with literal pattern
// matching and counts them per file. It is a text scan, not a parser:
// a "class Foo" inside a string literal is counted like any other.
package linescan

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/unbound-force/codestats/internal/stats"
)

// Policy selects which lines count toward the raw line total.
type Policy int

const (
	// PhysicalLines counts every physical line read.
	PhysicalLines Policy = iota

	// NonBlankLines skips whitespace-only lines entirely.
	NonBlankLines
)

// String returns the configuration spelling of p.
func (p Policy) String() string {
	switch p {
	case NonBlankLines:
		return "non_blank"
	default:
		return "physical"
	}
}

// ParsePolicy parses the configuration spelling of a policy. The empty
// string selects PhysicalLines.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "physical":
		return PhysicalLines, nil
	case "non_blank", "non-blank", "nonblank":
		return NonBlankLines, nil
	default:
		return PhysicalLines, fmt.Errorf("unknown raw line policy %q: must be 'physical' or 'non_blank'", s)
	}
}

var (
	blankRe   = regexp.MustCompile(`^\s*$`)
	commentRe = regexp.MustCompile(`^\s*#`)
	classRe   = regexp.MustCompile(`class [A-Z]`)
	methodRe  = regexp.MustCompile(`def [a-z]|(should|test|it|Given|When|Then) .* do`)
)

// Kind is the classification of a single line. A line can be both a
// class and a method declaration.
type Kind struct {
	Blank   bool
	Comment bool
	Class   bool
	Method  bool
}

// Code reports whether the line counts as a line of code.
func (k Kind) Code() bool {
	return !k.Blank && !k.Comment
}

// Classify classifies one line, without its line terminator.
func Classify(line string) Kind {
	return Kind{
		Blank:   blankRe.MatchString(line),
		Comment: commentRe.MatchString(line),
		Class:   classRe.MatchString(line),
		Method:  methodRe.MatchString(line),
	}
}

// Count reads r line by line and returns its counters under policy.
// On a read error the counts gathered so far are discarded.
func Count(r io.Reader, policy Policy) (stats.Counts, error) {
	var counts stats.Counts
	reader := bufio.NewReader(r)

	for {
		line, err := reader.ReadString('\n')
		if errors.Is(err, io.EOF) && len(line) == 0 {
			break
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return stats.Counts{}, err
		}

		tally(&counts, normalizeLine(line), policy)

		// A final line without a newline is still a line.
		if errors.Is(err, io.EOF) {
			break
		}
	}

	return counts, nil
}

// CountFile opens path, counts it, and closes it on every path.
// Errors are the *fs.PathError from the open or read and already name
// the file.
func CountFile(path string, policy Policy) (stats.Counts, error) {
	f, err := os.Open(path)
	if err != nil {
		return stats.Counts{}, err
	}
	defer f.Close()

	return Count(f, policy)
}

func tally(counts *stats.Counts, line string, policy Policy) {
	kind := Classify(line)
	if kind.Blank && policy == NonBlankLines {
		return
	}

	counts.Lines++
	if kind.Class {
		counts.Classes++
	}
	if kind.Method {
		counts.Methods++
	}
	if kind.Code() {
		counts.Code++
	}
}

// normalizeLine strips a trailing "\n" or "\r\n".
func normalizeLine(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
