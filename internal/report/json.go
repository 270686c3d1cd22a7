package report

import (
	"encoding/json"
	"io"

	"github.com/unbound-force/codestats/internal/stats"
)

// JSONVersion is the version of the JSON report layout.
const JSONVersion = "1.0.0"

// JSONReport is the top-level JSON output structure.
type JSONReport struct {
	Version string      `json:"version"`
	Groups  []JSONGroup `json:"groups"`
	Total   *JSONGroup  `json:"total,omitempty"`
	Summary Summary     `json:"summary"`
}

// JSONGroup is one group's counters and derived metrics.
// MethodsPerClass is omitted where it is undefined.
type JSONGroup struct {
	Name            string `json:"name"`
	Lines           int    `json:"lines"`
	Code            int    `json:"loc"`
	Classes         int    `json:"classes"`
	Methods         int    `json:"methods"`
	MethodsPerClass *int   `json:"methods_per_class,omitempty"`
	LOCPerMethod    int    `json:"loc_per_method"`
}

// NewJSONReport converts in to its JSON form. Unlike the text report,
// groups without lines are kept.
func NewJSONReport(in Input) JSONReport {
	out := JSONReport{
		Version: JSONVersion,
		Groups:  make([]JSONGroup, 0, len(in.Groups)),
		Summary: in.Summary,
	}
	for _, g := range in.Groups {
		out.Groups = append(out.Groups, jsonGroup(g))
	}
	if in.Total != nil {
		t := jsonGroup(in.Total)
		out.Total = &t
	}
	return out
}

func jsonGroup(s stats.Stats) JSONGroup {
	g := JSONGroup{
		Name:         s.Name(),
		Lines:        s.LinesRaw(),
		Code:         s.LinesCode(),
		Classes:      s.Classes(),
		Methods:      s.Methods(),
		LOCPerMethod: s.LOCPerMethod(),
	}
	if mpc, ok := s.MethodsPerClass(); ok {
		g.MethodsPerClass = &mpc
	}
	return g
}

// WriteJSON writes in as formatted JSON to the writer.
func WriteJSON(w io.Writer, in Input) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewJSONReport(in))
}
