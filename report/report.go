// Package report holds the rendered outcome of one discovery run.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/katalvlaran/geodiscover/algebra"
	"github.com/katalvlaran/geodiscover/candidate"
)

// Empty is the text of a report without statements.
const Empty = "No discovered theorems were found."

// Statement is one line of a report.
type Statement struct {
	Kind candidate.Kind `json:"-"`
	// Text is the rendered statement, e.g. "AB ∥ CFG ∥ DE" or
	// "Collinear points: CFG, PRB".
	Text string `json:"text"`
	// Groups lists the point groups of Identical, Collinear and Concyclic
	// statements ("G=H=I", "CFG").
	Groups []string `json:"groups,omitempty"`
	// Pending lists the unresolved branch objects the statement relies on.
	Pending []string `json:"pending,omitempty"`
}

// MarshalJSON adds the kind name.
func (s Statement) MarshalJSON() ([]byte, error) {
	type plain Statement

	return json.Marshal(struct {
		Kind string `json:"kind"`
		plain
	}{s.Kind.String(), plain(s)})
}

// Report is the outcome of one Discover call.
type Report struct {
	RunID   string `json:"run_id"`
	Focus   string `json:"focus"`
	GraphID string `json:"graph_id"`
	Version uint64 `json:"version"`
	// Statements are the proven theorems, Identical first, then Collinear,
	// Concyclic, directions and congruences.
	Statements []Statement `json:"statements"`
	// Provisional statements hold for the current choice of an unresolved
	// branch only.
	Provisional []Statement `json:"provisional,omitempty"`
	// Pending describes the unresolved branches behind Provisional.
	Pending []algebra.Branch `json:"pending,omitempty"`
	// Inconclusive lists the relations that could not be decided.
	Inconclusive []string `json:"inconclusive,omitempty"`
	// Degenerate lists points whose construction collapsed.
	Degenerate []string `json:"degenerate,omitempty"`
	// Candidates counts the relations examined.
	Candidates int `json:"candidates"`
}

// Texts returns the statement texts in order.
func (r *Report) Texts() []string {
	out := make([]string, len(r.Statements))
	for i, s := range r.Statements {
		out[i] = s.Text
	}

	return out
}

// Empty reports whether no theorem was found.
func (r *Report) Empty() bool { return len(r.Statements) == 0 && len(r.Provisional) == 0 }

// String renders the report as text, one statement per line.
func (r *Report) String() string {
	var sb strings.Builder
	if r.Empty() {
		sb.WriteString(Empty)
		sb.WriteByte('\n')
	}
	for _, s := range r.Statements {
		sb.WriteString(s.Text)
		sb.WriteByte('\n')
	}
	if len(r.Provisional) > 0 {
		sb.WriteString("\nDepending on unresolved intersections:\n")
		for _, s := range r.Provisional {
			fmt.Fprintf(&sb, "%s  [%s]\n", s.Text, strings.Join(s.Pending, ", "))
		}
		for _, b := range r.Pending {
			fmt.Fprintf(&sb, "  %s\n", b)
		}
	}
	if len(r.Inconclusive) > 0 {
		fmt.Fprintf(&sb, "\nUndecided: %s\n", strings.Join(r.Inconclusive, ", "))
	}
	if len(r.Degenerate) > 0 {
		fmt.Fprintf(&sb, "Degenerate: %s\n", strings.Join(r.Degenerate, ", "))
	}

	return sb.String()
}

// JSON encodes the report.
func (r *Report) JSON() ([]byte, error) { return json.MarshalIndent(r, "", "  ") }
