package store

import (
	"context"
	"math"
	"sort"
)

// Candidate is one location with its raw attribute columns and the fields
// the scoring pipeline derives from them.
type Candidate struct {
	Code       string             `json:"code"`
	Name       string             `json:"name"`
	Attributes map[string]float64 `json:"attributes,omitempty"`

	// Derived; recomputed in full on every scoring call.
	Accessibility      map[string]float64 `json:"accessibility_breakdown,omitempty"`
	AccessibilityTotal float64            `json:"accessibility_total,omitempty"`
	Normalized         map[string]float64 `json:"normalized,omitempty"`
	Contributions      map[string]float64 `json:"contributions,omitempty"`
	Score              float64            `json:"score"`
	DisplayScore       float64            `json:"display_score"`
	Rank               int                `json:"rank,omitempty"`
}

// Attribute returns a raw attribute value. NaN counts as missing.
func (c Candidate) Attribute(column string) (float64, bool) {
	v, ok := c.Attributes[column]
	if !ok || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Clone returns a deep copy so callers never share maps.
func (c Candidate) Clone() Candidate {
	out := c
	out.Attributes = cloneMap(c.Attributes)
	out.Accessibility = cloneMap(c.Accessibility)
	out.Normalized = cloneMap(c.Normalized)
	out.Contributions = cloneMap(c.Contributions)
	return out
}

// CloneAll deep-copies a candidate table.
func CloneAll(cands []Candidate) []Candidate {
	out := make([]Candidate, len(cands))
	for i := range cands {
		out[i] = cands[i].Clone()
	}
	return out
}

// AttributeColumns lists every raw attribute column present in the table,
// sorted.
func AttributeColumns(cands []Candidate) []string {
	seen := make(map[string]struct{})
	for _, c := range cands {
		for k := range c.Attributes {
			seen[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

func cloneMap(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type CandidateFilter struct {
	Codes  []string
	Limit  int
	Offset int
}

// Store is a read-mostly source of candidate datasets. Results are ordered by
// code so rankings are reproducible across calls.
type Store interface {
	ListCandidates(ctx context.Context, filter CandidateFilter) ([]Candidate, error)
	GetCandidate(ctx context.Context, code string) (*Candidate, error)
	Close() error
}

// Importer is implemented by stores that can load a dataset.
type Importer interface {
	ImportCandidates(ctx context.Context, cands []Candidate) (int, error)
}
