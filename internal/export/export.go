// Package export writes ranked candidate tables as CSV or Excel workbooks.
package export

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/MikeSquared-Agency/Locus/internal/store"
)

// Format of an exported ranking.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv", "xlsx" or "excel".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType is the HTTP media type of the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Extension is the file suffix of the format, without the dot.
func (f Format) Extension() string {
	return string(f)
}

// Report is one ranking run flattened for export.
type Report struct {
	Candidates       []store.Candidate
	Criteria         []string
	Weights          map[string]float64
	ConsistencyRatio float64
	Projected        bool
	Fallback         bool
}

// Write encodes the report in the given format.
func Write(w io.Writer, format Format, r Report) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, r)
	case FormatXLSX:
		return WriteXLSX(w, r)
	}
	return fmt.Errorf("unsupported export format %q", format)
}

// Columns lists the table header: identity and score columns, then
// norm_<criterion> and contrib_<criterion> per criterion, then
// hrs_<category> per travel category and the accessibility total.
func (r Report) Columns() []string {
	cols := []string{"code", "name", "rank", "score", "display_score"}
	for _, id := range r.Criteria {
		cols = append(cols, "norm_"+id)
	}
	for _, id := range r.Criteria {
		cols = append(cols, "contrib_"+id)
	}
	cats := r.categories()
	for _, c := range cats {
		cols = append(cols, "hrs_"+c)
	}
	if len(cats) > 0 {
		cols = append(cols, "accessibility_total")
	}
	return cols
}

// values returns one row per candidate in the Columns order.
func (r Report) values() [][]interface{} {
	cats := r.categories()
	rows := make([][]interface{}, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		row := []interface{}{c.Code, c.Name, c.Rank, c.Score, c.DisplayScore}
		for _, id := range r.Criteria {
			row = append(row, c.Normalized[id])
		}
		for _, id := range r.Criteria {
			row = append(row, c.Contributions[id])
		}
		for _, cat := range cats {
			row = append(row, c.Accessibility[cat])
		}
		if len(cats) > 0 {
			row = append(row, c.AccessibilityTotal)
		}
		rows = append(rows, row)
	}
	return rows
}

func (r Report) categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, c := range r.Candidates {
		for k := range c.Accessibility {
			if !seen[k] {
				seen[k] = true
				cats = append(cats, k)
			}
		}
	}
	sort.Strings(cats)
	return cats
}
