package scoring

import (
	"fmt"
	"sort"
	"strings"
)

// Orientation says whether larger raw values are better (benefit) or worse
// (cost) for a criterion.
type Orientation string

const (
	Benefit Orientation = "benefit"
	Cost    Orientation = "cost"
)

// ParseOrientation accepts "benefit" or "cost" in any case.
func ParseOrientation(s string) (Orientation, error) {
	switch Orientation(strings.ToLower(strings.TrimSpace(s))) {
	case Benefit:
		return Benefit, nil
	case Cost:
		return Cost, nil
	}
	return "", fmt.Errorf("unknown orientation %q", s)
}

// Criterion binds a decision criterion to the dataset column it is read from.
type Criterion struct {
	ID          string      `yaml:"id" json:"id"`
	Column      string      `yaml:"column" json:"column"`
	Orientation Orientation `yaml:"orientation" json:"orientation"`
	Label       string      `yaml:"label,omitempty" json:"label,omitempty"`
}

// Criterion IDs of the default Madrid dataset.
const (
	CriterionAccessibility  = "accessibility"
	CriterionEducation      = "education_quality"
	CriterionAir            = "air_quality"
	CriterionBuilding       = "building_quality"
	CriterionTransportInfra = "transport_infra_quality"
	CriterionEconomic       = "economic_dynamism"
	CriterionHousePrice     = "house_price_sqm"
)

// DefaultAccessibilityColumn receives the derived travel hours.
const DefaultAccessibilityColumn = "accessibility_hours"

// DefaultCriteria returns the seven criteria in matrix order.
func DefaultCriteria() []Criterion {
	return []Criterion{
		{ID: CriterionAccessibility, Column: DefaultAccessibilityColumn, Orientation: Cost, Label: "Time saved on everyday travel"},
		{ID: CriterionEducation, Column: "ATR_ServiciosDeEducacion_ClusterEstadistica", Orientation: Benefit, Label: "Education quality"},
		{ID: CriterionAir, Column: "ATR_CalidadDelAire_ClusterEstadistica", Orientation: Benefit, Label: "Air and environment quality"},
		{ID: CriterionBuilding, Column: "ATR_AtractividadDeLosInmuebles_ClusterEstadistica", Orientation: Benefit, Label: "Housing attractiveness"},
		{ID: CriterionTransportInfra, Column: "ATR_AtractividadDeLasInfraestructurasDeTransporte_ClusterEstadistica", Orientation: Benefit, Label: "Transport infrastructure"},
		{ID: CriterionEconomic, Column: "ATR_DinamismosEconomico_ClusterEstadistica", Orientation: Benefit, Label: "Economic dynamism"},
		{ID: CriterionHousePrice, Column: "IDE_PrecioPorMetroCuadrado", Orientation: Cost, Label: "House price per m²"},
	}
}

// Mapping describes criteria as column maps plus the derived accessibility
// column, the shape dataset catalogs are usually written in.
type Mapping struct {
	Benefit             map[string]string
	Cost                map[string]string
	AccessibilityColumn string
}

// Criteria expands the mapping into an ordered criterion list: accessibility
// first (when set), then benefits and costs each sorted by ID.
func (m Mapping) Criteria() []Criterion {
	var out []Criterion
	if m.AccessibilityColumn != "" {
		out = append(out, Criterion{ID: CriterionAccessibility, Column: m.AccessibilityColumn, Orientation: Cost})
	}
	out = append(out, fromColumns(m.Benefit, Benefit)...)
	out = append(out, fromColumns(m.Cost, Cost)...)
	return out
}

func fromColumns(cols map[string]string, o Orientation) []Criterion {
	ids := make([]string, 0, len(cols))
	for id := range cols {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Criterion, 0, len(ids))
	for _, id := range ids {
		out = append(out, Criterion{ID: id, Column: cols[id], Orientation: o})
	}
	return out
}

// CriterionIDs returns the IDs in list order.
func CriterionIDs(criteria []Criterion) []string {
	ids := make([]string, len(criteria))
	for i, c := range criteria {
		ids[i] = c.ID
	}
	return ids
}

// ValidateCriteria rejects empty or duplicate IDs, missing columns and
// unknown orientations.
func ValidateCriteria(criteria []Criterion) error {
	if len(criteria) == 0 {
		return fmt.Errorf("no criteria configured")
	}
	seen := make(map[string]bool, len(criteria))
	for i, c := range criteria {
		if c.ID == "" {
			return fmt.Errorf("criterion %d: empty id", i)
		}
		if seen[c.ID] {
			return fmt.Errorf("criterion %q: duplicate id", c.ID)
		}
		seen[c.ID] = true
		if c.Column == "" {
			return fmt.Errorf("criterion %q: empty column", c.ID)
		}
		if c.Orientation != Benefit && c.Orientation != Cost {
			return fmt.Errorf("criterion %q: unknown orientation %q", c.ID, c.Orientation)
		}
	}
	return nil
}
