// Package accessibility turns per-service travel times into the hours a
// household would spend travelling from each candidate location.
package accessibility

import (
	"errors"
	"fmt"
	"math"

	"github.com/MikeSquared-Agency/Locus/internal/store"
)

// Profile describes how a household travels. Frequencies are visits per
// month keyed by service; Compute converts them to the catalog period.
type Profile struct {
	CarShare        float64            `json:"car_share"`
	Frequencies     map[string]float64 `json:"frequencies"`
	HasChildren     bool               `json:"has_children"`
	SchoolVariant   SchoolVariant      `json:"school_variant,omitempty"`
	EducationLevels []string           `json:"education_levels,omitempty"`
	EducationVisits float64            `json:"education_visits"`
}

// Result is the travel time of one candidate for the catalog period.
type Result struct {
	Code      string             `json:"code"`
	Period    Period             `json:"period"`
	Total     float64            `json:"total"`
	Breakdown map[string]float64 `json:"breakdown"`
}

// MissingColumnError reports a candidate without a travel-time column a
// non-zero frequency depends on.
type MissingColumnError struct {
	Code   string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("candidate %s: missing travel time %q", e.Code, e.Column)
}

// UnknownLevelError reports an education stage the catalog does not list.
type UnknownLevelError struct {
	Level string
}

func (e *UnknownLevelError) Error() string {
	return fmt.Sprintf("unknown education level %q", e.Level)
}

var ErrInvalidProfile = errors.New("invalid travel profile")

type task struct {
	svc    Service
	visits float64
}

// Compute returns travel hours per candidate, in input order. For each
// category hours = visits * 2 * blended / 60 where blended mixes car and
// transit minutes by CarShare. Categories with zero visits contribute 0
// without reading their columns.
func Compute(cands []store.Candidate, catalog Catalog, profile Profile) ([]Result, error) {
	tasks, err := plan(catalog, profile)
	if err != nil {
		return nil, err
	}
	period := catalog.Period
	if period == "" {
		period = Monthly
	}
	scale := period.perMonth()

	results := make([]Result, len(cands))
	for i, c := range cands {
		r := Result{Code: c.Code, Period: period, Breakdown: make(map[string]float64, len(tasks))}
		for _, t := range tasks {
			hours := 0.0
			if t.visits > 0 {
				mins, err := blended(c, t.svc, profile.CarShare)
				if err != nil {
					return nil, err
				}
				hours = t.visits * scale * (2 * mins) / 60
			}
			r.Breakdown[t.svc.Key] += hours
			r.Total += hours
		}
		results[i] = r
	}
	return results, nil
}

// plan resolves the profile against the catalog into per-category visit
// counts.
func plan(catalog Catalog, p Profile) ([]task, error) {
	if math.IsNaN(p.CarShare) || p.CarShare < 0 || p.CarShare > 1 {
		return nil, fmt.Errorf("%w: car share %v outside [0,1]", ErrInvalidProfile, p.CarShare)
	}

	var tasks []task
	for _, svc := range catalog.Services {
		visits := p.Frequencies[svc.Key]
		if visits < 0 || math.IsNaN(visits) || math.IsInf(visits, 0) {
			return nil, fmt.Errorf("%w: frequency %v for %s", ErrInvalidProfile, visits, svc.Key)
		}
		if svc.ScaleByCarShare {
			visits *= p.CarShare
		}
		tasks = append(tasks, task{svc: svc, visits: visits})
	}

	if !p.HasChildren || len(p.EducationLevels) == 0 {
		return tasks, nil
	}
	if p.EducationVisits < 0 || math.IsNaN(p.EducationVisits) {
		return nil, fmt.Errorf("%w: education frequency %v", ErrInvalidProfile, p.EducationVisits)
	}
	if p.SchoolVariant != PublicOnly && p.SchoolVariant != PublicPrivate {
		return nil, fmt.Errorf("%w: school variant %q", ErrInvalidProfile, p.SchoolVariant)
	}
	perLevel := p.EducationVisits / float64(len(p.EducationLevels))
	for _, name := range p.EducationLevels {
		lvl, ok := catalog.level(name)
		if !ok {
			return nil, &UnknownLevelError{Level: name}
		}
		svc := lvl.Public
		if p.SchoolVariant == PublicPrivate {
			svc = lvl.PubPriv
		}
		tasks = append(tasks, task{svc: svc, visits: perLevel})
	}
	return tasks, nil
}

func blended(c store.Candidate, svc Service, carShare float64) (float64, error) {
	car, ok := c.Attribute(svc.CarColumn)
	if !ok {
		return 0, &MissingColumnError{Code: c.Code, Column: svc.CarColumn}
	}
	transit, ok := c.Attribute(svc.TransitColumn)
	if !ok {
		transit = car
	}
	return carShare*car + (1-carShare)*transit, nil
}

// Annotate copies the candidates and stores each total under column, with
// the per-category breakdown alongside.
func Annotate(cands []store.Candidate, results []Result, column string) ([]store.Candidate, error) {
	byCode := make(map[string]Result, len(results))
	for _, r := range results {
		byCode[r.Code] = r
	}

	out := store.CloneAll(cands)
	for i := range out {
		r, ok := byCode[out[i].Code]
		if !ok {
			return nil, fmt.Errorf("no accessibility result for candidate %s", out[i].Code)
		}
		if out[i].Attributes == nil {
			out[i].Attributes = make(map[string]float64)
		}
		out[i].Attributes[column] = r.Total
		out[i].AccessibilityTotal = r.Total
		out[i].Accessibility = make(map[string]float64, len(r.Breakdown))
		for k, v := range r.Breakdown {
			out[i].Accessibility[k] = v
		}
	}
	return out, nil
}
