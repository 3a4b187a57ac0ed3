package accessibility

import (
	"fmt"
	"strings"
)

// Answer scales of the onboarding questionnaire.
const (
	UseRarely    = "rarely"    // 0-1 days a week
	UseSometimes = "sometimes" // 2-3 days a week
	UseOften     = "often"     // 4-5 days a week
	UseAlways    = "always"    // 6-7 days a week

	HealthEmergencies = "emergencies"
	HealthCheckups    = "checkups"
	HealthCaregiver   = "caregiver"
	HealthRecurring   = "recurring"
)

var weeklyUse = map[string]float64{
	UseRarely:    0.5 / 7,
	UseSometimes: 2.5 / 7,
	UseOften:     4.5 / 7,
	UseAlways:    6.5 / 7,
}

var healthUse = map[string]float64{
	HealthEmergencies: 0.2,
	HealthCheckups:    0.6,
	HealthCaregiver:   0.8,
	HealthRecurring:   1.0,
}

// Answers are the categorical travel questions a user fills in.
// EducationWeight in [0,1] trades school quality (0) against school
// proximity (1).
type Answers struct {
	CarUse          string        `json:"car_use"`
	SportUse        string        `json:"sport_use"`
	HealthUse       string        `json:"health_use"`
	HasChildren     bool          `json:"has_children"`
	SchoolVariant   SchoolVariant `json:"school_variant,omitempty"`
	EducationLevels []string      `json:"education_levels,omitempty"`
	EducationWeight float64       `json:"education_weight"`
}

// BaseVisits are monthly visit counts before the answers scale them.
type BaseVisits struct {
	Supermarket float64 `yaml:"supermarket" json:"supermarket"`
	Fuel        float64 `yaml:"fuel" json:"fuel"`
	Sport       float64 `yaml:"sport" json:"sport"`
	GP          float64 `yaml:"gp" json:"gp"`
	Pharmacy    float64 `yaml:"pharmacy" json:"pharmacy"`
	Education   float64 `yaml:"education" json:"education"`
}

func DefaultBaseVisits() BaseVisits {
	return BaseVisits{Supermarket: 8, Fuel: 2, Sport: 4, GP: 0.25, Pharmacy: 1, Education: 2}
}

// ProfileFromAnswers maps questionnaire answers to a travel profile. Car use
// sets the car share, sport and health answers scale their categories, and
// the education weight scales school trips.
func ProfileFromAnswers(a Answers, base BaseVisits) (Profile, error) {
	car, err := lookup(weeklyUse, a.CarUse, "car use")
	if err != nil {
		return Profile{}, err
	}
	sport, err := lookup(weeklyUse, a.SportUse, "sport use")
	if err != nil {
		return Profile{}, err
	}
	health, err := lookup(healthUse, a.HealthUse, "health use")
	if err != nil {
		return Profile{}, err
	}

	p := Profile{
		CarShare: car,
		Frequencies: map[string]float64{
			Supermarket: base.Supermarket,
			Fuel:        base.Fuel,
			Sport:       base.Sport * sport,
			GP:          base.GP * health,
			Pharmacy:    base.Pharmacy * health,
		},
		HasChildren: a.HasChildren,
	}
	if a.HasChildren {
		p.SchoolVariant = a.SchoolVariant
		if p.SchoolVariant == "" {
			p.SchoolVariant = PublicOnly
		}
		p.EducationLevels = append([]string(nil), a.EducationLevels...)
		p.EducationVisits = base.Education * clamp01(a.EducationWeight)
	}
	return p, nil
}

func lookup(table map[string]float64, answer, question string) (float64, error) {
	v, ok := table[strings.ToLower(strings.TrimSpace(answer))]
	if !ok {
		return 0, fmt.Errorf("%w: unknown %s answer %q", ErrInvalidProfile, question, answer)
	}
	return v, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
