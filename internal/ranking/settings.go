package ranking

import (
	"github.com/MikeSquared-Agency/Locus/internal/accessibility"
	"github.com/MikeSquared-Agency/Locus/internal/ahp"
	"github.com/MikeSquared-Agency/Locus/internal/config"
	"github.com/MikeSquared-Agency/Locus/internal/scoring"
)

// Settings are the scoring and travel parameters a Service runs with.
type Settings struct {
	Criteria            []scoring.Criterion
	Threshold           float64
	DefaultMode         ahp.Mode
	ImportanceScale     int
	ParetoEnabled       bool
	PopulationColumn    string
	Sensitivity         scoring.SensitivityOptions
	MaxResults          int
	Catalog             accessibility.Catalog
	AccessibilityColumn string
	BaseVisits          accessibility.BaseVisits
}

// SettingsFromConfig resolves the scoring and accessibility sections.
func SettingsFromConfig(cfg *config.Config) (Settings, error) {
	mode, err := ahp.ParseMode(cfg.Scoring.DefaultMode)
	if err != nil {
		return Settings{}, err
	}
	catalog, err := cfg.Accessibility.Catalog()
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		Criteria:            cfg.Scoring.Criteria,
		Threshold:           cfg.Scoring.ConsistencyThreshold,
		DefaultMode:         mode,
		ImportanceScale:     cfg.Scoring.ImportanceScale,
		ParetoEnabled:       cfg.Scoring.ParetoEnabled,
		PopulationColumn:    cfg.Scoring.PopulationColumn,
		Sensitivity:         cfg.Scoring.Sensitivity,
		MaxResults:          cfg.Scoring.MaxResults,
		Catalog:             catalog,
		AccessibilityColumn: cfg.Accessibility.Column,
		BaseVisits:          cfg.Accessibility.BaseVisits,
	}, nil
}

// DefaultSettings mirrors the default configuration.
func DefaultSettings() Settings {
	return Settings{
		Criteria:            scoring.DefaultCriteria(),
		Threshold:           ahp.DefaultThreshold,
		DefaultMode:         ahp.ModeRanking,
		ImportanceScale:     10,
		PopulationColumn:    "IDE_PoblacionTotal",
		Sensitivity:         scoring.DefaultSensitivityOptions(),
		MaxResults:          50,
		Catalog:             accessibility.DefaultCatalog(),
		AccessibilityColumn: scoring.DefaultAccessibilityColumn,
		BaseVisits:          accessibility.DefaultBaseVisits(),
	}
}

// usesAccessibility reports whether any criterion reads the derived travel
// column.
func (s Settings) usesAccessibility() bool {
	for _, c := range s.Criteria {
		if c.Column == s.AccessibilityColumn {
			return true
		}
	}
	return false
}
