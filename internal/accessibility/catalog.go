package accessibility

import (
	"fmt"
	"strings"
)

// Service categories of the default catalog.
const (
	Supermarket = "supermarket"
	Fuel        = "fuel"
	Sport       = "sport"
	GP          = "gp"
	Pharmacy    = "pharmacy"
)

// Education levels of the default catalog, youngest first.
const (
	LevelPreinfantil = "preinfantil"
	LevelInfantil    = "infantil"
	LevelPrimaria    = "primaria"
	LevelSecundaria  = "secundaria"
)

// Period is the time window travel hours are reported for.
type Period string

const (
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
)

// ParsePeriod accepts "weekly" or "monthly" in any case. Empty means monthly.
func ParsePeriod(s string) (Period, error) {
	switch Period(strings.ToLower(strings.TrimSpace(s))) {
	case "", Monthly:
		return Monthly, nil
	case Weekly:
		return Weekly, nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// perMonth converts monthly visit counts into visits for the period.
func (p Period) perMonth() float64 {
	if p == Weekly {
		return 12.0 / 52.0
	}
	return 1
}

// SchoolVariant selects which school network the education columns cover.
type SchoolVariant string

const (
	PublicOnly    SchoolVariant = "public"
	PublicPrivate SchoolVariant = "pubpriv"
)

// Service binds a category to its one-way travel-time columns (minutes).
// A missing transit column falls back to the car column.
type Service struct {
	Key             string `yaml:"key" json:"key"`
	CarColumn       string `yaml:"car_column" json:"car_column"`
	TransitColumn   string `yaml:"transit_column" json:"transit_column"`
	ScaleByCarShare bool   `yaml:"scale_by_car_share" json:"scale_by_car_share"`
}

// EducationLevel holds the travel-time columns of one school stage for each
// network.
type EducationLevel struct {
	Level   string  `yaml:"level" json:"level"`
	Public  Service `yaml:"public" json:"public"`
	PubPriv Service `yaml:"pubpriv" json:"pubpriv"`
}

// Catalog lists every category the aggregator knows about.
type Catalog struct {
	Period    Period           `yaml:"period" json:"period"`
	Services  []Service        `yaml:"services" json:"services"`
	Education []EducationLevel `yaml:"education" json:"education"`
}

// level looks an education stage up case-insensitively.
func (c Catalog) level(name string) (EducationLevel, bool) {
	for _, l := range c.Education {
		if strings.EqualFold(l.Level, name) {
			return l, true
		}
	}
	return EducationLevel{}, false
}

// Levels returns the known education stage names.
func (c Catalog) Levels() []string {
	out := make([]string, len(c.Education))
	for i, l := range c.Education {
		out[i] = l.Level
	}
	return out
}

// DefaultCatalog returns the Madrid dataset columns.
func DefaultCatalog() Catalog {
	return Catalog{
		Period: Monthly,
		Services: []Service{
			{Key: Supermarket, CarColumn: "OSM_supermercados_tiempo_coche", TransitColumn: "OSM_supermercados_tiempo_TransportePublico"},
			{Key: Fuel, CarColumn: "ACC_gasolineras_tiempo_coche", TransitColumn: "ACC_gasolineras_tiempo_coche", ScaleByCarShare: true},
			{Key: Sport, CarColumn: "ACC_deporte_tiempo_coche", TransitColumn: "ACC_deporte_tiempo_TransportePublico"},
			{Key: GP, CarColumn: "ACC_sanidad_tiempo_coche_OfertaAsistencial_MedicinaGeneralDeFamilia", TransitColumn: "ACC_sanidad_tiempo_TransportePublico_OfertaAsistencial_MedicinaGeneralDeFamilia"},
			{Key: Pharmacy, CarColumn: "ACC_farmacias_tiempo_coche", TransitColumn: "ACC_farmacias_tiempo_TransportePublico"},
		},
		Education: []EducationLevel{
			educationLevel(LevelPreinfantil, "Preinfantil"),
			educationLevel(LevelInfantil, "Infantil"),
			educationLevel(LevelPrimaria, "Primaria"),
			educationLevel(LevelSecundaria, "Secundaria"),
		},
	}
}

func educationLevel(level, stage string) EducationLevel {
	col := func(mode, network string) string {
		return "ACC_educacion_tiempo_" + mode + "_" + stage + "_" + network
	}
	l := EducationLevel{
		Level:   level,
		Public:  Service{Key: "edu_" + level, CarColumn: col("coche", "Publicos"), TransitColumn: col("TransportePublico", "Publicos")},
		PubPriv: Service{Key: "edu_" + level, CarColumn: col("coche", "PublicosPrivados"), TransitColumn: col("TransportePublico", "PublicosPrivados")},
	}
	// The dataset has no car column for private nurseries.
	if level == LevelPreinfantil {
		l.PubPriv.CarColumn = col("coche", "Publicos")
	}
	return l
}
