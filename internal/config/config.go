package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Locus/internal/accessibility"
	"github.com/MikeSquared-Agency/Locus/internal/ahp"
	"github.com/MikeSquared-Agency/Locus/internal/scoring"
)

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Store         StoreConfig         `yaml:"store"`
	Hermes        HermesConfig        `yaml:"hermes"`
	Scoring       ScoringConfig       `yaml:"scoring"`
	Accessibility AccessibilityConfig `yaml:"accessibility"`
	Logging       LoggingConfig       `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
	RateLimit   int    `yaml:"rate_limit"`
}

// Store drivers.
const (
	DriverCSV      = "csv"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type StoreConfig struct {
	Driver     string `yaml:"driver"`
	URL        string `yaml:"url"`
	Path       string `yaml:"path"`
	CodeColumn string `yaml:"code_column"`
	NameColumn string `yaml:"name_column"`
	Separator  string `yaml:"separator"`
}

type HermesConfig struct {
	URL          string `yaml:"url"`
	ClientName   string `yaml:"client_name"`
	StreamMaxAge string `yaml:"stream_max_age"`
}

// MaxAge parses the event stream retention.
func (h HermesConfig) MaxAge() (time.Duration, error) {
	d, err := time.ParseDuration(h.StreamMaxAge)
	if err != nil {
		return 0, fmt.Errorf("hermes.stream_max_age: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("hermes.stream_max_age must be positive")
	}
	return d, nil
}

type ScoringConfig struct {
	Criteria             []scoring.Criterion        `yaml:"criteria"`
	ConsistencyThreshold float64                    `yaml:"consistency_threshold"`
	DefaultMode          string                     `yaml:"default_mode"`
	ImportanceScale      int                        `yaml:"importance_scale"`
	ParetoEnabled        bool                       `yaml:"pareto_enabled"`
	PopulationColumn     string                     `yaml:"population_column"`
	Sensitivity          scoring.SensitivityOptions `yaml:"sensitivity"`
	MaxResults           int                        `yaml:"max_results"`
}

type AccessibilityConfig struct {
	Period     string                         `yaml:"period"`
	Column     string                         `yaml:"column"`
	Services   []accessibility.Service        `yaml:"services"`
	Education  []accessibility.EducationLevel `yaml:"education"`
	BaseVisits accessibility.BaseVisits       `yaml:"base_visits"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Catalog builds the travel catalog for the configured period.
func (a AccessibilityConfig) Catalog() (accessibility.Catalog, error) {
	period, err := accessibility.ParsePeriod(a.Period)
	if err != nil {
		return accessibility.Catalog{}, err
	}
	return accessibility.Catalog{Period: period, Services: a.Services, Education: a.Education}, nil
}

// CSVComma returns the dataset separator rune, ',' when unset.
func (s StoreConfig) CSVComma() rune {
	for _, r := range s.Separator {
		return r
	}
	return ','
}

func defaults() *Config {
	catalog := accessibility.DefaultCatalog()
	return &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
			RateLimit:   120,
		},
		Store: StoreConfig{
			Driver:     DriverCSV,
			Path:       "data/municipalities.csv",
			CodeColumn: "codigo",
			NameColumn: "Nombre",
			Separator:  ",",
		},
		Hermes: HermesConfig{
			URL:          "nats://localhost:4222",
			ClientName:   "locus",
			StreamMaxAge: "720h",
		},
		Scoring: ScoringConfig{
			Criteria:             scoring.DefaultCriteria(),
			ConsistencyThreshold: ahp.DefaultThreshold,
			DefaultMode:          string(ahp.ModeRanking),
			ImportanceScale:      10,
			ParetoEnabled:        false,
			PopulationColumn:     "IDE_PoblacionTotal",
			Sensitivity:          scoring.DefaultSensitivityOptions(),
			MaxResults:           50,
		},
		Accessibility: AccessibilityConfig{
			Period:     string(catalog.Period),
			Column:     scoring.DefaultAccessibilityColumn,
			Services:   catalog.Services,
			Education:  catalog.Education,
			BaseVisits: accessibility.DefaultBaseVisits(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate rejects settings the ranking service cannot run with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverCSV, DriverSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for driver %s", c.Store.Driver)
		}
	case DriverPostgres:
		if c.Store.URL == "" {
			return fmt.Errorf("store.url is required for driver postgres")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Hermes.URL != "" {
		if _, err := c.Hermes.MaxAge(); err != nil {
			return err
		}
	}
	if err := scoring.ValidateCriteria(c.Scoring.Criteria); err != nil {
		return err
	}
	if c.Scoring.ConsistencyThreshold <= 0 {
		return fmt.Errorf("scoring.consistency_threshold must be positive")
	}
	if _, err := ahp.ParseMode(c.Scoring.DefaultMode); err != nil {
		return err
	}
	if c.Scoring.ImportanceScale < 1 {
		return fmt.Errorf("scoring.importance_scale must be at least 1")
	}
	if _, err := c.Accessibility.Catalog(); err != nil {
		return err
	}
	if c.Accessibility.Column == "" {
		return fmt.Errorf("accessibility.column is required")
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("LOCUS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("LOCUS_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("LOCUS_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("LOCUS_STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("LOCUS_DATABASE_URL"); v != "" {
		cfg.Store.URL = v
	}
	if v := os.Getenv("LOCUS_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("LOCUS_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("LOCUS_HERMES_STREAM_MAX_AGE"); v != "" {
		cfg.Hermes.StreamMaxAge = v
	}
	if v := os.Getenv("LOCUS_CONSISTENCY_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Scoring.ConsistencyThreshold = f
		}
	}
	if v := os.Getenv("LOCUS_PARETO_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Scoring.ParetoEnabled = b
		}
	}
	if v := os.Getenv("LOCUS_ACCESSIBILITY_PERIOD"); v != "" {
		cfg.Accessibility.Period = v
	}
	if v := os.Getenv("LOCUS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOCUS_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
