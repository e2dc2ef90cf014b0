package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultKind          = "csv"
	DefaultYear          = 2022
	DefaultBRTMode       = "RB"
	DefaultBRTStatus     = "Active"
	DefaultRailMode      = "HR"
	DefaultInflationRate = 0.03
	DefaultDependent     = "opex"
)

// Kinds of data source.
const (
	CSV        = "csv"
	ClickHouse = "clickhouse"
	Postgres   = "postgres"
	SQLite     = "sqlite"
)

// Config is the full run configuration.
type Config struct {
	Source SourceConfig `yaml:"source"`

	// Year is the NTD reporting year the analysis uses.
	Year int `yaml:"year"`

	BRT  BRTConfig  `yaml:"brt"`
	Rail RailConfig `yaml:"rail"`

	// PeerCities restricts the peer averages to services in these cities.
	PeerCities []string `yaml:"peer_cities"`

	Inflation  InflationConfig  `yaml:"inflation"`
	Estimates  []Estimate       `yaml:"estimates"`
	Regression RegressionConfig `yaml:"regression"`
}

// SourceConfig says where the three extracts come from.
type SourceConfig struct {
	// Kind is one of: csv | clickhouse | postgres | sqlite.
	Kind string `yaml:"kind"`

	// CSV paths, used when Kind == "csv". Relative paths are relative to the config file.
	Service string `yaml:"service"`
	Expense string `yaml:"expense"`
	Train   string `yaml:"train"`

	// Database fields, used otherwise. DSNEnv names an environment variable holding the DSN
	// and takes precedence over DSN when it is set and not empty.
	DSN     string      `yaml:"dsn"`
	DSNEnv  string      `yaml:"dsn_env"`
	Queries QueryConfig `yaml:"queries"`
}

// QueryConfig holds the query returning each extract.
type QueryConfig struct {
	Service string `yaml:"service"`
	Expense string `yaml:"expense"`
	Train   string `yaml:"train"`
}

// ResolveDSN returns the value of the DSNEnv variable when it is set and not empty, and DSN otherwise.
func (s SourceConfig) ResolveDSN() string {
	if s.DSNEnv != "" {
		if v := os.Getenv(s.DSNEnv); v != "" {
			return v
		}
	}

	return s.DSN
}

// BRTConfig selects the bus rapid transit services.
type BRTConfig struct {
	Mode   string `yaml:"mode"`
	Status string `yaml:"status"`
}

// RailConfig selects the rail services of the train economics.
type RailConfig struct {
	Mode string `yaml:"mode"`
}

// InflationConfig holds the constant annual rate used to move estimates to the base year.
type InflationConfig struct {
	Rate float64 `yaml:"rate"`
}

// Estimate is a published cost estimate for a proposed service.
type Estimate struct {
	Name string `yaml:"name"`

	// AnnualCost is in year-of-expenditure dollars.
	AnnualCost   float64 `yaml:"annual_cost"`
	RevenueHours float64 `yaml:"revenue_hours"`

	// Years separates the year of expenditure from the base year.
	Years float64 `yaml:"years"`
}

// RegressionConfig names the columns of the economics regression.
type RegressionConfig struct {
	Dependent   string   `yaml:"dependent"`
	Independent []string `yaml:"independent"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with defaults.
func Load(path string) (*Config, error) {
	data, e := os.ReadFile(path)
	if e != nil {
		return nil, fmt.Errorf("config: read file: %w", e)
	}

	cfg := defaults()
	if e := yaml.Unmarshal(data, cfg); e != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", e)
	}

	if cfg.Source.Kind == CSV {
		dir := filepath.Dir(path)
		for _, p := range []*string{&cfg.Source.Service, &cfg.Source.Expense, &cfg.Source.Train} {
			if *p != "" && !filepath.IsAbs(*p) {
				*p = filepath.Join(dir, *p)
			}
		}
	}

	if e := validate(cfg); e != nil {
		return nil, fmt.Errorf("config: %w", e)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Source: SourceConfig{Kind: DefaultKind},
		Year:   DefaultYear,
		BRT: BRTConfig{
			Mode:   DefaultBRTMode,
			Status: DefaultBRTStatus,
		},
		Rail:      RailConfig{Mode: DefaultRailMode},
		Inflation: InflationConfig{Rate: DefaultInflationRate},
		Estimates: []Estimate{
			{Name: "Elevated option", AnnualCost: 30249000, RevenueHours: 173000, Years: 11},
		},
		Regression: RegressionConfig{
			Dependent:   DefaultDependent,
			Independent: []string{"train_revenue_hours", "extra_car_revenue_hours"},
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	src := cfg.Source
	switch src.Kind {
	case CSV:
		if src.Service == "" || src.Expense == "" || src.Train == "" {
			return fmt.Errorf("source: service, expense and train paths are required for csv")
		}
	case ClickHouse, Postgres, SQLite:
		if src.DSN == "" && src.DSNEnv == "" {
			return fmt.Errorf("source: dsn or dsn_env is required for %s", src.Kind)
		}
		if src.Queries.Service == "" || src.Queries.Expense == "" || src.Queries.Train == "" {
			return fmt.Errorf("source.queries: service, expense and train are required for %s", src.Kind)
		}
	default:
		return fmt.Errorf("source: unknown kind %q", src.Kind)
	}

	if cfg.Year <= 0 {
		return fmt.Errorf("year must be positive, got %d", cfg.Year)
	}
	if cfg.BRT.Mode == "" || cfg.BRT.Status == "" {
		return fmt.Errorf("brt.mode and brt.status are required")
	}
	if cfg.Rail.Mode == "" {
		return fmt.Errorf("rail.mode is required")
	}
	if cfg.Inflation.Rate <= -1 {
		return fmt.Errorf("inflation.rate must exceed -1")
	}

	for i, est := range cfg.Estimates {
		if est.Name == "" {
			return fmt.Errorf("estimates[%d]: name is required", i)
		}
		if est.AnnualCost <= 0 {
			return fmt.Errorf("estimates[%d] %q: annual_cost must be positive", i, est.Name)
		}
		if est.RevenueHours <= 0 {
			return fmt.Errorf("estimates[%d] %q: revenue_hours must be positive", i, est.Name)
		}
		if est.Years < 0 {
			return fmt.Errorf("estimates[%d] %q: years must not be negative", i, est.Name)
		}
	}

	reg := cfg.Regression
	if reg.Dependent == "" || len(reg.Independent) == 0 {
		return fmt.Errorf("regression: dependent and independent are required")
	}
	if slices.Contains(reg.Independent, reg.Dependent) {
		return fmt.Errorf("regression: %s is both dependent and independent", reg.Dependent)
	}

	return nil
}
