package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// FileName is the config file at the root of a data repository.
const FileName = "tally.yaml"

// Storage backends.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

var validBackends = []string{BackendCSV, BackendSQLite}

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Config represents the top-level tally.yaml configuration.
type Config struct {
	Profile ProfileConfig `yaml:"profile"`
	Storage StorageConfig `yaml:"storage"`
	Finance FinanceConfig `yaml:"finance"`
	Logging LoggingConfig `yaml:"logging"`
	Git     GitConfig     `yaml:"git"`
}

// ProfileConfig names the household the repository belongs to.
type ProfileConfig struct {
	Name string `yaml:"name"`
}

// StorageConfig selects where entries are kept.
type StorageConfig struct {
	Backend    string `yaml:"backend"`     // csv or sqlite
	SQLitePath string `yaml:"sqlite_path"` // relative to the repo root
}

// FinanceConfig holds the scalars the calculations take from outside the data.
type FinanceConfig struct {
	AssumedMonthlyIncome float64 `yaml:"assumed_monthly_income"`
	ExtraPayment         float64 `yaml:"extra_payment"`
	TargetMonths         int     `yaml:"target_months"`
	ProjectionYears      int     `yaml:"projection_years"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// AssumedIncome returns the configured income as a decimal.
func (f FinanceConfig) AssumedIncome() decimal.Decimal {
	return decimal.NewFromFloat(f.AssumedMonthlyIncome)
}

// Extra returns the configured extra payment as a decimal.
func (f FinanceConfig) Extra() decimal.Decimal {
	return decimal.NewFromFloat(f.ExtraPayment)
}

// Load reads a tally.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new repository.
func Default(name string) *Config {
	return &Config{
		Profile: ProfileConfig{Name: name},
		Storage: StorageConfig{
			Backend:    BackendCSV,
			SQLitePath: filepath.Join("data", "tally.db"),
		},
		Finance: FinanceConfig{
			TargetMonths:    36,
			ProjectionYears: 15,
		},
		Logging: LoggingConfig{Level: "warn"},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "tally",
			AuthorEmail: "tally@localhost",
		},
	}
}

// LoadRepo reads <root>/tally.yaml, then applies <root>/.env and the process
// environment on top. Variables already set in the environment win over .env.
func LoadRepo(root string) (*Config, error) {
	cfg, err := Load(filepath.Join(root, FileName))
	if err != nil {
		return nil, err
	}
	if err := godotenv.Load(filepath.Join(root, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from TALLY_* variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("TALLY_STORAGE_BACKEND"); ok && v != "" {
		c.Storage.Backend = strings.ToLower(v)
	}
	if v, ok := lookup("TALLY_SQLITE_PATH"); ok && v != "" {
		c.Storage.SQLitePath = v
	}
	if v, ok := lookup("TALLY_LOG_LEVEL"); ok && v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v, ok := lookup("TALLY_ASSUMED_MONTHLY_INCOME"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parsing TALLY_ASSUMED_MONTHLY_INCOME %q: %w", v, err)
		}
		c.Finance.AssumedMonthlyIncome = f
	}
	if v, ok := lookup("TALLY_EXTRA_PAYMENT"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parsing TALLY_EXTRA_PAYMENT %q: %w", v, err)
		}
		c.Finance.ExtraPayment = f
	}
	return nil
}

// SQLitePath resolves the database path against the repo root.
func (c *Config) SQLitePath(root string) string {
	if filepath.IsAbs(c.Storage.SQLitePath) {
		return c.Storage.SQLitePath
	}
	return filepath.Join(root, c.Storage.SQLitePath)
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var problems []string

	if !slices.Contains(validBackends, c.Storage.Backend) {
		problems = append(problems, fmt.Sprintf("invalid storage backend %q: must be one of %v", c.Storage.Backend, validBackends))
	}
	if c.Storage.Backend == BackendSQLite && c.Storage.SQLitePath == "" {
		problems = append(problems, "sqlite_path cannot be empty when using the sqlite backend")
	}
	if c.Finance.AssumedMonthlyIncome < 0 {
		problems = append(problems, "assumed_monthly_income cannot be negative")
	}
	if c.Finance.ExtraPayment < 0 {
		problems = append(problems, "extra_payment cannot be negative")
	}
	if c.Finance.TargetMonths < 0 {
		problems = append(problems, "target_months cannot be negative")
	}
	if c.Finance.ProjectionYears < 0 {
		problems = append(problems, "projection_years cannot be negative")
	}
	if c.Logging.Level != "" && !slices.Contains(validLogLevels, c.Logging.Level) {
		problems = append(problems, fmt.Sprintf("invalid log level %q: must be one of %v", c.Logging.Level, validLogLevels))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}
