// Package config loads the run configuration of a backtest from a YAML file,
// with selected overrides taken from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/TheodoreKrypton/pytrade/pkg/series"
)

const (
	envDataSource     = "PYTRADE_DATA_SOURCE"
	envInitialBalance = "PYTRADE_INITIAL_BALANCE"
	envJournal        = "PYTRADE_JOURNAL"
)

type Config struct {
	InitialBalance    float64 `yaml:"initial_balance"`
	Leverage          float64 `yaml:"leverage"`
	Point             float64 `yaml:"point"`
	NearestSLDistance int     `yaml:"nearest_sl"`
	CloseAtEnd        bool    `yaml:"close_at_end"`

	// DataSource is the price series file; the loader is picked by its
	// extension (csv, duckdb or bin).
	DataSource string `yaml:"data_source"`

	// Journal is the optional path of the SQLite trade journal.
	Journal string `yaml:"journal"`

	CSV series.CSVLayout `yaml:"csv"`

	DuckDB struct {
		Table string `yaml:"table"`
	} `yaml:"duckdb"`
}

// Load reads the configuration file and applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config %q: %w", path, err)
	}

	cfg := &Config{
		InitialBalance: 10000,
		Leverage:       1,
		Point:          0.0001,
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config %q: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return cfg, nil
}

func (cfg *Config) applyEnv() error {
	if v := os.Getenv(envDataSource); v != "" {
		cfg.DataSource = v
	}
	if v := os.Getenv(envJournal); v != "" {
		cfg.Journal = v
	}
	if v := os.Getenv(envInitialBalance); v != "" {
		balance, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envInitialBalance, err)
		}
		cfg.InitialBalance = balance
	}
	return nil
}

func (cfg *Config) validate() error {
	if cfg.DataSource == "" {
		return fmt.Errorf("data_source is required")
	}
	if cfg.InitialBalance <= 0 {
		return fmt.Errorf("initial_balance must be positive")
	}
	if cfg.Point <= 0 {
		return fmt.Errorf("point must be positive")
	}
	if cfg.NearestSLDistance < 0 {
		return fmt.Errorf("nearest_sl must not be negative")
	}
	return nil
}
