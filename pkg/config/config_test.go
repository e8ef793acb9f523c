package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
initial_balance: 50000
leverage: 100
point: 0.0001
nearest_sl: 50
close_at_end: true
data_source: data/eurusd.csv
journal: trades.db
csv:
  open: 1
  high: 2
  low: 3
  close: 4
  begin_at_row: 1
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 50000.0, cfg.InitialBalance)
	assert.Equal(t, 100.0, cfg.Leverage)
	assert.Equal(t, 0.0001, cfg.Point)
	assert.Equal(t, 50, cfg.NearestSLDistance)
	assert.True(t, cfg.CloseAtEnd)
	assert.Equal(t, "data/eurusd.csv", cfg.DataSource)
	assert.Equal(t, "trades.db", cfg.Journal)
	assert.Equal(t, 4, cfg.CSV.CloseColumn)
	assert.Equal(t, 1, cfg.CSV.BeginRow)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "data_source: bars.csv\n"))
	require.NoError(t, err)

	assert.Equal(t, 10000.0, cfg.InitialBalance)
	assert.Equal(t, 1.0, cfg.Leverage)
	assert.Equal(t, 0.0001, cfg.Point)
	assert.False(t, cfg.CloseAtEnd)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(envDataSource, "override.csv")
	t.Setenv(envInitialBalance, "123.45")

	cfg, err := Load(writeConfig(t, "data_source: bars.csv\n"))
	require.NoError(t, err)

	assert.Equal(t, "override.csv", cfg.DataSource)
	assert.Equal(t, 123.45, cfg.InitialBalance)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing data source", "initial_balance: 1000\n"},
		{"negative balance", "data_source: a.csv\ninitial_balance: -5\n"},
		{"zero point", "data_source: a.csv\npoint: 0\n"},
		{"negative stop distance", "data_source: a.csv\nnearest_sl: -1\n"},
		{"malformed yaml", "data_source: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}
