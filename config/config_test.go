package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.Nil(t, os.WriteFile(path, []byte(yaml), 0o600))

	return path
}

func TestLoad_Sample(t *testing.T) {
	cfg, e := Load(filepath.Join("..", "testdata", "config.yaml"))
	require.Nil(t, e)

	assert.Equal(t, CSV, cfg.Source.Kind)
	assert.Equal(t, filepath.Join("..", "testdata", "service.csv"), cfg.Source.Service)
	assert.Equal(t, 2022, cfg.Year)
	assert.Equal(t, []string{"Seattle", "Los Angeles", "San Diego", "Oakland"}, cfg.PeerCities)
	require.Len(t, cfg.Estimates, 2)
	assert.Equal(t, "At-grade option", cfg.Estimates[1].Name)
	assert.Equal(t, 151000.0, cfg.Estimates[1].RevenueHours)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
source:
  service: /data/service.csv
  expense: expense.csv
  train: train.csv
`)
	cfg, e := Load(path)
	require.Nil(t, e)

	assert.Equal(t, DefaultKind, cfg.Source.Kind)
	assert.Equal(t, "/data/service.csv", cfg.Source.Service)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "expense.csv"), cfg.Source.Expense)
	assert.Equal(t, DefaultYear, cfg.Year)
	assert.Equal(t, DefaultBRTMode, cfg.BRT.Mode)
	assert.Equal(t, DefaultBRTStatus, cfg.BRT.Status)
	assert.Equal(t, DefaultRailMode, cfg.Rail.Mode)
	assert.Equal(t, DefaultInflationRate, cfg.Inflation.Rate)
	assert.Equal(t, []Estimate{{Name: "Elevated option", AnnualCost: 30249000, RevenueHours: 173000, Years: 11}},
		cfg.Estimates)
	assert.Equal(t, DefaultDependent, cfg.Regression.Dependent)
	assert.Equal(t, []string{"train_revenue_hours", "extra_car_revenue_hours"}, cfg.Regression.Independent)
	assert.Empty(t, cfg.PeerCities)
}

func TestLoad_Database(t *testing.T) {
	path := writeConfig(t, `
source:
  kind: clickhouse
  dsn_env: TRANSIT_TEST_DSN
  queries:
    service: SELECT * FROM ntd.service
    expense: SELECT * FROM ntd.expense
    train: SELECT * FROM ntd.train
`)
	t.Setenv("TRANSIT_TEST_DSN", "clickhouse://localhost:9000/ntd")

	cfg, e := Load(path)
	require.Nil(t, e)
	assert.Equal(t, ClickHouse, cfg.Source.Kind)
	assert.Equal(t, "clickhouse://localhost:9000/ntd", cfg.Source.ResolveDSN())
	assert.Equal(t, "SELECT * FROM ntd.train", cfg.Source.Queries.Train)

	lit := SourceConfig{DSN: "file.db"}
	assert.Equal(t, "file.db", lit.ResolveDSN())

	// an empty or unset variable falls back to the literal dsn
	t.Setenv("TRANSIT_EMPTY_DSN", "")
	lit.DSNEnv = "TRANSIT_EMPTY_DSN"
	assert.Equal(t, "file.db", lit.ResolveDSN())

	lit.DSNEnv = "TRANSIT_UNSET_DSN_FOR_TEST"
	assert.Equal(t, "file.db", lit.ResolveDSN())

	lit.DSNEnv = "TRANSIT_TEST_DSN"
	assert.Equal(t, "clickhouse://localhost:9000/ntd", lit.ResolveDSN())
}

func TestLoad_Invalid(t *testing.T) {
	csv := "source:\n  service: s.csv\n  expense: e.csv\n  train: t.csv\n"

	// yaml, error fragment
	x := [][]string{
		{"source:\n  kind: oracle\n", "unknown kind"},
		{"source:\n  service: s.csv\n", "paths are required"},
		{"source:\n  kind: postgres\n  queries:\n    service: a\n    expense: b\n    train: c\n", "dsn"},
		{"source:\n  kind: sqlite\n  dsn: x.db\n  queries:\n    service: a\n", "source.queries"},
		{csv + "year: -1\n", "year"},
		{csv + "brt:\n  mode: \"\"\n", "brt.mode"},
		{csv + "rail:\n  mode: \"\"\n", "rail.mode"},
		{csv + "inflation:\n  rate: -1\n", "inflation.rate"},
		{csv + "estimates:\n  - annual_cost: 1\n    revenue_hours: 1\n", "name is required"},
		{csv + "estimates:\n  - name: a\n    annual_cost: 1\n", "revenue_hours"},
		{csv + "estimates:\n  - name: a\n    revenue_hours: 1\n", "annual_cost"},
		{csv + "estimates:\n  - name: a\n    annual_cost: 1\n    revenue_hours: 1\n    years: -2\n", "years"},
		{csv + "regression:\n  independent: []\n", "regression"},
		{csv + "regression:\n  dependent: opex\n  independent: [opex]\n", "both"},
		{"source: [\n", "parse yaml"},
	}

	for _, tc := range x {
		_, e := Load(writeConfig(t, tc[0]))
		require.NotNil(t, e, tc[0])
		assert.True(t, strings.Contains(e.Error(), tc[1]), "%q: %v", tc[0], e)
	}

	_, e := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NotNil(t, e)
}
