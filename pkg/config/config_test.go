package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retail-insights/pkg/models"
	"retail-insights/pkg/segment"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"DATA_SOURCE", "FORECAST_STEPS", "SEGMENT_PROFILE", "SEGMENT_PROFILE_PATH", "CSV_LATIN1"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	cfg := Load()
	assert.Equal(t, SourceCSV, cfg.DataSource)
	assert.Equal(t, 4, cfg.ForecastSteps)
	assert.Equal(t, 60, cfg.WindowDays)
	assert.True(t, cfg.CSVLatin1)
	require.NoError(t, cfg.Validate())

	p, err := cfg.Profile()
	require.NoError(t, err)
	assert.Equal(t, segment.FourTierName, p.Name)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATA_SOURCE", "MySQL")
	t.Setenv("RETAIL_DSN", "mariadb://u:p@localhost:3306/retail")
	t.Setenv("FORECAST_STEPS", "8")
	t.Setenv("TOP_N", "abc")
	t.Setenv("SEGMENT_PROFILE", "five-tier")

	cfg := Load()
	assert.Equal(t, SourceMySQL, cfg.DataSource)
	assert.Equal(t, 8, cfg.ForecastSteps)
	assert.Equal(t, 50, cfg.TopN)
	require.NoError(t, cfg.Validate())

	p, err := cfg.Profile()
	require.NoError(t, err)
	assert.Equal(t, 5, p.Buckets)
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv("WINDOW_DAYS", "")
	os.Unsetenv("WINDOW_DAYS")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("WINDOW_DAYS=30\n"), 0o644))

	assert.Equal(t, 30, Load(path).WindowDays)
}

func TestValidate(t *testing.T) {
	cases := []Config{
		{DataSource: "parquet", ForecastSteps: 4, TopN: 50, WindowDays: 60},
		{DataSource: SourcePostgres, ForecastSteps: 4, TopN: 50, WindowDays: 60},
		{DataSource: SourceExcel, ForecastSteps: 4, TopN: 50, WindowDays: 60},
		{DataSource: SourceCSV, DataPath: "x.csv", ForecastSteps: 0, TopN: 50, WindowDays: 60},
	}
	for _, c := range cases {
		assert.ErrorIs(t, c.Validate(), models.ErrConfiguration, c.DataSource)
	}
}
