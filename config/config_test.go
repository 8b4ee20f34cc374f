package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("DATA_SOURCE", "")
	t.Setenv("CSV_PATH", "")
	t.Setenv("HISTOGRAM_BINS", "")

	cfg := FromEnv()
	assert.Equal(t, SourceCSV, cfg.DataSource)
	assert.Equal(t, "data/houses_to_rent_v2.csv", cfg.CSVPath)
	assert.Equal(t, 20, cfg.HistogramBins)
	assert.Equal(t, 5*time.Minute, cfg.ChartCacheTTL)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DATA_SOURCE", "postgres")
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("CHART_CACHE_TTL_SEC", "10")
	t.Setenv("HISTOGRAM_BINS", "not-a-number")

	cfg := FromEnv()
	assert.Equal(t, SourcePostgres, cfg.DataSource)
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, 10*time.Second, cfg.ChartCacheTTL)
	assert.Equal(t, 20, cfg.HistogramBins, "invalid ints fall back to the default")
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost:     "db",
		PostgresPort:     "5433",
		PostgresUser:     "u",
		PostgresPassword: "p",
		PostgresDB:       "rent",
		PostgresSSLMode:  "disable",
	}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=rent sslmode=disable", cfg.DSN())
}
