package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Data sources understood by DataSource.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DataSource string
	CSVPath    string
	ListenAddr string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	ChartCacheTTL time.Duration
	ChartWidth    int
	ChartHeight   int
	HistogramBins int

	MaxRetries int
	ChromeBin  string
	LogLevel   string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current process environment only.
func FromEnv() *Config {
	return &Config{
		DataSource: getEnv("DATA_SOURCE", SourceCSV),
		CSVPath:    getEnv("CSV_PATH", "data/houses_to_rent_v2.csv"),
		ListenAddr: getEnv("LISTEN_ADDR", ":8501"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "rentdash"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "rentdash"),
		PostgresDB:       getEnv("POSTGRES_DB", "rental_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		ChartCacheTTL: time.Duration(getEnvInt("CHART_CACHE_TTL_SEC", 300)) * time.Second,
		ChartWidth:    getEnvInt("CHART_WIDTH", 900),
		ChartHeight:   getEnvInt("CHART_HEIGHT", 480),
		HistogramBins: getEnvInt("HISTOGRAM_BINS", 20),

		MaxRetries: getEnvInt("MAX_RETRIES", 3),
		ChromeBin:  getEnv("CHROME_BIN", ""),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
