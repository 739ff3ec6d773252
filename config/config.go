package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all pipeline configuration loaded from environment variables.
// Every field has a working default so the pipeline runs with no .env at all.
type Config struct {
	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	Seed         int64
	NumMerchants int
	NumProducts  int
	NumReviews   int
	HistoryDays  int
	AvgTxPerDay  float64

	ForecastWindow  int
	ForecastHorizon int
	ClusterCount    int

	RawDataDir       string
	ProcessedDataDir string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresEnabled:  getEnvBool("PG_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "market"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "market123"),
		PostgresDB:       getEnv("POSTGRES_DB", "market_intel"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		Seed:         getEnvInt64("RANDOM_SEED", 42),
		NumMerchants: getEnvInt("NUM_MERCHANTS", 12),
		NumProducts:  getEnvInt("NUM_PRODUCTS", 45),
		NumReviews:   getEnvInt("NUM_REVIEWS", 260),
		HistoryDays:  getEnvInt("HISTORY_DAYS", 120),
		AvgTxPerDay:  getEnvFloat("AVG_TX_PER_DAY", 8),

		ForecastWindow:  getEnvInt("FORECAST_WINDOW", 7),
		ForecastHorizon: getEnvInt("FORECAST_HORIZON", 30),
		ClusterCount:    getEnvInt("CLUSTER_COUNT", 4),

		RawDataDir:       getEnv("RAW_DATA_DIR", "./data/raw"),
		ProcessedDataDir: getEnv("PROCESSED_DATA_DIR", "./data/processed"),
	}
}

// RawPath returns the path of a base table CSV under the raw data dir.
func (c *Config) RawPath(name string) string {
	return filepath.Join(c.RawDataDir, name)
}

// ProcessedPath returns the path of a derived table CSV under the processed
// data dir.
func (c *Config) ProcessedPath(name string) string {
	return filepath.Join(c.ProcessedDataDir, name)
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

func getEnvInt64(key string, fallback int64) int64 {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.ParseInt(val, 10, 64)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
