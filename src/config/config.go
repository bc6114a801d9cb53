package config

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	LogLevel  string
	DataDir   string // downloaded reference data (currency rates)
	CacheDir  string // lookup caches, taxpayer profile, daily markers
	OutputDir string

	CurrencyURL  string
	CacheDBPath  string
	TaxpayerPath string

	HTTPTimeout time.Duration
}

var Cfg *AppConfig

// Load reads .env (if present) and the environment into Cfg.
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on OS environment variables and defaults.")
	}

	cacheDir := getEnv("CACHE_DIR", "cache")

	Cfg = &AppConfig{
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DataDir:      getEnv("DATA_DIR", "data"),
		CacheDir:     cacheDir,
		OutputDir:    getEnv("OUTPUT_DIR", "output"),
		CurrencyURL:  getEnv("CURRENCY_URL", "https://www.bsi.si/_data/tecajnice/dtecbs-l.xml"),
		CacheDBPath:  getEnv("CACHE_DB_PATH", filepath.Join(cacheDir, "lookup.db")),
		TaxpayerPath: getEnv("TAXPAYER_PATH", filepath.Join(cacheDir, "taxpayer.xml")),
		HTTPTimeout:  getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}
