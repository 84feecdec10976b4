package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends selectable with SHOPLIST_STORAGE.
const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"
	StorageMemory = "memory"
)

type Config struct {
	Port            string
	Storage         string
	DBPath          string
	DataDir         string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	// AllowedOrigins restricts websocket origins; empty accepts any.
	AllowedOrigins []string
}

// Load reads a .env file if one exists, then the SHOPLIST_* environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromEnv()
}

func fromEnv() (*Config, error) {
	cfg := &Config{
		Port:      getenvDefault("SHOPLIST_PORT", "8080"),
		Storage:   getenvDefault("SHOPLIST_STORAGE", StorageSQLite),
		DBPath:    getenvDefault("SHOPLIST_DB_PATH", "shoplist.db"),
		DataDir:   getenvDefault("SHOPLIST_DATA_DIR", "data"),
		LogLevel:  getenvDefault("SHOPLIST_LOG_LEVEL", "info"),
		LogFormat: getenvDefault("SHOPLIST_LOG_FORMAT", "text"),
	}
	for _, o := range strings.Split(os.Getenv("SHOPLIST_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	switch cfg.Storage {
	case StorageSQLite, StorageFile, StorageMemory:
	default:
		return nil, fmt.Errorf("config: SHOPLIST_STORAGE=%q must be one of sqlite, file, memory", cfg.Storage)
	}

	d, err := getDurationDefault("SHOPLIST_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.ShutdownTimeout = d
	return cfg, nil
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getDurationDefault(k string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a valid duration: %w", k, v, err)
	}
	return d, nil
}
