// Package config loads the environment-driven defaults of the commands.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables the commands read their defaults from.
const (
	EnvStrategy      = "SCHEDSEARCH_STRATEGY"
	EnvMaxIterations = "SCHEDSEARCH_MAX_ITERATIONS"
	EnvTimeout       = "SCHEDSEARCH_TIMEOUT"
	EnvBackupDir     = "SCHEDSEARCH_BACKUP_DIR"
	EnvOutDir        = "SCHEDSEARCH_OUT_DIR"
)

// Config carries defaults the commands fall back to when the corresponding
// flags are not given.
type Config struct {
	Strategy      string
	MaxIterations int
	Timeout       time.Duration
	BackupDir     string
	OutDir        string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is read first when present; variables already set in the
// real environment win.
func Load() Config {
	godotenv.Load()

	return Config{
		Strategy:      getenv(EnvStrategy, "dfs"),
		MaxIterations: getenvInt(EnvMaxIterations, 0),
		Timeout:       getenvDur(EnvTimeout, 0),
		BackupDir:     getenv(EnvBackupDir, "backups"),
		OutDir:        getenv(EnvOutDir, "."),
	}
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

func getenvDur(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}
