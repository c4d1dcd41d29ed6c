// Package config provides shared configuration utilities.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads KEY=VALUE pairs from the given .env files (default ".env")
// into the environment. Variables already set win. Missing files are skipped.
func Load(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
		log.Debug("Loaded environment file", "file", f)
	}
	return nil
}

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetFloat returns the variable parsed as a float, or fallback when unset
// or malformed.
func GetFloat(key string, fallback float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Warn("Ignoring malformed float variable", "key", key, "value", value)
		return fallback
	}
	return f
}

// GetInt returns the variable parsed as an int, or fallback when unset
// or malformed.
func GetInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Warn("Ignoring malformed int variable", "key", key, "value", value)
		return fallback
	}
	return n
}

// GetBool returns the variable parsed as a bool, or fallback when unset
// or malformed.
func GetBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Warn("Ignoring malformed bool variable", "key", key, "value", value)
		return fallback
	}
	return b
}

// SetupLogging applies LOG_LEVEL (debug, info, warn, error) to the default logger.
func SetupLogging() {
	level, err := log.ParseLevel(GetEnv("LOG_LEVEL", "info"))
	if err != nil {
		log.Warn("Unknown LOG_LEVEL, using info", "err", err)
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetReportTimestamp(true)
}
