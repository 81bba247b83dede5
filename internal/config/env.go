// Package config provides shared configuration utilities.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Load reads a .env file from the working directory unless APP_ENV is
// production. Variables already set in the environment win.
func Load() error {
	if os.Getenv("APP_ENV") == "production" {
		return nil
	}
	return LoadFile(".env")
}

// LoadFile loads the named .env file. A missing file is not an error.
func LoadFile(name string) error {
	if _, err := os.Stat(name); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(name); err != nil {
		return fmt.Errorf("load %s: %w", name, err)
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

// GetEnvBool parses the variable with strconv.ParseBool. Unset or
// unparsable values yield fallback.
func GetEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

// GetEnvInt is GetEnvBool for integers.
func GetEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
