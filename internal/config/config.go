package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	// Backend selection
	DataBackend string

	// Database
	SQLiteDBPath  string
	StoreRetryMax int

	// Logging
	LogLevel string

	// Behaviour
	CascadeDelete   bool
	WithholdingRate decimal.Decimal

	// raw WITHHOLDING_RATE and CASCADE_DELETE values kept for Validate
	withholdingRaw string
	cascadeRaw     string
}

func Load() *Config {
	cfg := &Config{
		DataBackend:   getEnv("DATA_BACKEND", BackendSQLite),
		SQLiteDBPath:  getEnv("SQLITE_DB_PATH", "./data/cuentas.db"),
		StoreRetryMax: getEnvInt("STORE_RETRY_MAX", 3),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		CascadeDelete:  getEnvBool("CASCADE_DELETE", false),
		cascadeRaw:     os.Getenv("CASCADE_DELETE"),
		withholdingRaw: getEnv("WITHHOLDING_RATE", "0"),
	}
	cfg.WithholdingRate, _ = decimal.NewFromString(cfg.withholdingRaw)

	return cfg
}

// Validate validates the configuration and returns every problem found in a
// single error
func (c *Config) Validate() error {
	var errors []string

	// Validate data backend
	validBackends := []string{BackendMemory, BackendSQLite}
	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.DataBackend == BackendSQLite {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.StoreRetryMax < 0 || c.StoreRetryMax > 10 {
		errors = append(errors, fmt.Sprintf("invalid store retry max %d: must be between 0 and 10", c.StoreRetryMax))
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, strings.ToLower(c.LogLevel)) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}

	if c.cascadeRaw != "" {
		if _, err := strconv.ParseBool(c.cascadeRaw); err != nil {
			errors = append(errors, fmt.Sprintf("invalid cascade delete '%s': must be true or false", c.cascadeRaw))
		}
	}

	if c.withholdingRaw != "" {
		if _, err := decimal.NewFromString(c.withholdingRaw); err != nil {
			errors = append(errors, fmt.Sprintf("invalid withholding rate '%s': must be a decimal number", c.withholdingRaw))
		}
	}
	if c.WithholdingRate.IsNegative() || c.WithholdingRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		errors = append(errors, fmt.Sprintf("invalid withholding rate %s: must be at least 0 and below 1", c.WithholdingRate))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
