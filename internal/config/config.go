package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"tally/internal/core"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// Display
	DefaultCurrency string

	// Reporting
	DashboardTrendMonths int
	AnalyticsTrendMonths int

	// CSV import
	CSVMaxUploadBytes int64
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/tally.db"),

		DefaultCurrency: getEnv("DEFAULT_CURRENCY", core.DefaultCurrencySymbol),

		DashboardTrendMonths: getEnvInt("TREND_MONTHS_DASHBOARD", 6),
		AnalyticsTrendMonths: getEnvInt("TREND_MONTHS_ANALYTICS", 12),

		CSVMaxUploadBytes: int64(getEnvInt("CSV_MAX_UPLOAD_BYTES", 5<<20)),
	}
}

// Validate checks the configuration and returns an error listing every
// invalid field.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty")
	}

	if !core.ValidCurrencySymbol(c.DefaultCurrency) {
		errs = append(errs, fmt.Sprintf("invalid default currency '%s': must be one of %v",
			c.DefaultCurrency, core.CurrencySymbols))
	}

	if c.DashboardTrendMonths < 1 || c.DashboardTrendMonths > 36 {
		errs = append(errs, fmt.Sprintf("invalid dashboard trend months %d: must be between 1 and 36", c.DashboardTrendMonths))
	}
	if c.AnalyticsTrendMonths < 1 || c.AnalyticsTrendMonths > 36 {
		errs = append(errs, fmt.Sprintf("invalid analytics trend months %d: must be between 1 and 36", c.AnalyticsTrendMonths))
	}

	if c.CSVMaxUploadBytes < 1024 {
		errs = append(errs, fmt.Sprintf("invalid CSV upload limit %d: must be at least 1024 bytes", c.CSVMaxUploadBytes))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
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
