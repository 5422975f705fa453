package config

import (
	"os"
	"strings"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// LINE Messaging API
	LineChannelAccessToken string
	LineChannelSecret      string
	LineAPIBase            string

	// Google Sheets record store
	GoogleJSONKey         string
	GoogleKeyFile         string
	SheetsSpreadsheetName string
	SheetsSpreadsheetID   string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "5000"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		LineChannelAccessToken: getEnv("LINE_CHANNEL_ACCESS_TOKEN", ""),
		LineChannelSecret:      getEnv("LINE_CHANNEL_SECRET", ""),
		LineAPIBase:            getEnv("LINE_API_BASE", ""),

		GoogleJSONKey:         getEnv("GOOGLE_JSON_KEY", ""),
		GoogleKeyFile:         getEnv("GOOGLE_KEY_FILE", ""),
		SheetsSpreadsheetName: strings.TrimSpace(getEnv("SHEETS_SPREADSHEET_NAME", "laundry-bot")),
		SheetsSpreadsheetID:   getEnv("SHEETS_SPREADSHEET_ID", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
