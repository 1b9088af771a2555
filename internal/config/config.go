// Package config reads process settings from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"expensepad/internal/log"
)

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"

	SinkWebhook = "webhook"
	SinkSheets  = "sheets"
	SinkBroker  = "broker"
	SinkMemory  = "memory"
)

var (
	validBackends   = []string{BackendSQLite, BackendFile}
	validSinks      = []string{SinkWebhook, SinkSheets, SinkBroker, SinkMemory}
	validRelaySinks = []string{SinkSheets, SinkWebhook}
)

type Config struct {
	// HTTP Server
	Port string

	// Local state
	StateBackend    string
	SQLiteDBPath    string
	StateFile       string
	StateRecordName string

	// Sink
	SinkKind    string
	ScriptURL   string
	SinkTimeout time.Duration

	// Google Sheets (service account)
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
	// RelaySink is where cmd/expensepad-relay forwards consumed expenses.
	RelaySink string

	// Entry form
	KeepFailedRows         bool
	CommitWhenUnconfigured bool

	LogLevel  string
	LogFormat string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		StateBackend:    getEnv("STATE_BACKEND", BackendSQLite),
		SQLiteDBPath:    getEnv("SQLITE_DB_PATH", "./data/expensepad.db"),
		StateFile:       getEnv("STATE_FILE", "./data/expense-store.json"),
		StateRecordName: getEnv("STATE_RECORD_NAME", "expense-store"),

		SinkKind:    getEnv("SINK_KIND", SinkWebhook),
		ScriptURL:   getEnv("SCRIPT_URL", ""),
		SinkTimeout: getEnvDuration("SINK_TIMEOUT", 0),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:          getEnv("GOOGLE_SHEET_NAME", "Expenses"),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "expensepad"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "expenses"),
		RelaySink:    getEnv("RELAY_SINK", SinkSheets),

		KeepFailedRows:         getEnvBool("KEEP_FAILED_ROWS", false),
		CommitWhenUnconfigured: getEnvBool("COMMIT_WHEN_UNCONFIGURED", false),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

// Validate checks the settings the web server needs and reports every
// problem at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(validBackends, c.StateBackend) {
		errs = append(errs, fmt.Sprintf("invalid state backend '%s': must be one of %v", c.StateBackend, validBackends))
	}
	switch c.StateBackend {
	case BackendSQLite:
		errs = append(errs, checkDir("SQLite database", c.SQLiteDBPath)...)
	case BackendFile:
		errs = append(errs, checkDir("state file", c.StateFile)...)
	}
	if strings.TrimSpace(c.StateRecordName) == "" {
		errs = append(errs, "state record name cannot be empty")
	}

	if !slices.Contains(validSinks, c.SinkKind) {
		errs = append(errs, fmt.Sprintf("invalid sink kind '%s': must be one of %v", c.SinkKind, validSinks))
	}
	if c.ScriptURL != "" {
		errs = append(errs, checkHTTPURL(c.ScriptURL)...)
	}
	if c.SinkTimeout < 0 {
		errs = append(errs, fmt.Sprintf("invalid sink timeout %v: must not be negative", c.SinkTimeout))
	}

	switch c.SinkKind {
	case SinkSheets:
		errs = append(errs, c.validateSheets()...)
	case SinkBroker:
		errs = append(errs, c.validateAMQP()...)
	}

	errs = append(errs, c.validateLogging()...)

	return combine(errs)
}

// ValidateRelay checks the settings cmd/expensepad-relay needs.
func (c *Config) ValidateRelay() error {
	var errs []string
	errs = append(errs, c.validateAMQP()...)
	if !slices.Contains(validRelaySinks, c.RelaySink) {
		errs = append(errs, fmt.Sprintf("invalid relay sink '%s': must be one of %v", c.RelaySink, validRelaySinks))
	}
	switch c.RelaySink {
	case SinkSheets:
		errs = append(errs, c.validateSheets()...)
	case SinkWebhook:
		if c.ScriptURL == "" {
			errs = append(errs, "SCRIPT_URL is required when the relay forwards to a webhook")
		} else {
			errs = append(errs, checkHTTPURL(c.ScriptURL)...)
		}
	}
	errs = append(errs, c.validateLogging()...)
	return combine(errs)
}

func (c *Config) validateSheets() []string {
	var errs []string
	if c.GoogleSpreadsheetID == "" {
		errs = append(errs, "Google Spreadsheet ID is required when using the sheets sink")
	}
	if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" {
		errs = append(errs, "either GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE must be provided for the sheets sink")
	}
	if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile != "" {
		if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
			errs = append(errs, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
		}
	}
	return errs
}

func (c *Config) validateAMQP() []string {
	if c.AMQPURL == "" {
		return []string{"AMQP URL is required when using the broker"}
	}
	var errs []string
	if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
		errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
	} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
		errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
	}
	if c.AMQPExchange == "" {
		errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
	}
	if c.AMQPQueue == "" {
		errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
	}
	return errs
}

func (c *Config) validateLogging() []string {
	var errs []string
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}
	return errs
}

func checkDir(what, path string) []string {
	if path == "" {
		return []string{fmt.Sprintf("%s path cannot be empty", what)}
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return []string{fmt.Sprintf("cannot create %s directory '%s': %v", what, dir, err)}
		}
	}
	return nil
}

func checkHTTPURL(raw string) []string {
	u, err := url.Parse(raw)
	if err != nil {
		return []string{fmt.Sprintf("invalid script URL '%s': %v", raw, err)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return []string{fmt.Sprintf("invalid script URL scheme '%s': must be 'http' or 'https'", u.Scheme)}
	}
	return nil
}

func combine(errs []string) error {
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

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
