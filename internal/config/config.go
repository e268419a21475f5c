package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Airtable AirtableConfig
	Scan     ScanConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Alert    AlertConfig
	Otel     OtelConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	ScannerLogPath     string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type AirtableConfig struct {
	APIKey      string
	BaseID      string
	EndpointURL string
	View        string
	Timeout     time.Duration

	RequestsPerSecond int
	MaxRetries        int
	RetryBaseDelay    time.Duration
}

type ScanConfig struct {
	KeyGap          time.Duration
	TerminatorKey   string
	BarcodeFields   []string
	StripPrefixLen  int
	StripDelimiter  string
	SelectionMode   string
	SessionTTL      time.Duration
	OperationsCache time.Duration
}

type DatabaseConfig struct {
	Connection string // empty disables the submission audit trail
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AlertConfig struct {
	EmailTo string
	Topic   string
}

type OtelConfig struct {
	Enabled  bool
	Endpoint string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			ScannerLogPath:     getEnv("SCANNER_LOG_FILE_PATH", "logs/scanner.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Airtable: AirtableConfig{
			APIKey:      getEnv("AIRTABLE_API_KEY", ""),
			BaseID:      getEnv("AIRTABLE_BASE_ID", ""),
			EndpointURL: getEnv("AIRTABLE_ENDPOINT_URL", "https://api.airtable.com"),
			View:        getEnv("AIRTABLE_VIEW", "Grid view"),
			Timeout:     time.Duration(getEnvAsInt("AIRTABLE_TIMEOUT_SECONDS", 15)) * time.Second,

			RequestsPerSecond: getEnvAsInt("AIRTABLE_REQUESTS_PER_SECOND", 5),
			MaxRetries:        getEnvAsInt("AIRTABLE_MAX_RETRIES", 5),
			RetryBaseDelay:    getEnvAsDuration("AIRTABLE_RETRY_BASE_MS", time.Millisecond, 1000),
		},
		Scan: ScanConfig{
			KeyGap:          getEnvAsDuration("SCAN_KEY_GAP_MS", time.Millisecond, 100),
			TerminatorKey:   getEnv("SCAN_TERMINATOR_KEY", "Enter"),
			BarcodeFields:   getEnvAsList("SCAN_BARCODE_FIELDS"),
			StripPrefixLen:  getEnvAsInt("SCAN_STRIP_PREFIX_LEN", 0),
			StripDelimiter:  getEnv("SCAN_STRIP_DELIMITER", ""),
			SelectionMode:   getEnv("SCAN_SELECTION_MODE", "toggle"),
			SessionTTL:      getEnvAsDuration("SCAN_SESSION_TTL_MINUTES", time.Minute, 120),
			OperationsCache: getEnvAsDuration("OPERATIONS_CACHE_SECONDS", time.Second, 30),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Warehouse Scan"),
		},
		Alert: AlertConfig{
			EmailTo: getEnv("ALERT_EMAIL_TO", ""),
			Topic:   getEnv("RECONCILIATION_ALERT_TOPIC", "RECONCILIATION_ALERT"),
		},
		Otel: OtelConfig{
			Enabled:  getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

// Validate reports every missing or malformed required setting at once.
func (c *Config) Validate() error {
	var problems []string
	if c.Airtable.APIKey == "" {
		problems = append(problems, "AIRTABLE_API_KEY is required")
	}
	if c.Airtable.BaseID == "" {
		problems = append(problems, "AIRTABLE_BASE_ID is required")
	}
	if c.Scan.KeyGap <= 0 {
		problems = append(problems, "SCAN_KEY_GAP_MS must be positive")
	}
	if c.Scan.TerminatorKey == "" {
		problems = append(problems, "SCAN_TERMINATOR_KEY must not be empty")
	}
	if c.Scan.StripPrefixLen < 0 {
		problems = append(problems, "SCAN_STRIP_PREFIX_LEN must not be negative")
	}
	switch c.Scan.SelectionMode {
	case "toggle", "add-only":
	default:
		problems = append(problems, fmt.Sprintf("SCAN_SELECTION_MODE %q must be toggle or add-only", c.Scan.SelectionMode))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, unit time.Duration, fallback int) time.Duration {
	return time.Duration(getEnvAsInt(key, fallback)) * unit
}

func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
