package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server     ServerConfig
	MongoDB    MongoDBConfig
	Email      EmailConfig
	App        AppConfig
	ImageProxy ImageProxyConfig
	Sheets     SheetsConfig
	Summary    SummaryConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
	Env  string // "dev" enables the seed endpoint and console logging
}

// MongoDBConfig holds settings for the document store.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// EmailConfig contains SMTP credentials for password-reset mail. All fields
// are optional at startup; a reset request with missing credentials gets an
// explicit EMAIL_NOT_CONFIGURED response instead of failing boot.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// AppConfig holds application-level settings exposed to users.
type AppConfig struct {
	BaseURL string // public URL embedded in password-reset links
}

// ImageProxyConfig points at the file-storage proxy serving inspection images.
type ImageProxyConfig struct {
	BaseURL string
}

// SheetsConfig configures the optional Google Sheets summary sink. When
// either field is empty the sink is disabled.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// SummaryConfig holds the nightly summary scheduler settings.
type SummaryConfig struct {
	CronSchedule string
	Timezone     string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	smtpPort, err := getenvInt("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
			Env:  getenvWithDefault("APP_ENV", "production"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "ovotrace"),
		},
		Email: EmailConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     smtpPort,
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getenvWithDefault("SMTP_FROM", "no-reply@ovotrace.io"),
		},
		App: AppConfig{
			BaseURL: os.Getenv("APP_BASE_URL"),
		},
		ImageProxy: ImageProxyConfig{
			BaseURL: os.Getenv("IMAGE_PROXY_BASE_URL"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("SUMMARY_SPREADSHEET_ID"),
		},
		Summary: SummaryConfig{
			CronSchedule: getenvWithDefault("SUMMARY_CRON_SCHEDULE", "0 1 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "UTC"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated. Email,
// image proxy and sheets settings are deliberately not required: their
// absence degrades to explicit runtime error codes or disabled features.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}
	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	if c.Summary.CronSchedule == "" {
		return errors.New("SUMMARY_CRON_SCHEDULE must be provided")
	}
	if c.Summary.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and SUMMARY_SPREADSHEET_ID must be set together")
	}

	return nil
}

// EmailConfigured reports whether SMTP credentials are present.
func (c *Config) EmailConfigured() bool {
	return c.Email.Host != "" && c.Email.From != ""
}

// SheetsEnabled reports whether the summary sheet sink should be wired.
func (c *Config) SheetsEnabled() bool {
	return c.Sheets.CredentialsPath != "" && c.Sheets.SpreadsheetID != ""
}

// Dev reports whether the server runs in development mode.
func (c *Config) Dev() bool {
	return c.Server.Env == "dev" || c.Server.Env == "development"
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be numeric: %w", key, err)
	}
	return n, nil
}
