package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// SMS providers understood by the notification dispatcher.
const (
	ProviderAfricasTalking = "africas_talking"
	ProviderTwilio         = "twilio"
	ProviderGeneric        = "generic"
	ProviderWhatsApp       = "whatsapp"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	SMS       SMSConfig
	WhatsApp  WhatsAppConfig
	Sheets    SheetsConfig
	Vision    VisionConfig
	Reminders ReminderConfig
	Snapshot  SnapshotConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SMSConfig selects the notification provider and carries its credentials.
// An empty Provider disables outbound notifications.
type SMSConfig struct {
	Provider   string
	APIKey     string
	Username   string
	SenderID   string
	AccountSID string
	AuthToken  string
	BaseURL    string
	BulkDelay  time.Duration
}

// WhatsAppConfig contains credentials and options for the Meta WhatsApp Cloud API.
// A non-empty VerifyToken enables the inbound command webhook.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	VerifyToken   string
	BaseURL       string
	APIVersion    string
}

// WebhookEnabled reports whether inbound WhatsApp commands are accepted.
func (c WhatsAppConfig) WebhookEnabled() bool {
	return c.VerifyToken != ""
}

// SheetsConfig contains configuration required to export to Google Sheets.
// Exports are disabled when SpreadsheetID is empty.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	LedgerRange     string
}

// Enabled reports whether ledger exports to Google Sheets are configured.
func (c SheetsConfig) Enabled() bool {
	return c.SpreadsheetID != ""
}

// VisionConfig configures check image extraction through Google Cloud Vision.
type VisionConfig struct {
	Enabled         bool
	CredentialsPath string
}

// ReminderConfig holds the receivables reminder schedule.
type ReminderConfig struct {
	Enabled      bool
	CronSchedule string
	Timezone     string
	DueInDays    int
}

// SnapshotConfig holds the ledger snapshot schedule.
type SnapshotConfig struct {
	CronSchedule string
}

// LogConfig holds logging options.
type LogConfig struct {
	Level string
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

	bulkDelay, err := time.ParseDuration(getenvWithDefault("SMS_BULK_DELAY", "500ms"))
	if err != nil {
		return nil, fmt.Errorf("SMS_BULK_DELAY: %w", err)
	}
	dueInDays, err := strconv.Atoi(getenvWithDefault("REMINDER_DUE_IN_DAYS", "7"))
	if err != nil {
		return nil, fmt.Errorf("REMINDER_DUE_IN_DAYS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "farmflow"),
		},
		SMS: SMSConfig{
			Provider:   os.Getenv("SMS_PROVIDER"),
			APIKey:     os.Getenv("SMS_API_KEY"),
			Username:   os.Getenv("SMS_USERNAME"),
			SenderID:   os.Getenv("SMS_SENDER_ID"),
			AccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
			BaseURL:    os.Getenv("SMS_BASE_URL"),
			BulkDelay:  bulkDelay,
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			VerifyToken:   os.Getenv("META_VERIFY_TOKEN"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_LEDGER_ID"),
			LedgerRange:     getenvWithDefault("GOOGLE_SHEET_LEDGER_RANGE", "Ledger!A:I"),
		},
		Vision: VisionConfig{
			Enabled:         os.Getenv("VISION_ENABLED") == "true",
			CredentialsPath: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		},
		Reminders: ReminderConfig{
			Enabled:      getenvWithDefault("REMINDERS_ENABLED", "true") == "true",
			CronSchedule: getenvWithDefault("REMINDER_CRON_SCHEDULE", "0 9 * * 1"),
			Timezone:     getenvWithDefault("TIMEZONE", "Africa/Nairobi"),
			DueInDays:    dueInDays,
		},
		Snapshot: SnapshotConfig{
			CronSchedule: getenvWithDefault("SNAPSHOT_CRON_SCHEDULE", "0 20 * * *"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
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

	if err := c.SMS.validate(c.WhatsApp); err != nil {
		return err
	}

	if c.Sheets.Enabled() && c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided when GOOGLE_SHEET_LEDGER_ID is set")
	}

	if c.Reminders.CronSchedule == "" {
		return errors.New("REMINDER_CRON_SCHEDULE must be provided")
	}
	if c.Reminders.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}
	if _, err := time.LoadLocation(c.Reminders.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q is invalid: %w", c.Reminders.Timezone, err)
	}
	if c.Reminders.DueInDays < 0 {
		return errors.New("REMINDER_DUE_IN_DAYS must not be negative")
	}

	if c.Snapshot.CronSchedule == "" {
		return errors.New("SNAPSHOT_CRON_SCHEDULE must be provided")
	}

	return nil
}

// validate mirrors each provider's credential requirements.
func (c SMSConfig) validate(wa WhatsAppConfig) error {
	switch c.Provider {
	case "":
		return nil
	case ProviderAfricasTalking:
		if c.Username == "" || c.APIKey == "" {
			return errors.New("SMS_USERNAME and SMS_API_KEY must be provided for africas_talking")
		}
	case ProviderTwilio:
		if c.AccountSID == "" || c.AuthToken == "" {
			return errors.New("TWILIO_ACCOUNT_SID and TWILIO_AUTH_TOKEN must be provided for twilio")
		}
		if c.SenderID == "" {
			return errors.New("SMS_SENDER_ID must be provided for twilio")
		}
	case ProviderGeneric:
		if c.APIKey == "" {
			return errors.New("SMS_API_KEY must be provided for generic")
		}
		if c.BaseURL == "" {
			return errors.New("SMS_BASE_URL must be provided for generic")
		}
	case ProviderWhatsApp:
		switch {
		case wa.AccessToken == "":
			return errors.New("WHATSAPP_TOKEN must be provided")
		case wa.PhoneNumberID == "":
			return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided")
		case wa.BaseURL == "":
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		case wa.APIVersion == "":
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
	default:
		return fmt.Errorf("SMS_PROVIDER %q is not supported", c.Provider)
	}
	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
