package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "MONGODB_DB_NAME", "SMS_PROVIDER", "SMS_BULK_DELAY", "GOOGLE_SHEET_LEDGER_ID", "REMINDER_DUE_IN_DAYS"} {
		t.Setenv(key, "")
	}
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "farmflow", cfg.MongoDB.DBName)
	assert.Equal(t, 500*time.Millisecond, cfg.SMS.BulkDelay)
	assert.Equal(t, 7, cfg.Reminders.DueInDays)
	assert.False(t, cfg.Sheets.Enabled())
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "APP_PORT=9090\nSMS_PROVIDER=africas_talking\nSMS_USERNAME=sandbox\nSMS_API_KEY=key\nSMS_BULK_DELAY=1s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	for _, key := range []string{"APP_PORT", "SMS_PROVIDER", "SMS_USERNAME", "SMS_API_KEY", "SMS_BULK_DELAY"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, ProviderAfricasTalking, cfg.SMS.Provider)
	assert.Equal(t, time.Second, cfg.SMS.BulkDelay)
}

func validConfig() *Config {
	return &Config{
		Server:    ServerConfig{Port: "8080"},
		MongoDB:   MongoDBConfig{URI: "mongodb://localhost:27017", DBName: "farmflow"},
		WhatsApp:  WhatsAppConfig{BaseURL: "https://graph.facebook.com", APIVersion: "v20.0"},
		Reminders: ReminderConfig{CronSchedule: "0 9 * * 1", Timezone: "UTC", DueInDays: 7},
		Snapshot:  SnapshotConfig{CronSchedule: "0 20 * * *"},
	}
}

func TestValidate_Providers(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"no provider", func(c *Config) {}, ""},
		{"africas talking missing key", func(c *Config) {
			c.SMS = SMSConfig{Provider: ProviderAfricasTalking, Username: "sandbox"}
		}, "SMS_API_KEY"},
		{"twilio complete", func(c *Config) {
			c.SMS = SMSConfig{Provider: ProviderTwilio, AccountSID: "AC1", AuthToken: "t", SenderID: "+15005550006"}
		}, ""},
		{"twilio missing token", func(c *Config) {
			c.SMS = SMSConfig{Provider: ProviderTwilio, AccountSID: "AC1"}
		}, "TWILIO_AUTH_TOKEN"},
		{"generic missing url", func(c *Config) {
			c.SMS = SMSConfig{Provider: ProviderGeneric, APIKey: "k"}
		}, "SMS_BASE_URL"},
		{"whatsapp missing token", func(c *Config) {
			c.SMS = SMSConfig{Provider: ProviderWhatsApp}
		}, "WHATSAPP_TOKEN"},
		{"unknown provider", func(c *Config) {
			c.SMS = SMSConfig{Provider: "pigeon"}
		}, "not supported"},
		{"bad timezone", func(c *Config) {
			c.Reminders.Timezone = "Mars/Olympus"
		}, "TIMEZONE"},
		{"sheets without credentials", func(c *Config) {
			c.Sheets = SheetsConfig{SpreadsheetID: "sheet"}
		}, "GOOGLE_SHEETS_CREDENTIALS_PATH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
