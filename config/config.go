package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	BackendPostgres  = "postgres"
	BackendFirestore = "firestore"
)

type Config struct {
	Port     string `mapstructure:"PORT"`
	AppEnv   string `mapstructure:"APP_ENV"`
	DBURL    string `mapstructure:"DB_URL"`
	Timezone string `mapstructure:"TIMEZONE"`

	JWTSecret      string `mapstructure:"JWT_SECRET"`
	JWTExpiryHours int    `mapstructure:"JWT_EXPIRY_HOURS"`

	ArchiveBackend           string `mapstructure:"ARCHIVE_BACKEND"`
	FirestoreProjectID       string `mapstructure:"FIRESTORE_PROJECT_ID"`
	FirestoreCredentialsFile string `mapstructure:"FIRESTORE_CREDENTIALS_FILE"`

	S3Endpoint  string `mapstructure:"S3_ENDPOINT"`
	S3Region    string `mapstructure:"S3_REGION"`
	S3AccessKey string `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey string `mapstructure:"S3_SECRET_KEY"`
	S3Bucket    string `mapstructure:"S3_BUCKET"`
	S3PublicURL string `mapstructure:"S3_PUBLIC_URL"`

	SnapshotDir   string `mapstructure:"SNAPSHOT_DIR"`
	BackupCron    string `mapstructure:"BACKUP_CRON"`
	ImageMaxWidth int    `mapstructure:"IMAGE_MAX_WIDTH"`
	PDFFontPath   string `mapstructure:"PDF_FONT_PATH"`

	TwilioAccountSID     string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken      string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioPhoneNumber    string `mapstructure:"TWILIO_PHONE_NUMBER"`
	TwilioWhatsAppNumber string `mapstructure:"TWILIO_WHATSAPP_NUMBER"`

	CORSOrigins string `mapstructure:"CORS_ORIGINS"`

	AdminUsername string `mapstructure:"ADMIN_USERNAME"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
	PublicURL     string `mapstructure:"PUBLIC_URL"`
}

var keys = []string{
	"PORT", "APP_ENV", "DB_URL", "TIMEZONE",
	"JWT_SECRET", "JWT_EXPIRY_HOURS",
	"ARCHIVE_BACKEND", "FIRESTORE_PROJECT_ID", "FIRESTORE_CREDENTIALS_FILE",
	"S3_ENDPOINT", "S3_REGION", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_BUCKET", "S3_PUBLIC_URL",
	"SNAPSHOT_DIR", "BACKUP_CRON", "IMAGE_MAX_WIDTH", "PDF_FONT_PATH",
	"TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "TWILIO_PHONE_NUMBER", "TWILIO_WHATSAPP_NUMBER",
	"CORS_ORIGINS", "ADMIN_USERNAME", "ADMIN_PASSWORD", "PUBLIC_URL",
}

// Load reads .env from dir (if present) and the process environment.
// Environment variables win over the file.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("TIMEZONE", "Asia/Seoul")
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("ARCHIVE_BACKEND", BackendPostgres)
	v.SetDefault("S3_REGION", "auto")
	v.SetDefault("SNAPSHOT_DIR", "./data")
	v.SetDefault("BACKUP_CRON", "0 3 * * *")
	v.SetDefault("IMAGE_MAX_WIDTH", 1600)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("PUBLIC_URL", "http://localhost:8080")

	v.AutomaticEnv()
	// AutomaticEnv only applies to keys viper already knows about.
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET not set")
	}
	switch c.ArchiveBackend {
	case BackendPostgres:
		if c.DBURL == "" {
			return errors.New("DB_URL not set")
		}
	case BackendFirestore:
		if c.FirestoreProjectID == "" {
			return errors.New("FIRESTORE_PROJECT_ID not set")
		}
		// users and notification templates still live in postgres
		if c.DBURL == "" {
			return errors.New("DB_URL not set")
		}
	default:
		return fmt.Errorf("unknown ARCHIVE_BACKEND %q", c.ArchiveBackend)
	}
	if c.JWTExpiryHours <= 0 {
		return errors.New("JWT_EXPIRY_HOURS must be positive")
	}
	return nil
}

// Warnings lists settings that are valid but degrade a feature.
func (c *Config) Warnings() []string {
	var out []string
	switch {
	case c.PDFFontPath == "":
		out = append(out, "PDF_FONT_PATH not set, PDF export falls back to Helvetica and cannot print Hangul")
	default:
		if _, err := os.Stat(c.PDFFontPath); err != nil {
			out = append(out, fmt.Sprintf("PDF_FONT_PATH %q unreadable: %v", c.PDFFontPath, err))
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c *Config) ObjectStorageEnabled() bool {
	return c.S3Bucket != "" && c.S3AccessKey != ""
}

func (c *Config) TwilioEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != ""
}
