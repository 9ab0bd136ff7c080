package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	defaultJWTSecret     = "change-me-session-secret"
	defaultAdminPassword = "changeme"
)

// Config holds every runtime setting of the admin console. Values come from
// the environment, optionally seeded from a .env file in the working directory.
type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"dev"`
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	DatabaseURL string `envconfig:"DATABASE_URL" default:"admin_console.db"`

	UploadDir       string `envconfig:"UPLOAD_DIR" default:"uploads"`
	UploadURLPrefix string `envconfig:"UPLOAD_URL_PREFIX" default:"/uploads"`
	MaxUploadSize   int64  `envconfig:"MAX_UPLOAD_SIZE" default:"16777216"` // 16 MiB
	BackupDir       string `envconfig:"BACKUP_DIR" default:"backups"`
	ExportDir       string `envconfig:"EXPORT_DIR" default:"exports"`

	JWTSecret    string        `envconfig:"JWT_SECRET" default:"change-me-session-secret"`
	SessionTTL   time.Duration `envconfig:"SESSION_TTL" default:"12h"`
	CookieSecure bool          `envconfig:"COOKIE_SECURE" default:"false"`

	AdminUsername string `envconfig:"ADMIN_USERNAME" default:"admin"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:"changeme"`

	// BackupSchedule is a cron spec; empty disables scheduled backups.
	BackupSchedule string `envconfig:"BACKUP_SCHEDULE"`
	// KeepBackups limits retained snapshots; 0 keeps all of them.
	KeepBackups int `envconfig:"KEEP_BACKUPS" default:"0"`

	OffsiteEndpoint  string `envconfig:"OFFSITE_S3_ENDPOINT"`
	OffsiteRegion    string `envconfig:"OFFSITE_S3_REGION" default:"us-east-1"`
	OffsiteBucket    string `envconfig:"OFFSITE_S3_BUCKET"`
	OffsiteAccessKey string `envconfig:"OFFSITE_S3_ACCESS_KEY"`
	OffsiteSecretKey string `envconfig:"OFFSITE_S3_SECRET_KEY"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction reports whether the console runs in a prod-like environment.
func (c *Config) IsProduction() bool {
	return isProdLike(c.AppEnv)
}

// OffsiteEnabled reports whether snapshots should also be copied to S3.
func (c *Config) OffsiteEnabled() bool {
	return c.OffsiteBucket != ""
}

func validateConfig(cfg *Config) error {
	if cfg.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if cfg.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be > 0")
	}
	if cfg.KeepBackups < 0 {
		return fmt.Errorf("KEEP_BACKUPS must be >= 0")
	}
	if strings.TrimSpace(cfg.UploadDir) == "" || strings.TrimSpace(cfg.BackupDir) == "" || strings.TrimSpace(cfg.ExportDir) == "" {
		return fmt.Errorf("UPLOAD_DIR, BACKUP_DIR and EXPORT_DIR must not be empty")
	}
	if !strings.HasPrefix(cfg.UploadURLPrefix, "/") {
		return fmt.Errorf("UPLOAD_URL_PREFIX must start with '/'")
	}
	if cfg.OffsiteBucket != "" && (cfg.OffsiteAccessKey == "" || cfg.OffsiteSecretKey == "") {
		return fmt.Errorf("OFFSITE_S3_ACCESS_KEY and OFFSITE_S3_SECRET_KEY are required when OFFSITE_S3_BUCKET is set")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.AdminPassword, defaultAdminPassword) {
			return fmt.Errorf("in prod/release ADMIN_PASSWORD must be set and not default")
		}
		if !cfg.CookieSecure {
			return fmt.Errorf("in prod/release COOKIE_SECURE must be true")
		}
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}
