package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is built once at startup and handed to every component that needs it.
// Nothing outside this package reads the environment.
type Config struct {
	// Server
	Env        string
	Port       string
	CORSOrigin string

	// Database
	DBDriver    string
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	SQLitePath  string

	// JWT
	JWTSecret       string
	JWTAccessExpiry time.Duration

	// Revocation
	RedisURL                string
	RevocationCacheTTL      time.Duration
	RevocationPruneSchedule string

	// Mail
	MailServer        string
	MailPort          int
	MailUseTLS        bool
	MailUseSSL        bool
	MailUsername      string
	MailPassword      string
	MailDefaultSender string
	SendGridAPIKey    string

	// Password reset
	FrontendURL         string
	PasswordResetExpiry time.Duration

	// Uploads
	UploadDir      string
	MaxUploadBytes int

	// Logging
	LogRetentionDays   int
	LogCleanupSchedule string

	SentryDSN string
}

// Load reads configuration from the environment. A .env file in the working
// directory is honoured when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn(".env not loaded", "error", err)
	}

	corsOrigin := getEnv("CORS_ORIGIN", "http://localhost:5173")

	return &Config{
		Env:        getEnv("APP_ENV", "development"),
		Port:       getEnv("PORT", "8080"),
		CORSOrigin: corsOrigin,

		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", ""),
		DBName:      getEnv("DB_NAME", "budget"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),
		SQLitePath:  getEnv("SQLITE_PATH", "budget.db"),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTAccessExpiry: parseDuration(getEnv("JWT_ACCESS_EXPIRY", "1h"), time.Hour),

		RedisURL:                getEnv("REDIS_URL", ""),
		RevocationCacheTTL:      parseDuration(getEnv("REVOCATION_CACHE_TTL", "1h"), time.Hour),
		RevocationPruneSchedule: getEnv("REVOCATION_PRUNE_SCHEDULE", "15 3 * * *"),

		MailServer:        getEnv("MAIL_SERVER", ""),
		MailPort:          parseInt(getEnv("MAIL_PORT", "587"), 587),
		MailUseTLS:        parseBool(getEnv("MAIL_USE_TLS", "true"), true),
		MailUseSSL:        parseBool(getEnv("MAIL_USE_SSL", "false"), false),
		MailUsername:      getEnv("MAIL_USERNAME", ""),
		MailPassword:      getEnv("MAIL_PASSWORD", ""),
		MailDefaultSender: getEnv("MAIL_DEFAULT_SENDER", ""),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),

		FrontendURL:         strings.TrimRight(getEnv("FRONTEND_URL", corsOrigin), "/"),
		PasswordResetExpiry: parseDuration(getEnv("PASSWORD_RESET_EXPIRY", "30m"), 30*time.Minute),

		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadBytes: parseInt(getEnv("MAX_UPLOAD_BYTES", "5242880"), 5<<20),

		LogRetentionDays:   parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),
		LogCleanupSchedule: getEnv("LOG_CLEANUP_SCHEDULE", "0 3 * * *"),

		SentryDSN: getEnv("SENTRY_DSN", ""),
	}
}

// Validate reports the first setting that prevents the server from starting.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is required")
	}
	switch c.DBDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" && c.DBPassword == "" {
			return errors.New("DB_PASSWORD or DATABASE_URL is required for postgres")
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.MailUseTLS && c.MailUseSSL {
		return errors.New("MAIL_USE_TLS and MAIL_USE_SSL are mutually exclusive")
	}
	if c.JWTAccessExpiry <= 0 {
		return errors.New("JWT_ACCESS_EXPIRY must be positive")
	}
	if c.IsProduction() && !c.MailConfigured() && c.SendGridAPIKey == "" {
		return errors.New("MAIL_SERVER or SENDGRID_API_KEY is required in production")
	}
	return nil
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	if c.DBDriver == DriverSQLite {
		return c.SQLitePath
	}
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// MailConfigured reports whether an SMTP server has been set.
func (c *Config) MailConfigured() bool {
	return c.MailServer != ""
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func parseBool(s string, fallback bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return b
}
