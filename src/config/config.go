package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	APIEnv          string
	Port            string
	DSN             string
	JWTSecret       string
	JWTExpire       time.Duration
	BcryptRounds    int
	RedisURL        string
	SMTP            SMTPConfig
	MailDriver      string
	S3AssetsBucket  string
	AWSRegion       string
	AppHost         string
	FrontendURL     string
	MaintenanceMode bool
	AdminEmail      string
	AdminPassword   string
	ReminderWindow  time.Duration
	LogDir          string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

func (s SMTPConfig) Enabled() bool {
	return s.Host != ""
}

// Load reads configuration from the process environment.
func Load() (*Config, error) {
	jwtExpire, err := ParseExpiry(getEnv("JWT_EXPIRE", "7d"))
	if err != nil {
		return nil, fmt.Errorf("JWT_EXPIRE: %w", err)
	}
	reminder, err := ParseExpiry(getEnv("REMINDER_WINDOW", "3d"))
	if err != nil {
		return nil, fmt.Errorf("REMINDER_WINDOW: %w", err)
	}
	cfg := &Config{
		APIEnv:          getEnv("API_ENV", "local"),
		Port:            getEnv("PORT", "5000"),
		DSN:             GetDSN(),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTExpire:       jwtExpire,
		BcryptRounds:    getEnvInt("BCRYPT_ROUNDS", 12),
		RedisURL:        os.Getenv("REDIS_HOST"),
		S3AssetsBucket:  os.Getenv("S3_ASSETS_BUCKET"),
		AWSRegion:       getEnv("AWS_REGION", "ap-southeast-1"),
		AppHost:         os.Getenv("APP_HOST"),
		FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:5173"),
		MaintenanceMode: getEnvBool("MAINTENANCE_MODE", false),
		AdminEmail:      os.Getenv("ADMIN_EMAIL"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		ReminderWindow:  reminder,
		LogDir:          getEnv("LOG_DIR", "logs"),
		MailDriver:      strings.ToLower(getEnv("MAIL_DRIVER", "smtp")),
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("SMTP_FROM", "noreply@uservice.local"),
			FromName: getEnv("SMTP_FROM_NAME", "Uservice"),
		},
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func (c *Config) IsProd() bool {
	return c.APIEnv == "production"
}

func GetDSN() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		getEnv("DATABASE_HOST", "localhost"),
		getEnv("DATABASE_USER", "postgres"),
		os.Getenv("DATABASE_PASSWORD"),
		getEnv("DATABASE_NAME", "uservice"),
		getEnv("DATABASE_PORT", "5432"),
		getEnv("DATABASE_SSLMODE", "disable"),
		getEnv("DATABASE_TIMEZONE", "UTC"),
	)
}

// ParseExpiry accepts Go durations plus a day suffix, e.g. "7d".
func ParseExpiry(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if strings.HasSuffix(v, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(v, "d"))
		if err != nil || days <= 0 {
			return 0, fmt.Errorf("invalid day duration %q", v)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive: %q", v)
	}
	return d, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func getEnvBool(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}
