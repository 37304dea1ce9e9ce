package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Environment    string
	OperatorGroups []string
	AdminGroups    []string
	UserGroups     []string
	SimulateRole   string
	AppUser        string

	ListenAddr string

	DBDriver         string
	SQLitePath       string
	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     string
	PostgresDatabase string
	PostgresSSLMode  string

	ThemeMode      string
	LightStartHour int
	LightEndHour   int

	LogLevel string

	RateLimit       int
	RateLimitWindow time.Duration

	AuditLimit int

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

func Load() *Config {
	return &Config{
		Environment:    getEnv("APP_ENV", "local"),
		OperatorGroups: getEnvList("OPERATOR_GROUPS"),
		AdminGroups:    getEnvList("ADMIN_GROUPS"),
		UserGroups:     getEnvList("USER_GROUPS"),
		SimulateRole:   getEnv("SIMULATE_ROLE", ""),
		AppUser:        getEnv("APP_USER", "system"),

		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),

		DBDriver:         getEnv("DB_DRIVER", "sqlite"),
		SQLitePath:       getEnv("SQLITE_PATH", "storage/visitlog.sqlite"),
		PostgresUser:     getEnv("POSTGRES_USER", "visitlog"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "password"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresDatabase: getEnv("POSTGRES_DATABASE", "visitlog"),
		PostgresSSLMode:  getEnv("POSTGRES_SSL_MODE", "disable"),

		ThemeMode:      getEnv("THEME_MODE", "auto"),
		LightStartHour: getEnvInt("LIGHT_START_HOUR", 7),
		LightEndHour:   getEnvInt("LIGHT_END_HOUR", 19),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		RateLimit:       getEnvInt("RATE_LIMIT", 30),
		RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),

		AuditLimit: getEnvInt("AUDIT_LIMIT", 100),

		S3Bucket:    getEnv("S3_BUCKET", "visitlog-signatures"),
		S3Region:    getEnv("AWS_REGION", "us-east-1"),
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3AccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
		S3SecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}
}

// IsLocal reports whether the local development bypass is active. In local
// mode every capability check passes regardless of group configuration.
func (c *Config) IsLocal() bool {
	return c.Environment == "local"
}

// ArchiveEnabled reports whether signature PNGs should be copied to object
// storage after registration.
func (c *Config) ArchiveEnabled() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// ActiveTheme resolves the UI palette for the given wall-clock time: an
// explicit THEME_MODE wins, otherwise the light window decides.
func (c *Config) ActiveTheme(now time.Time) string {
	switch c.ThemeMode {
	case "dark":
		return "dark"
	case "light":
		return "light"
	}

	hour := now.Hour()
	if hour >= c.LightStartHour && hour < c.LightEndHour {
		return "light"
	}
	return "dark"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvList splits a group list on semicolons or commas, dropping blanks.
// Directory exports commonly use either separator.
func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == ';' || r == ','
	})

	var groups []string
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			groups = append(groups, trimmed)
		}
	}
	return groups
}
