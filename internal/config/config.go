package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Session  SessionConfig
	Search   SearchConfig
	Registry RegistryConfig
	Limits   RateLimitConfig

	Notifications NotificationConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string
	Env            string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

// LogConfig holds structured logging settings
type LogConfig struct {
	Level string
}

// DatabaseConfig holds SurrealDB connection settings
type DatabaseConfig struct {
	Scheme      string // ws or wss
	Host        string
	Port        string
	Namespace   string
	Database    string
	User        string
	Password    string
	AutoMigrate bool
}

// JWTConfig holds JWT signing settings
type JWTConfig struct {
	PrivateKeyPath string
	PublicKeyPath  string
	ExpirationMins int
	Issuer         string
}

// SessionConfig holds refresh token storage settings.
// An empty RedisURL keeps refresh tokens in SurrealDB.
type SessionConfig struct {
	RedisURL        string
	RefreshTokenTTL time.Duration
	CleanupInterval time.Duration
}

// SearchConfig holds Meilisearch settings. An empty URL disables the index.
type SearchConfig struct {
	MeiliURL    string
	MeiliAPIKey string
}

// RegistryConfig controls self-registration in the service registry
type RegistryConfig struct {
	ServiceName       string
	HeartbeatInterval time.Duration
}

// RateLimitConfig throttles the credential endpoints per client address.
// AuthRequests of zero disables the limiter.
type RateLimitConfig struct {
	AuthRequests int
	AuthWindow   time.Duration
}

// NotificationConfig controls the notification event stream
type NotificationConfig struct {
	HeartbeatInterval time.Duration
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Env:            getEnv("SERVER_ENV", "development"),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			AllowedOrigins: getSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Scheme:      getEnv("DB_SCHEME", "ws"),
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "8000"),
			Namespace:   getEnv("DB_NAMESPACE", "ideahub"),
			Database:    getEnv("DB_DATABASE", "main"),
			User:        getEnv("DB_USER", "root"),
			Password:    getEnv("DB_PASSWORD", "root"),
			AutoMigrate: getBoolEnv("DB_AUTO_MIGRATE", true),
		},
		JWT: JWTConfig{
			PrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./keys/private.pem"),
			PublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./keys/public.pem"),
			ExpirationMins: getIntEnv("JWT_EXPIRATION_MINS", 15),
			Issuer:         getEnv("JWT_ISSUER", "ideahub"),
		},
		Session: SessionConfig{
			RedisURL:        getEnv("REDIS_URL", ""),
			RefreshTokenTTL: getDurationEnv("REFRESH_TOKEN_TTL", 30*24*time.Hour),
			CleanupInterval: getDurationEnv("TOKEN_CLEANUP_INTERVAL", time.Hour),
		},
		Search: SearchConfig{
			MeiliURL:    getEnv("MEILI_URL", ""),
			MeiliAPIKey: getEnv("MEILI_API_KEY", ""),
		},
		Registry: RegistryConfig{
			ServiceName:       getEnv("REGISTRY_SERVICE_NAME", "ideahub-api"),
			HeartbeatInterval: getDurationEnv("REGISTRY_HEARTBEAT_INTERVAL", 30*time.Second),
		},
		Limits: RateLimitConfig{
			AuthRequests: getIntEnv("AUTH_RATE_LIMIT", 20),
			AuthWindow:   getDurationEnv("AUTH_RATE_WINDOW", time.Minute),
		},
		Notifications: NotificationConfig{
			HeartbeatInterval: getDurationEnv("NOTIFICATION_HEARTBEAT_INTERVAL", 30*time.Second),
		},
	}

	if raw := os.Getenv("DATABASE_URL"); raw != "" {
		if err := cfg.Database.applyURL(raw); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// applyURL overrides the connection settings from a single
// ws://user:pass@host:port/namespace/database string.
func (d *DatabaseConfig) applyURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("DATABASE_URL: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("DATABASE_URL: unsupported scheme %q", u.Scheme)
	}
	if u.Hostname() == "" {
		return errors.New("DATABASE_URL: host is required")
	}

	d.Scheme = u.Scheme
	d.Host = u.Hostname()
	if port := u.Port(); port != "" {
		d.Port = port
	}
	if u.User != nil {
		d.User = u.User.Username()
		if pass, ok := u.User.Password(); ok {
			d.Password = pass
		}
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) > 0 && segments[0] != "" {
		d.Namespace = segments[0]
	}
	if len(segments) > 1 && segments[1] != "" {
		d.Database = segments[1]
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got '%s'", c.Log.Level))
	}

	if c.Database.Scheme != "ws" && c.Database.Scheme != "wss" {
		errs = append(errs, fmt.Errorf("DB_SCHEME must be 'ws' or 'wss', got '%s'", c.Database.Scheme))
	}
	if c.Database.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.Database.Port == "" {
		errs = append(errs, errors.New("DB_PORT is required"))
	}
	if c.Database.Namespace == "" {
		errs = append(errs, errors.New("DB_NAMESPACE is required"))
	}
	if c.Database.Database == "" {
		errs = append(errs, errors.New("DB_DATABASE is required"))
	}

	if c.IsProduction() {
		if c.JWT.PrivateKeyPath == "" {
			errs = append(errs, errors.New("JWT_PRIVATE_KEY_PATH is required in production"))
		}
		if c.JWT.PublicKeyPath == "" {
			errs = append(errs, errors.New("JWT_PUBLIC_KEY_PATH is required in production"))
		}
	}
	if c.JWT.ExpirationMins <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION_MINS must be positive"))
	}

	if c.Session.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("REFRESH_TOKEN_TTL must be positive"))
	}
	if c.Session.RedisURL != "" && !strings.HasPrefix(c.Session.RedisURL, "redis://") && !strings.HasPrefix(c.Session.RedisURL, "rediss://") {
		errs = append(errs, errors.New("REDIS_URL must start with redis:// or rediss://"))
	}

	if c.Search.MeiliURL == "" && c.Search.MeiliAPIKey != "" {
		errs = append(errs, errors.New("MEILI_API_KEY is set but MEILI_URL is empty"))
	}

	if c.Registry.ServiceName != "" && c.Registry.HeartbeatInterval <= 0 {
		errs = append(errs, errors.New("REGISTRY_HEARTBEAT_INTERVAL must be positive when REGISTRY_SERVICE_NAME is set"))
	}

	if c.Limits.AuthRequests < 0 {
		errs = append(errs, errors.New("AUTH_RATE_LIMIT must not be negative"))
	}
	if c.Limits.AuthRequests > 0 && c.Limits.AuthWindow <= 0 {
		errs = append(errs, errors.New("AUTH_RATE_WINDOW must be positive when AUTH_RATE_LIMIT is set"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
