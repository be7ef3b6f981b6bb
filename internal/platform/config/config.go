package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration tree.
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Cache    CacheConfig    `json:"cache"`
	Session  SessionConfig  `json:"session"`
	OAuth    OAuthConfig    `json:"oauth"`
	Admin    AdminConfig    `json:"admin"`
	App      AppConfig      `json:"app"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	WebDomain string `json:"webDomain"`
	Debug     bool   `json:"debug"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Postgres PostgreSQLConfig `json:"postgres"`
}

// PostgreSQLConfig holds PostgreSQL-specific configuration
type PostgreSQLConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	Username        string        `json:"username"`
	Password        string        `json:"password"`
	Database        string        `json:"database"`
	SSLMode         string        `json:"sslMode"`
	MaxOpenConns    int           `json:"maxOpenConns"`
	MaxIdleConns    int           `json:"maxIdleConns"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime"`
	ConnectTimeout  int           `json:"connectTimeout"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Enabled bool          `json:"enabled"`
	Backend string        `json:"backend"`
	Prefix  string        `json:"prefix"`
	TTL     time.Duration `json:"ttl"`
	Redis   RedisConfig   `json:"redis"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Address      string        `json:"address"`
	Password     string        `json:"password"`
	Database     int           `json:"database"`
	PoolSize     int           `json:"poolSize"`
	MinIdleConns int           `json:"minIdleConns"`
	MaxConnAge   time.Duration `json:"maxConnAge"`
}

// SessionConfig holds admin-session configuration. Sessions are signed
// JWT cookies backed by a cached principal entry with its own expiry.
type SessionConfig struct {
	Secret     string        `json:"secret"`
	CookieName string        `json:"cookieName"`
	TTL        time.Duration `json:"ttl"`
}

// OAuthConfig holds the Google OAuth client configuration.
type OAuthConfig struct {
	GoogleClientID     string `json:"googleClientId"`
	GoogleClientSecret string `json:"googleClientSecret"`
	RedirectURL        string `json:"redirectUrl"`
}

// AdminConfig holds the admin access allowlist.
type AdminConfig struct {
	Emails []string `json:"emails"`
}

// IsAdminEmail reports whether the given email is on the allowlist.
func (a AdminConfig) IsAdminEmail(email string) bool {
	for _, allowed := range a.Emails {
		if strings.EqualFold(strings.TrimSpace(allowed), strings.TrimSpace(email)) {
			return true
		}
	}
	return false
}

// AppConfig holds application-related configuration
type AppConfig struct {
	Name      string `json:"name"`
	WebDomain string `json:"webDomain"`
	LoginPath string `json:"loginPath"`
}

// LoadFromEnv loads configuration from the environment.
// It follows a clear precedence:
// 1. Explicit Environment Variables (e.g., set in the shell or by CI)
// 2. Values from the .env file (if it exists)
// 3. Hardcoded defaults (if applicable)
func LoadFromEnv() (*Config, error) {
	// godotenv.Load() reads the .env file into the environment only for
	// values that are not already set, which gives the precedence above.
	envPaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	var loadErr error
	for _, envPath := range envPaths {
		loadErr = godotenv.Load(envPath)
		if loadErr == nil {
			break
		}
	}
	if loadErr != nil {
		fmt.Println("INFO: .env file not found, using environment variables and defaults.")
	}

	config := &Config{
		Server: ServerConfig{
			Host:      getEnvOrDefault("HOST", "localhost"),
			Port:      getEnvAsInt("SERVER_PORT", 8080),
			WebDomain: getEnvOrDefault("WEB_DOMAIN", "http://localhost:3000"),
			Debug:     getEnvAsBool("DEBUG", false),
		},
		Database: DatabaseConfig{
			Postgres: PostgreSQLConfig{
				Host:            getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:            getEnvAsInt("POSTGRES_PORT", 5432),
				Username:        getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password:        getEnvOrDefault("POSTGRES_PASSWORD", ""),
				Database:        getEnvOrDefault("POSTGRES_DB", "gunplahub"),
				SSLMode:         getEnvOrDefault("POSTGRES_SSL_MODE", "disable"),
				MaxOpenConns:    getEnvAsInt("POSTGRES_MAX_OPEN_CONNS", 25),
				MaxIdleConns:    getEnvAsInt("POSTGRES_MAX_IDLE_CONNS", 5),
				ConnMaxLifetime: getEnvAsDuration("POSTGRES_CONN_MAX_LIFETIME", 30*time.Minute),
				ConnectTimeout:  getEnvAsInt("POSTGRES_CONNECT_TIMEOUT", 10),
			},
		},
		Cache: CacheConfig{
			Enabled: getEnvAsBool("CACHE_ENABLED", true),
			Backend: getEnvOrDefault("CACHE_BACKEND", "memory"),
			Prefix:  getEnvOrDefault("CACHE_PREFIX", "gunplahub:"),
			TTL:     getEnvAsDuration("CACHE_TTL", 15*time.Minute),
			Redis: RedisConfig{
				Address:      getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password:     getEnvOrDefault("REDIS_PASSWORD", ""),
				Database:     getEnvAsInt("REDIS_DATABASE", 0),
				PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
				MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
				MaxConnAge:   getEnvAsDuration("REDIS_MAX_CONN_AGE", 30*time.Minute),
			},
		},
		Session: SessionConfig{
			Secret:     getEnvOrDefault("SESSION_SECRET", ""),
			CookieName: getEnvOrDefault("SESSION_COOKIE_NAME", "gunplahub_session"),
			TTL:        getEnvAsDuration("SESSION_TTL", 12*time.Hour),
		},
		OAuth: OAuthConfig{
			GoogleClientID:     getEnvOrDefault("GOOGLE_CLIENT_ID", ""),
			GoogleClientSecret: getEnvOrDefault("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:        getEnvOrDefault("GOOGLE_REDIRECT_URL", ""),
		},
		Admin: AdminConfig{
			Emails: getEnvAsList("ADMIN_EMAILS"),
		},
		App: AppConfig{
			Name:      getEnvOrDefault("APP_NAME", "GunplaHub"),
			WebDomain: getEnvOrDefault("WEB_DOMAIN", "http://localhost:3000"),
			LoginPath: getEnvOrDefault("LOGIN_PATH", "/admin/login"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if len(c.Admin.Emails) == 0 {
		return fmt.Errorf("ADMIN_EMAILS is required (comma-separated allowlist)")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	var out []string
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
