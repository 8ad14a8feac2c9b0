package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server    ServerConfig
	App       AppConfig
	Store     StoreConfig
	Cache     CacheConfig
	LLM       LLMConfig
	Sync      SyncConfig
	Profile   ProfileConfig
	Retention RetentionConfig
	Auth      AuthConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	CORSOrigins     []string      `envconfig:"SERVER_CORS_ORIGINS" default:"*"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"owners-health-api"`
	Environment string `envconfig:"APP_ENV" default:"development" validate:"oneof=development staging production"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
	LogLevel    string `envconfig:"APP_LOG_LEVEL" default:"info" validate:"oneof=trace debug info warn warning error fatal panic"`
	LogFormat   string `envconfig:"APP_LOG_FORMAT" default:""`
	// Timezone decides where an operator's day starts.
	Timezone string `envconfig:"APP_TIMEZONE" default:"UTC"`
}

// StoreConfig holds record store settings.
type StoreConfig struct {
	Type string `envconfig:"STORE_TYPE" default:"sqlite" validate:"oneof=sqlite mysql"`
	Path string `envconfig:"STORE_PATH" default:"./data/owners.db"`

	// MySQL settings
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"3306"`
	Name     string `envconfig:"DB_NAME" default:"owners"`
	User     string `envconfig:"DB_USER" default:"root"`
	Password string `envconfig:"DB_PASS" default:""`
}

// CacheConfig holds cache settings.
type CacheConfig struct {
	Type string        `envconfig:"CACHE_TYPE" default:"memory" validate:"oneof=memory redis"`
	TTL  time.Duration `envconfig:"CACHE_TTL" default:"1h"`

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	RedisPrefix   string `envconfig:"REDIS_PREFIX" default:"owners:cache:"`
}

// LLMConfig holds text generation provider settings.
type LLMConfig struct {
	APIKey  string        `envconfig:"LLM_API_KEY" default:""`
	BaseURL string        `envconfig:"LLM_BASE_URL" default:"https://api.openai.com/v1" validate:"url"`
	Model   string        `envconfig:"LLM_MODEL" default:"gpt-4o-mini"`
	Timeout time.Duration `envconfig:"LLM_TIMEOUT" default:"60s"`
}

// SyncConfig holds challenge settings.
type SyncConfig struct {
	NonceBytes int `envconfig:"SYNC_NONCE_BYTES" default:"16" validate:"min=8,max=64"`
}

// ProfileConfig points at an optional YAML profile catalog.
type ProfileConfig struct {
	CatalogPath string `envconfig:"PROFILE_CATALOG_PATH" default:""`
}

// RetentionConfig holds the retention sweeper settings.
type RetentionConfig struct {
	History  time.Duration `envconfig:"RETENTION_HISTORY" default:"2160h"`
	Todo     time.Duration `envconfig:"RETENTION_TODO" default:"720h"`
	Interval time.Duration `envconfig:"RETENTION_INTERVAL" default:"6h"`
}

// AuthConfig holds API access settings.
type AuthConfig struct {
	// APIKeys are accepted from X-API-Key or a Bearer header. Empty
	// disables the check, which is only allowed in development.
	APIKeys []string `envconfig:"AUTH_API_KEYS" default:""`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return net.JoinHostPort(c.RedisHost, strconv.Itoa(c.RedisPort))
}

// DSN returns the MySQL data source name. clientFoundRows makes a
// conditional update that rewrites identical values still report a match.
func (s *StoreConfig) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = s.User
	cfg.Passwd = s.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
	cfg.DBName = s.Name
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN()
}

// Location returns the configured timezone.
func (a *AppConfig) Location() (*time.Location, error) {
	return time.LoadLocation(a.Timezone)
}

// Format returns the log format, defaulting to text in development.
func (a *AppConfig) Format() string {
	if a.LogFormat != "" {
		return a.LogFormat
	}
	if a.IsDevelopment() {
		return "text"
	}
	return "json"
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// Keys returns the configured API keys without blanks.
func (a *AuthConfig) Keys() []string {
	keys := make([]string, 0, len(a.APIKeys))
	for _, k := range a.APIKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.App.Location(); err != nil {
		return fmt.Errorf("invalid config: APP_TIMEZONE: %w", err)
	}
	if c.App.IsProduction() && len(c.Auth.Keys()) == 0 {
		return fmt.Errorf("invalid config: AUTH_API_KEYS is required in production")
	}
	return nil
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
