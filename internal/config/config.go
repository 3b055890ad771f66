package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultDSN         = "host=localhost user=postgres password=postgres dbname=bank port=5432 sslmode=disable"
	defaultCORSOrigins = "http://localhost:5173"
)

type Config struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	Database DatabaseConfig `mapstructure:"database"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
}

type HTTPConfig struct {
	Port        string `mapstructure:"port"`
	CORSOrigins string `mapstructure:"cors_origins"` // comma separated
}

type DatabaseConfig struct {
	// postgres or sqlite
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`

	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	SlowThreshold   time.Duration `mapstructure:"slow_threshold"`
}

type CatalogConfig struct {
	DefaultPageSize int `mapstructure:"default_page_size"`
	// Run the count and page queries of a branch listing in one read-only transaction.
	ConsistentReads bool `mapstructure:"consistent_reads"`
}

// AuthConfig enables bearer-token protection of the query API when JWTSecret is set.
type AuthConfig struct {
	JWTSecret         string        `mapstructure:"jwt_secret"`
	TokenTTL          time.Duration `mapstructure:"token_ttl"`
	AdminUser         string        `mapstructure:"admin_user"`
	AdminPasswordHash string        `mapstructure:"admin_password_hash"` // bcrypt
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console or json
}

func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Port:        "8000",
			CORSOrigins: defaultCORSOrigins,
		},
		Database: DatabaseConfig{
			Driver:          "postgres",
			DSN:             defaultDSN,
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			SlowThreshold:   200 * time.Millisecond,
		},
		Catalog: CatalogConfig{
			DefaultPageSize: 100,
		},
		Auth: AuthConfig{
			TokenTTL:  24 * time.Hour,
			AdminUser: "admin",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// environment variable names, kept compatible with the existing deployments
var envBindings = map[string]string{
	"http.port":                 "HTTP_PORT",
	"http.cors_origins":         "CORS_ALLOWED_ORIGINS",
	"database.driver":           "DATABASE_DRIVER",
	"database.dsn":              "DATABASE_URL",
	"catalog.default_page_size": "DEFAULT_PAGE_SIZE",
	"catalog.consistent_reads":  "CONSISTENT_READS",
	"auth.jwt_secret":           "JWT_SECRET",
	"auth.admin_user":           "ADMIN_USER",
	"auth.admin_password_hash":  "ADMIN_PASSWORD_HASH",
	"log.level":                 "LOG_LEVEL",
	"log.format":                "LOG_FORMAT",
}

// Load reads defaults, the config file configured on v (if any) and the
// environment into a validated Config.
func Load(v *viper.Viper) (*Config, error) {
	def := DefaultConfig()
	setDefaults(v, def)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	// a missing file is fine unless it was named explicitly
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("http.port", d.HTTP.Port)
	v.SetDefault("http.cors_origins", d.HTTP.CORSOrigins)
	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("database.max_open_conns", d.Database.MaxOpenConns)
	v.SetDefault("database.max_idle_conns", d.Database.MaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", d.Database.ConnMaxLifetime)
	v.SetDefault("database.slow_threshold", d.Database.SlowThreshold)
	v.SetDefault("catalog.default_page_size", d.Catalog.DefaultPageSize)
	v.SetDefault("catalog.consistent_reads", d.Catalog.ConsistentReads)
	v.SetDefault("auth.jwt_secret", d.Auth.JWTSecret)
	v.SetDefault("auth.token_ttl", d.Auth.TokenTTL)
	v.SetDefault("auth.admin_user", d.Auth.AdminUser)
	v.SetDefault("auth.admin_password_hash", d.Auth.AdminPasswordHash)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

func (c *Config) Validate() error {
	var errs []string

	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Sprintf("database.driver must be postgres or sqlite, got %q", c.Database.Driver))
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		errs = append(errs, "database.dsn is required")
	}
	if c.Catalog.DefaultPageSize <= 0 {
		errs = append(errs, "catalog.default_page_size must be positive")
	}
	if c.Auth.JWTSecret != "" {
		if len(c.Auth.JWTSecret) < 32 {
			errs = append(errs, "auth.jwt_secret must be at least 32 characters")
		}
		if c.Auth.TokenTTL <= 0 {
			errs = append(errs, "auth.token_ttl must be positive")
		}
	}
	if c.Auth.AdminPasswordHash != "" && c.Auth.AdminUser == "" {
		errs = append(errs, "auth.admin_user is required with auth.admin_password_hash")
	}

	if len(errs) > 0 {
		return errors.New("invalid configuration: " + strings.Join(errs, "; "))
	}
	return nil
}

// Warnings lists settings that are valid but should not reach production.
func (c *Config) Warnings() []string {
	var warns []string
	if c.Database.DSN == defaultDSN {
		warns = append(warns, "DATABASE_URL uses the default value, set your own Postgres connection for production")
	}
	if c.HTTP.CORSOrigins == defaultCORSOrigins {
		warns = append(warns, "CORS_ALLOWED_ORIGINS uses the default value, set your own domain for production")
	}
	if c.Auth.JWTSecret == "" {
		warns = append(warns, "JWT_SECRET is not set, the query API is served without authentication")
	}
	return warns
}

// CORSOriginList splits CORSOrigins and trims every entry.
func (c *Config) CORSOriginList() []string {
	origins := strings.Split(c.HTTP.CORSOrigins, ",")
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
