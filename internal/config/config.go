package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrUnsupportedDriver           = errors.New("unsupported database driver")
	ErrUnsupportedSessionBackend   = errors.New("unsupported session backend")
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	SessionMemory = "memory"
	SessionRedis  = "redis"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env     string  `mapstructure:"env"` // current application environment (local, dev, production etc)
	HTTP    HTTP    `mapstructure:"http"`
	DB      DB      `mapstructure:"database"`
	Session Session `mapstructure:"session"`
	Redis   Redis   `mapstructure:"redis"`
	Admin   Admin   `mapstructure:"admin"`
	Quiz    Quiz    `mapstructure:"quiz"`
}

// HTTP contains web server settings.
type HTTP struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DB contains database-related configuration parameters.
type DB struct {
	Driver          string        `mapstructure:"driver"`            // sqlite or postgres
	Path            string        `mapstructure:"path"`              // sqlite database file
	URL             string        `mapstructure:"-"`                 // postgres connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Session contains session cookie and storage settings.
type Session struct {
	Backend      string        `mapstructure:"backend"` // memory or redis
	CookieName   string        `mapstructure:"cookie_name"`
	TTL          time.Duration `mapstructure:"ttl"`
	SecureCookie bool          `mapstructure:"secure_cookie"`
}

// Redis contains the Redis connection used by the redis session backend.
type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Admin identifies the built-in admin account.
type Admin struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"-"` // used by bootstrap only, loaded from environment
}

// Quiz contains exam and listing defaults.
type Quiz struct {
	DefaultQuestions int `mapstructure:"default_questions"`
	PageSize         int `mapstructure:"page_size"`
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	return load("./config")
}

func load(paths ...string) (*Config, error) {
	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", "15s")
	v.SetDefault("http.write_timeout", "15s")
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "quiz.db")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("session.backend", SessionMemory)
	v.SetDefault("session.cookie_name", "myquest_session")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("session.secure_cookie", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("admin.email", "admin@example.com")
	v.SetDefault("quiz.default_questions", 10)
	v.SetDefault("quiz.page_size", 20)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("admin_password", "ADMIN_PASSWORD")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.DB.URL = v.GetString("database_url")
	cfg.Admin.Password = v.GetString("admin_password")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.DB.URL == "" {
			return ErrMissingEnvironmentVariables
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedDriver, c.DB.Driver)
	}

	switch c.Session.Backend {
	case SessionMemory, SessionRedis:
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedSessionBackend, c.Session.Backend)
	}

	return nil
}
