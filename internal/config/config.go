package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the normalizer service.
// It includes the environment, monitoring server port, resolver settings,
// worker pool sizing, and database configuration.
type Config struct {
	Env          string         `mapstructure:"env"`        // Env is the current environment: local, dev, prod.
	Port         int            `mapstructure:"port"`       // Port is the monitoring server port.
	ResolverType string         `mapstructure:"resolver"`   // ResolverType specifies which resolver chain to use.
	APIKey       string         `mapstructure:"api_key"`    // The API key for the geocoding fallback (required for Google).
	RateLimit    int            `mapstructure:"rate_limit"` // RateLimit caps fallback requests per second.
	Workers      int            `mapstructure:"workers"`    // The number of concurrent workers for processing tasks.
	Interval     time.Duration  `mapstructure:"interval"`   // The duration between polling intervals.
	Database     PostgresConfig `mapstructure:"postgres"`   // Database holds the postgres database configuration.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`     // Host is the database server address.
	Port     string `mapstructure:"port"`     // Port is the database server port.
	User     string `mapstructure:"user"`     // User is the database user.
	Password string `mapstructure:"password"` // Password is the database user's password.
	Name     string `mapstructure:"db_name"`  // Name is the name of the database.
}

// Load reads configuration from an optional YAML file and from MERIDIAN_*
// environment variables. An empty path falls back to a config.yaml in the
// working directory, and a missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("env", "production")
	v.SetDefault("port", 8080)
	v.SetDefault("resolver", "codec")
	v.SetDefault("api_key", "")
	v.SetDefault("rate_limit", 10)
	v.SetDefault("workers", 10)
	v.SetDefault("interval", "10m")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.db_name", "")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: MERIDIAN_POSTGRES_HOST -> postgres.host
	v.SetEnvPrefix("MERIDIAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad is a Load wrapper that panics on failure. Intended for main.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	return cfg
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Sprintf("port must be 1-65535, got %d", c.Port))
	}
	if c.ResolverType == "" {
		errs = append(errs, "resolver is required")
	}
	if c.Workers <= 0 {
		errs = append(errs, "workers must be positive")
	}
	if c.Interval <= 0 {
		errs = append(errs, "interval must be positive")
	}
	if c.Database.Host == "" {
		errs = append(errs, "postgres.host is required")
	}
	if c.Database.Port == "" {
		errs = append(errs, "postgres.port is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
