// Package config loads application settings from config files and the
// environment. APP_ENV selects a profile file that is merged over the base one.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"

	defaultEnv = "local"
)

type Config struct {
	Env             string        `mapstructure:"APP_ENV"`
	// Debug makes the console log every level with source locations.
	Debug           bool          `mapstructure:"DEBUG"`
	ServerAddr      string        `mapstructure:"SERVER_ADDR"`
	ReadTimeout     time.Duration `mapstructure:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `mapstructure:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`

	StoreDriver   string        `mapstructure:"STORE_DRIVER"`
	MongoURI      string        `mapstructure:"MONGO_URI"`
	MongoDatabase string        `mapstructure:"MONGO_DATABASE"`
	MongoTimeout  time.Duration `mapstructure:"MONGO_TIMEOUT"`

	LogLevel      string `mapstructure:"LOG_LEVEL"`
	LogFile       string `mapstructure:"LOG_FILE"`
	LogMaxSizeMB  int    `mapstructure:"LOG_MAX_SIZE_MB"`
	LogMaxBackups int    `mapstructure:"LOG_MAX_BACKUPS"`

	MetricsEnabled bool `mapstructure:"METRICS_ENABLED"`

	// FollowIdempotent makes a repeated follow succeed instead of failing
	// with "Failed to follow user".
	FollowIdempotent bool `mapstructure:"FOLLOW_IDEMPOTENT"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", defaultEnv)
	v.SetDefault("DEBUG", false)
	v.SetDefault("SERVER_ADDR", ":8080")
	v.SetDefault("READ_TIMEOUT", "10s")
	v.SetDefault("WRITE_TIMEOUT", "10s")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "twitter_db")
	v.SetDefault("MONGO_TIMEOUT", "10s")

	v.SetDefault("LOG_LEVEL", "debug")
	v.SetDefault("LOG_FILE", "logs/app.log")
	v.SetDefault("LOG_MAX_SIZE_MB", 10)
	v.SetDefault("LOG_MAX_BACKUPS", 3)

	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("FOLLOW_IDEMPOTENT", false)
}

// Load reads config.yaml from the search paths (". " and "./config" when none
// are given), merges config.<APP_ENV>.yaml over it and applies environment
// variables on top. A profile other than "local" must have its own file.
func Load(paths ...string) (*Config, error) {
	if len(paths) == 0 {
		paths = []string{".", "./config"}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetConfigName("config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read base config: %w", err)
		}
	}

	env := strings.TrimSpace(v.GetString("APP_ENV"))
	if env == "" {
		env = defaultEnv
	}
	v.SetConfigName("config." + env)
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || env != defaultEnv {
			return nil, fmt.Errorf("settings profile for environment %q: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Env = env

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.ServerAddr == "" {
		errs = append(errs, errors.New("SERVER_ADDR is required"))
	}
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI is required"))
		}
		if c.MongoDatabase == "" {
			errs = append(errs, errors.New("MONGO_DATABASE is required"))
		}
		if c.MongoTimeout <= 0 {
			errs = append(errs, errors.New("MONGO_TIMEOUT must be positive"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}
	if c.LogFile != "" {
		if c.LogMaxSizeMB <= 0 {
			errs = append(errs, errors.New("LOG_MAX_SIZE_MB must be positive"))
		}
		if c.LogMaxBackups < 0 {
			errs = append(errs, errors.New("LOG_MAX_BACKUPS must not be negative"))
		}
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Level parses LOG_LEVEL.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	return level, nil
}
