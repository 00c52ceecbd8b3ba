package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StorageFile     = "file"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"

	NotifyLog  = "log"
	NotifyAMQP = "amqp"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Notify  NotifyConfig  `yaml:"notify"`
	Auth    AuthConfig    `yaml:"auth"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Mode string `yaml:"mode"`
}

// StorageConfig selects where restaurant state is saved. Path is used by the
// file and sqlite drivers, DSN by postgres.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
}

type NotifyConfig struct {
	Driver   string `yaml:"driver"`
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

type AuthConfig struct {
	Secret   string        `yaml:"secret"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func Default() *Config {
	return &Config{
		Server:  ServerConfig{Port: "8080", Mode: "debug"},
		Storage: StorageConfig{Driver: StorageFile, Path: "restaurant_data.json"},
		Notify:  NotifyConfig{Driver: NotifyLog, Exchange: "orderease.notifications"},
		Auth:    AuthConfig{Secret: "orderease_role_secret", TokenTTL: 12 * time.Hour},
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads a YAML file over the defaults and then applies environment
// overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfig returns the first config file that exists.
func FindConfig() (string, error) {
	for _, p := range []string{"config.yaml", "deploy/config.yaml"} {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fs.ErrNotExist
}

func (c *Config) applyEnv() error {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.Mode = getEnv("GIN_MODE", c.Server.Mode)
	c.Storage.Driver = getEnv("STORAGE_DRIVER", c.Storage.Driver)
	c.Storage.Path = getEnv("STORAGE_PATH", c.Storage.Path)
	c.Storage.DSN = getEnv("DATABASE_URL", c.Storage.DSN)
	c.Notify.Driver = getEnv("NOTIFY_DRIVER", c.Notify.Driver)
	c.Notify.URL = getEnv("AMQP_URL", c.Notify.URL)
	c.Notify.Exchange = getEnv("NOTIFY_EXCHANGE", c.Notify.Exchange)
	c.Auth.Secret = getEnv("ROLE_TOKEN_SECRET", c.Auth.Secret)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	if v := os.Getenv("ROLE_TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid ROLE_TOKEN_TTL %q: %w", v, err)
		}
		c.Auth.TokenTTL = ttl
	}
	return nil
}

func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid server.port %q", c.Server.Port)
	}
	switch c.Storage.Driver {
	case StorageFile, StorageSQLite:
		if c.Storage.Path == "" {
			return errors.New("storage.path is required for the " + c.Storage.Driver + " driver")
		}
	case StoragePostgres:
		if c.Storage.DSN == "" {
			return errors.New("storage.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	switch c.Notify.Driver {
	case NotifyLog:
	case NotifyAMQP:
		if c.Notify.URL == "" {
			return errors.New("notify.url is required for the amqp driver")
		}
	default:
		return fmt.Errorf("unknown notify.driver %q", c.Notify.Driver)
	}
	if c.Auth.Secret == "" {
		return errors.New("auth.secret must not be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
