package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	AppHost                string `yaml:"app_host"`
	AppPort                string `yaml:"app_port"`
	APIPrefix              string `yaml:"api_prefix"`
	DatabaseDriver         string `yaml:"database_driver"`
	DatabaseDSN            string `yaml:"database_dsn"`
	RateLimit              int    `yaml:"rate_limit_per_minute"`
	RedisHost              string `yaml:"redis_host"`
	RedisPort              string `yaml:"redis_port"`
	RedisKeyPrefix         string `yaml:"redis_key_prefix"`
	ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
	SitePassword           string `yaml:"site_password"`
	PasswordHashCost       int    `yaml:"password_hash_cost"`
	LogLevel               string `yaml:"log_level"`
	LogFormat              string `yaml:"log_format"`
	LogFile                string `yaml:"log_file"`
	EstimateEndpoint       string `yaml:"estimate_endpoint"`
	EstimateAPIKey         string `yaml:"estimate_api_key"`
	EstimateModel          string `yaml:"estimate_model"`
	EstimateTimeoutSeconds int    `yaml:"estimate_timeout_seconds"`
	MetricsEnabled         bool   `yaml:"metrics_enabled"`
}

func Defaults() Config {
	return Config{
		AppHost:                "127.0.0.1",
		AppPort:                "3000",
		DatabaseDriver:         DriverSQLite,
		DatabaseDSN:            "data/app.db",
		RateLimit:              120,
		RedisPort:              "6379",
		RedisKeyPrefix:         "snow_board:ratelimit",
		ShutdownTimeoutSeconds: 20,
		PasswordHashCost:       10,
		LogLevel:               "info",
		LogFormat:              "json",
		EstimateModel:          "gpt-4o-mini",
		EstimateTimeoutSeconds: 25,
		MetricsEnabled:         true,
	}
}

// Load layers defaults, then the optional YAML file at path, then environment
// variables.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	var err error

	cfg.AppHost = getEnv("APP_HOST", cfg.AppHost)
	cfg.AppPort = getEnv("APP_PORT", cfg.AppPort)
	cfg.APIPrefix = getEnv("API_PREFIX", cfg.APIPrefix)
	cfg.DatabaseDriver = getEnv("DATABASE_DRIVER", cfg.DatabaseDriver)
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", cfg.DatabaseDSN)
	cfg.RedisHost = getEnv("REDIS_HOST", cfg.RedisHost)
	cfg.RedisPort = getEnv("REDIS_PORT", cfg.RedisPort)
	cfg.RedisKeyPrefix = getEnv("REDIS_KEY_PREFIX", cfg.RedisKeyPrefix)
	cfg.SitePassword = getEnv("SITE_PASSWORD", cfg.SitePassword)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)
	cfg.EstimateEndpoint = getEnv("ESTIMATE_ENDPOINT", cfg.EstimateEndpoint)
	cfg.EstimateAPIKey = getEnv("ESTIMATE_API_KEY", cfg.EstimateAPIKey)
	cfg.EstimateModel = getEnv("ESTIMATE_MODEL", cfg.EstimateModel)

	if cfg.RateLimit, err = getEnvAsInt("RATE_LIMIT_PER_MINUTE", cfg.RateLimit); err != nil {
		return err
	}
	if cfg.ShutdownTimeoutSeconds, err = getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", cfg.ShutdownTimeoutSeconds); err != nil {
		return err
	}
	if cfg.PasswordHashCost, err = getEnvAsInt("PASSWORD_HASH_COST", cfg.PasswordHashCost); err != nil {
		return err
	}
	if cfg.EstimateTimeoutSeconds, err = getEnvAsInt("ESTIMATE_TIMEOUT_SECONDS", cfg.EstimateTimeoutSeconds); err != nil {
		return err
	}
	if cfg.MetricsEnabled, err = getEnvAsBool("METRICS_ENABLED", cfg.MetricsEnabled); err != nil {
		return err
	}

	cfg.APIPrefix = strings.TrimRight(cfg.APIPrefix, "/")
	return nil
}

func (c Config) AppURL() string {
	return fmt.Sprintf("%s:%s", c.AppHost, c.AppPort)
}

// RedisAddr is empty when no Redis host is configured; the server then keeps
// rate-limit state in memory.
func (c Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func validate(cfg Config) error {
	if cfg.AppHost == "" || cfg.AppPort == "" {
		return errors.New("APP_HOST and APP_PORT must not be empty")
	}
	if cfg.APIPrefix != "" && !strings.HasPrefix(cfg.APIPrefix, "/") {
		return errors.New("API_PREFIX must start with /")
	}
	if cfg.DatabaseDSN == "" {
		return errors.New("DATABASE_DSN must not be empty")
	}
	if !isKnownDriver(cfg.DatabaseDriver) {
		return fmt.Errorf("DATABASE_DRIVER %q is not supported", cfg.DatabaseDriver)
	}
	if cfg.RateLimit <= 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if cfg.ShutdownTimeoutSeconds <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT_SECONDS must be greater than 0")
	}
	if cfg.EstimateTimeoutSeconds <= 0 {
		return errors.New("ESTIMATE_TIMEOUT_SECONDS must be greater than 0")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) (int, error) {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid integer value for %s", key)
		}
		return i, nil
	}
	return defaultVal, nil
}

func getEnvAsBool(key string, defaultVal bool) (bool, error) {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("invalid boolean value for %s", key)
		}
		return b, nil
	}
	return defaultVal, nil
}
