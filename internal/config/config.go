package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the process configuration. A YAML file named by CONFIG_FILE supplies defaults and
// environment variables override it.
type Config struct {
	DatabaseURL string       `yaml:"database_url"`
	Port        string       `yaml:"port"`
	LogLevel    string       `yaml:"log_level"`
	Redis       RedisConfig  `yaml:"redis"`
	Minio       MinioConfig  `yaml:"minio"`
	AuditExport ExportConfig `yaml:"audit_export"`
	Orders      OrdersConfig `yaml:"orders"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// ExportConfig controls the scheduled audit export. An empty bucket disables it.
type ExportConfig struct {
	Bucket   string        `yaml:"bucket"`
	Interval time.Duration `yaml:"interval"`
}

type OrdersConfig struct {
	DefaultMinDownpaymentPercent int `yaml:"default_min_downpayment_percent"`
}

// Defaults returns the development configuration.
func Defaults() *Config {
	return &Config{
		Port:     "8080",
		LogLevel: "info",
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Minio: MinioConfig{
			Endpoint:  "localhost:9000",
			AccessKey: "minioadmin",
			SecretKey: "minioadmin",
		},
		AuditExport: ExportConfig{
			Bucket:   "orderdesk-audit",
			Interval: 24 * time.Hour,
		},
		Orders: OrdersConfig{
			DefaultMinDownpaymentPercent: 30,
		},
	}
}

// Load reads .env when present, then the optional YAML file, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.overrideWithEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (c *Config) overrideWithEnv() error {
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.Port, "PORT")
	setString(&c.LogLevel, "LOG_LEVEL")

	// an explicitly empty REDIS_ADDR turns caching off
	if val, ok := os.LookupEnv("REDIS_ADDR"); ok {
		c.Redis.Addr = strings.TrimSpace(val)
	}
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	if err := setInt(&c.Redis.DB, "REDIS_DB"); err != nil {
		return err
	}

	setString(&c.Minio.Endpoint, "MINIO_ENDPOINT")
	setString(&c.Minio.AccessKey, "MINIO_ACCESS_KEY")
	setString(&c.Minio.SecretKey, "MINIO_SECRET_KEY")
	if val := os.Getenv("MINIO_USE_SSL"); val != "" {
		useSSL, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("MINIO_USE_SSL: %w", err)
		}
		c.Minio.UseSSL = useSSL
	}

	if val, ok := os.LookupEnv("AUDIT_EXPORT_BUCKET"); ok {
		c.AuditExport.Bucket = strings.TrimSpace(val)
	}
	if val := os.Getenv("AUDIT_EXPORT_INTERVAL"); val != "" {
		interval, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("AUDIT_EXPORT_INTERVAL: %w", err)
		}
		c.AuditExport.Interval = interval
	}

	return setInt(&c.Orders.DefaultMinDownpaymentPercent, "DEFAULT_MIN_DOWNPAYMENT_PERCENT")
}

// Validate checks required settings and ranges.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if p := c.Orders.DefaultMinDownpaymentPercent; p < 0 || p > 100 {
		return fmt.Errorf("DEFAULT_MIN_DOWNPAYMENT_PERCENT must be between 0 and 100, got %d", p)
	}
	if c.AuditExport.Bucket != "" && c.AuditExport.Interval <= 0 {
		return fmt.Errorf("AUDIT_EXPORT_INTERVAL must be positive")
	}
	return nil
}

func setString(dst *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func setInt(dst *int, key string) error {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("%s must be an integer: %w", key, err)
	}
	*dst = n
	return nil
}
