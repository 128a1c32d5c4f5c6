package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	StorageDriverMemory = "memory"
	StorageDriverMySQL  = "mysql"
)

var (
	ErrMissingJWTSecret   = errors.New("auth.jwt_secret must be set")
	ErrInvalidJWTExpiry   = errors.New("auth.jwt_expire_minute must be positive")
	ErrUnknownStorageType = errors.New("unknown storage driver")
)

type Config struct {
	App       AppConfig       `toml:"app"`
	Auth      AuthConfig      `toml:"auth"`
	Storage   StorageConfig   `toml:"storage"`
	MySQL     MySQLConfig     `toml:"mysql"`
	Redis     RedisConfig     `toml:"redis"`
	RabbitMQ  RabbitMQConfig  `toml:"rabbitmq"`
	Chat      ChatConfig      `toml:"chat"`
	Documents DocumentsConfig `toml:"documents"`
}

type AppConfig struct {
	Name    string `toml:"name"`
	Env     string `toml:"env"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	GinMode string `toml:"gin_mode"`

	ShutdownTimeoutSeconds int `toml:"shutdown_timeout_seconds"`
}

type AuthConfig struct {
	JWTSecret       string `toml:"jwt_secret"`
	JWTExpireMinute int    `toml:"jwt_expire_minute"`
}

// StorageConfig selects the gorm dialector. "memory" keeps every store in a
// process-local SQLite database that is discarded on shutdown.
type StorageConfig struct {
	Driver string `toml:"driver"`
}

type MySQLConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	DB       string `toml:"db"`
	Params   string `toml:"params"`

	MaxOpenConns           int `toml:"max_open_conns"`
	MaxIdleConns           int `toml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int `toml:"conn_max_lifetime_minutes"`
	PingTimeoutSeconds     int `toml:"ping_timeout_seconds"`
}

func (m MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		m.User,
		m.Password,
		m.Host,
		m.Port,
		m.DB,
		m.Params,
	)
}

// RedisConfig enables the chat history cache when Addr is non-empty.
type RedisConfig struct {
	Addr              string `toml:"addr"`
	Password          string `toml:"password"`
	DB                int    `toml:"db"`
	HistoryTTLSeconds int    `toml:"history_ttl_seconds"`
}

// RabbitMQConfig enables activity events when URL is non-empty.
type RabbitMQConfig struct {
	URL           string `toml:"url"`
	ActivityQueue string `toml:"activity_queue"`
}

type ChatConfig struct {
	EnforceOwnership bool `toml:"enforce_ownership"`
}

type DocumentsConfig struct {
	CascadeChatOnDelete bool `toml:"cascade_chat_on_delete"`
}

func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return ErrMissingJWTSecret
	}
	if c.Auth.JWTExpireMinute <= 0 {
		return ErrInvalidJWTExpiry
	}
	switch c.Storage.Driver {
	case StorageDriverMemory, StorageDriverMySQL:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorageType, c.Storage.Driver)
	}
	return nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:    "documind",
			Env:     "dev",
			Host:    "0.0.0.0",
			Port:    8000,
			GinMode: "debug",

			ShutdownTimeoutSeconds: 5,
		},
		Auth: AuthConfig{
			JWTExpireMinute: 30,
		},
		Storage: StorageConfig{
			Driver: StorageDriverMemory,
		},
		MySQL: MySQLConfig{
			Host:   "127.0.0.1",
			Port:   3306,
			User:   "root",
			DB:     "documind",
			Params: "parseTime=true&loc=Local&charset=utf8mb4",

			MaxOpenConns:           50,
			MaxIdleConns:           10,
			ConnMaxLifetimeMinutes: 60,
			PingTimeoutSeconds:     3,
		},
		Redis: RedisConfig{
			HistoryTTLSeconds: 60,
		},
		RabbitMQ: RabbitMQConfig{
			ActivityQueue: "documind.activity",
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)
	cfg.App.ShutdownTimeoutSeconds = getEnvAsInt("APP_SHUTDOWN_TIMEOUT_SECONDS", cfg.App.ShutdownTimeoutSeconds)
	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.JWTExpireMinute = getEnvAsInt("JWT_EXPIRE_MINUTE", cfg.Auth.JWTExpireMinute)

	cfg.Storage.Driver = strings.ToLower(getEnv("STORAGE_DRIVER", cfg.Storage.Driver))

	cfg.MySQL.Host = getEnv("MYSQL_HOST", cfg.MySQL.Host)
	cfg.MySQL.Port = getEnvAsInt("MYSQL_PORT", cfg.MySQL.Port)
	cfg.MySQL.User = getEnv("MYSQL_USER", cfg.MySQL.User)
	cfg.MySQL.Password = getEnv("MYSQL_PASSWORD", cfg.MySQL.Password)
	cfg.MySQL.DB = getEnv("MYSQL_DB", cfg.MySQL.DB)
	cfg.MySQL.Params = getEnv("MYSQL_PARAMS", cfg.MySQL.Params)
	cfg.MySQL.MaxOpenConns = getEnvAsInt("MYSQL_MAX_OPEN_CONNS", cfg.MySQL.MaxOpenConns)
	cfg.MySQL.MaxIdleConns = getEnvAsInt("MYSQL_MAX_IDLE_CONNS", cfg.MySQL.MaxIdleConns)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.HistoryTTLSeconds = getEnvAsInt("REDIS_HISTORY_TTL_SECONDS", cfg.Redis.HistoryTTLSeconds)

	cfg.RabbitMQ.URL = getEnv("RABBITMQ_URL", cfg.RabbitMQ.URL)
	cfg.RabbitMQ.ActivityQueue = getEnv("RABBITMQ_ACTIVITY_QUEUE", cfg.RabbitMQ.ActivityQueue)

	cfg.Chat.EnforceOwnership = getEnvAsBool("CHAT_ENFORCE_OWNERSHIP", cfg.Chat.EnforceOwnership)
	cfg.Documents.CascadeChatOnDelete = getEnvAsBool("DOCUMENTS_CASCADE_CHAT_ON_DELETE", cfg.Documents.CascadeChatOnDelete)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
