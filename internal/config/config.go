// Package config 加载 YAML 配置文件、.env 与环境变量。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"jobboard/internal/digest"
	"jobboard/internal/logger"
	"jobboard/internal/notifier"
	"jobboard/internal/ratelimit"
	"jobboard/internal/storage"
	"jobboard/internal/subscription"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppConfig 应用配置。
type AppConfig struct {
	Server        ServerConfig         `yaml:"server"`
	Database      storage.Config       `yaml:"database"`
	Email         notifier.EmailConfig `yaml:"email"`
	Notifications NotificationConfig   `yaml:"notifications"`
	RateLimit     ratelimit.Config     `yaml:"ratelimit"`
	Digest        digest.Config        `yaml:"digest"`
	Subscription  subscription.Config  `yaml:"subscription"`
	Log           logger.Config        `yaml:"log"`
}

type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// ShutdownWait 优雅关闭等待时间，默认 5s。
func (c ServerConfig) ShutdownWait() time.Duration {
	if d, err := time.ParseDuration(c.ShutdownTimeout); err == nil && d > 0 {
		return d
	}
	return 5 * time.Second
}

// NotificationConfig 控制邮件投递的并发与队列长度。Workers 为 0 时同步发送。
type NotificationConfig struct {
	Workers   int `yaml:"workers"`
	QueueSize int `yaml:"queue_size"`
}

// Load 先加载 .env，再读取 YAML 文件（path 为空时取 CONFIG_FILE，默认 config.yaml），最后应用环境变量覆盖。
// 配置文件不存在时使用默认值。
func Load(path string) (AppConfig, error) {
	_ = godotenv.Load()

	if path == "" {
		path = getEnv(os.LookupEnv, "CONFIG_FILE", "config.yaml")
	}
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return AppConfig{}, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return AppConfig{}, fmt.Errorf("parse config: %w", err)
		}
	}
	applyEnv(&cfg, os.LookupEnv)
	return cfg, nil
}

// Default 返回可直接运行的默认配置。
func Default() AppConfig {
	return AppConfig{
		Server:        ServerConfig{Addr: ":8080", ShutdownTimeout: "5s"},
		Database:      storage.Config{Driver: "sqlite", Path: "jobboard.db"},
		Email:         notifier.EmailConfig{Port: 587},
		Notifications: NotificationConfig{Workers: 4, QueueSize: 256},
		RateLimit:     ratelimit.Config{Backend: "memory", Limit: 10, Window: "1m"},
		Digest:        digest.Config{Interval: "24h", Timeout: "1m", Lookback: "24h"},
		Subscription:  subscription.Config{AllowedChannels: []string{"email"}},
	}
}

func applyEnv(cfg *AppConfig, lookup func(string) (string, bool)) {
	if dsn, ok := lookup("DATABASE_URL"); ok && dsn != "" {
		cfg.Database.DSN = dsn
		cfg.Database.Driver = "postgres"
	}
	cfg.Database.Driver = getEnv(lookup, "DB_DRIVER", cfg.Database.Driver)
	cfg.Server.Addr = getEnv(lookup, "HTTP_ADDR", cfg.Server.Addr)
	if addr, ok := lookup("REDIS_ADDR"); ok && addr != "" {
		cfg.RateLimit.RedisAddr = addr
		cfg.RateLimit.Backend = "redis"
	}
	cfg.Email.Password = getEnv(lookup, "SMTP_PASSWORD", cfg.Email.Password)
	cfg.Notifications.Workers = getInt(lookup, "NOTIFY_WORKERS", cfg.Notifications.Workers)
}

func getEnv(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func getInt(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
