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

type Config struct {
	AppEnv   string `yaml:"app_env"`
	HTTPAddr string `yaml:"http_addr"`

	KVDriver   string `yaml:"kv_driver"`    // fs|sqlite|postgres|redis|memory
	KVDSN      string `yaml:"kv_dsn"`       // sqlite/postgres
	KVBasePath string `yaml:"kv_base_path"` // fs
	RedisAddr  string `yaml:"redis_addr"`
	HistoryKey string `yaml:"history_key"`

	CORSOrigins    []string `yaml:"cors_origins"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes"`

	// SessionIdleTTL evicts quiz sessions nobody has touched for this long.
	SessionIdleTTL time.Duration `yaml:"session_idle_ttl"`

	AdminUser     string `yaml:"admin_user"`
	AdminPassHash string `yaml:"admin_pass_hash"` // bcrypt; empty disables admin routes
}

func Defaults() Config {
	return Config{
		AppEnv:         "development",
		HTTPAddr:       ":8080",
		KVDriver:       "fs",
		KVBasePath:     "./data",
		HistoryKey:     "quiz.history",
		CORSOrigins:    []string{"http://localhost:3000", "http://localhost:5173"},
		MaxUploadBytes: 5 << 20,
		SessionIdleTTL: 2 * time.Hour,
		AdminUser:      "admin",
	}
}

// Load layers configuration: defaults, then the YAML file named by QUIZ_CONFIG,
// then .env, then the process environment.
func Load() (Config, error) {
	cfg := Defaults()
	if path := os.Getenv("QUIZ_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	// a missing .env is fine
	_ = godotenv.Load()
	applyEnv(&cfg)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.AppEnv = envOr("APP_ENV", cfg.AppEnv)
	cfg.HTTPAddr = envOr("HTTP_ADDR", cfg.HTTPAddr)
	cfg.KVDriver = strings.ToLower(envOr("KV_DRIVER", cfg.KVDriver))
	cfg.KVDSN = envOr("KV_DSN", cfg.KVDSN)
	cfg.KVBasePath = envOr("KV_BASE_PATH", cfg.KVBasePath)
	cfg.RedisAddr = envOr("REDIS_ADDR", cfg.RedisAddr)
	cfg.HistoryKey = envOr("HISTORY_KEY", cfg.HistoryKey)
	cfg.CORSOrigins = csvOr("CORS_ORIGINS", cfg.CORSOrigins)
	cfg.MaxUploadBytes = int64Or("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.SessionIdleTTL = durationOr("SESSION_IDLE_TTL", cfg.SessionIdleTTL)
	cfg.AdminUser = envOr("ADMIN_USER", cfg.AdminUser)
	cfg.AdminPassHash = envOr("ADMIN_PASS_HASH", cfg.AdminPassHash)
}

func (c Config) Production() bool {
	switch strings.ToLower(c.AppEnv) {
	case "prod", "production":
		return true
	}
	return false
}

func envOr(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

func int64Or(k string, def int64) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(os.Getenv(k)), 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func durationOr(k string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(k)))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func csvOr(k string, def []string) []string {
	v := os.Getenv(k)
	if strings.TrimSpace(v) == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
