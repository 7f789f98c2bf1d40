package culturebot

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads and parses a config file from the given path, layered on
// top of DefaultConfig. Supported formats: JSON (.json), YAML (.yaml, .yml).
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension %q: use .json, .yaml, or .yml", ext)
	}

	return &cfg, nil
}

// ApplyEnv overlays the environment variables the service has historically
// honoured onto cfg. Unset variables leave cfg untouched.
//
//	PORT               listen port (addr becomes ":" + PORT)
//	USE_REDIS          "true" selects the Redis cache backend
//	REDIS_URL          redis://host:port[/db] connection target
//	CACHE_CAPACITY     in-process cache entry bound
//	CACHE_TTL_SECONDS  Redis entry TTL
//	LOG_LEVEL          debug/info/warn/error
//	CORS_ORIGINS       comma-separated allowed origins
//	QUESTION_LOG       sqlite/postgres/none
//	QUESTION_LOG_DSN   question log database target
func ApplyEnv(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.Server.CORSOrigins = strings.Split(origins, ",")
	}

	if v := os.Getenv("USE_REDIS"); v != "" {
		cfg.Cache.UseRedis = strings.EqualFold(v, "true")
	}
	if rawURL := os.Getenv("REDIS_URL"); rawURL != "" {
		if addr, password, db, err := parseRedisURL(rawURL); err == nil {
			cfg.Cache.RedisAddr = addr
			cfg.Cache.RedisPassword = password
			cfg.Cache.RedisDB = db
		}
	}
	if v := os.Getenv("CACHE_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Cache.Capacity = n
		}
	}
	if v := os.Getenv("CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Cache.TTLSeconds = n
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("QUESTION_LOG"); v != "" {
		cfg.Log.QuestionLogDriver = v
	}
	if v := os.Getenv("QUESTION_LOG_DSN"); v != "" {
		cfg.Log.QuestionLogDSN = v
	}
}

// parseRedisURL extracts addr, password, and db from a redis:// URL. A bare
// host:port is accepted too.
func parseRedisURL(raw string) (addr, password string, db int, err error) {
	if !strings.Contains(raw, "://") {
		return raw, "", 0, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", 0, fmt.Errorf("parsing redis url: %w", err)
	}
	addr = u.Host
	if u.User != nil {
		password, _ = u.User.Password()
	}
	if path := strings.TrimPrefix(u.Path, "/"); path != "" {
		if n, convErr := strconv.Atoi(path); convErr == nil {
			db = n
		}
	}
	return addr, password, db, nil
}

// ValidateConfig validates a Config for correctness.
func ValidateConfig(cfg Config) error {
	if cfg.Server.Addr == "" {
		return fmt.Errorf("server addr is required")
	}

	switch cfg.Provider.Name {
	case ProviderHuggingFace, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown provider: %q", cfg.Provider.Name)
	}

	if cfg.Cache.Capacity <= 0 {
		return fmt.Errorf("cache capacity must be positive")
	}
	if cfg.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("cache ttl_seconds must be positive")
	}
	if cfg.Cache.UseRedis && cfg.Cache.RedisAddr == "" {
		return fmt.Errorf("redis_addr is required when use_redis is set")
	}

	switch cfg.Log.QuestionLogDriver {
	case "sqlite", "postgres", "none", "":
	default:
		return fmt.Errorf("unknown question log driver: %q", cfg.Log.QuestionLogDriver)
	}

	return nil
}
