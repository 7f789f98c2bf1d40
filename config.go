// Package culturebot wires the answer cache, the upstream provider, and the
// question log into the Bot type that serves CultureBot's ask flow.
package culturebot

import "time"

// Config holds the service configuration. Every field has a working default
// so an absent config file (or missing fields) is safe.
type Config struct {
	Server   ServerConfig   `json:"server" yaml:"server"`
	Cache    CacheConfig    `json:"cache" yaml:"cache"`
	Provider ProviderConfig `json:"provider" yaml:"provider"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8000".
	Addr string `json:"addr" yaml:"addr"`
	// CORSOrigins restricts cross-origin access. Empty means allow any.
	CORSOrigins []string `json:"cors_origins,omitempty" yaml:"cors_origins,omitempty"`
}

// CacheConfig selects and configures the answer cache backend.
type CacheConfig struct {
	// UseRedis selects the Redis backend instead of the in-process LRU.
	UseRedis bool `json:"use_redis" yaml:"use_redis"`
	// RedisAddr is the host:port of the Redis server.
	RedisAddr     string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty"`
	RedisPassword string `json:"redis_password,omitempty" yaml:"redis_password,omitempty"`
	RedisDB       int    `json:"redis_db,omitempty" yaml:"redis_db,omitempty"`
	// Capacity is the in-process backend's maximum entry count.
	Capacity int `json:"capacity" yaml:"capacity"`
	// TTLSeconds is the Redis backend's per-entry time-to-live.
	TTLSeconds int `json:"ttl_seconds" yaml:"ttl_seconds"`
}

// TTL returns the configured entry TTL as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// ProviderConfig configures the upstream answer generator. API keys are read
// from the environment (HF_TOKEN, OPENAI_API_KEY), never from config files.
type ProviderConfig struct {
	// Name selects the provider: "huggingface" (default) or "openai".
	Name string `json:"name" yaml:"name"`
	// Model overrides the provider's default model.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`
	// BaseURL overrides the provider's API endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

// LogConfig configures structured logging and the persistent question log.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
	// QuestionLogDriver is "sqlite" (default), "postgres", or "none".
	QuestionLogDriver string `json:"question_log_driver" yaml:"question_log_driver"`
	// QuestionLogDSN is the database path (sqlite) or connection string (postgres).
	QuestionLogDSN string `json:"question_log_dsn,omitempty" yaml:"question_log_dsn,omitempty"`
}

// Provider name constants accepted by ProviderConfig.Name.
const (
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
)

// DefaultConfig returns the configuration used when no file and no
// environment overrides are present.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{Addr: ":8000"},
		Cache: CacheConfig{
			UseRedis:   false,
			RedisAddr:  "localhost:6379",
			Capacity:   100,
			TTLSeconds: 86400,
		},
		Provider: ProviderConfig{Name: ProviderHuggingFace},
		Log: LogConfig{
			Level:             "info",
			QuestionLogDriver: "sqlite",
		},
	}
}
