package model

import "time"

// Config is the complete factcheck configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Providers ProvidersConfig `yaml:"providers" mapstructure:"providers"`
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr           string        `yaml:"addr" mapstructure:"addr"`
	AllowedOrigins []string      `yaml:"allowed_origins" mapstructure:"allowed_origins"` // Supports "*" wildcards
	ReadTimeout    time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// CacheConfig configures the result cache
type CacheConfig struct {
	Enabled       bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL           time.Duration `yaml:"ttl" mapstructure:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval" mapstructure:"sweep_interval"`
	Path          string        `yaml:"path" mapstructure:"path"` // SQLite file; empty keeps the cache in memory only
}

// ProvidersConfig configures the knowledge-base providers
type ProvidersConfig struct {
	Enabled    []string        `yaml:"enabled" mapstructure:"enabled"`
	Languages  []string        `yaml:"languages" mapstructure:"languages"` // Wikipedia editions, tried in order
	UserAgent  string          `yaml:"user_agent" mapstructure:"user_agent"`
	HTTPProxy  string          `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string          `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy    string          `yaml:"no_proxy" mapstructure:"no_proxy"`
	RateLimit  RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// RateLimitConfig configures per-host outbound pacing
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"` // 0 = unlimited
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// LLMConfig configures the optional summary
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "" disables, "openai"
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// LogConfig configures logging
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
}

// BatchConfig configures batch processing
type BatchConfig struct {
	Concurrency int    `yaml:"concurrency" mapstructure:"concurrency"`
	OutputDir   string `yaml:"output_dir" mapstructure:"output_dir"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":3000",
			AllowedOrigins: []string{
				"chrome-extension://*",
				"https://*.netlify.app",
				"http://localhost:3000",
			},
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:       true,
			TTL:           24 * time.Hour,
			SweepInterval: time.Hour,
		},
		Providers: ProvidersConfig{
			Enabled:   []string{"wikipedia", "wikidata", "duckduckgo", "archive", "pubmed", "openlibrary"},
			Languages: []string{"fr", "en"},
			UserAgent: "FactCheck/0.1 (+https://github.com/ppiankov/factcheck)",
			RateLimit: RateLimitConfig{
				RequestsPerSecond: 0,
				BurstSize:         5,
			},
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 600,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Batch: BatchConfig{
			Concurrency: 4,
			OutputDir:   "./factcheck-reports",
		},
	}
}
