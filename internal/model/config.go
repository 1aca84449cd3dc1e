package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the complete runtime configuration.
// Populated from defaults, then ~/.verinews/config.yaml, then VERINEWS_* env
// vars, then CLI flags (highest priority).
type Config struct {
	Provider    ProviderConfig    `yaml:"provider" mapstructure:"provider"`
	History     HistoryConfig     `yaml:"history" mapstructure:"history"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" mapstructure:"rate_limit"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// ProviderConfig selects and configures the analysis provider variant.
type ProviderConfig struct {
	// Name selects the variant: "gemini", "heuristic", or "passthrough".
	Name string `yaml:"name" mapstructure:"name"`

	// Model is the provider-specific model identifier.
	Model string `yaml:"model" mapstructure:"model"`

	// APIKey authenticates network-backed variants. Recommended to supply via
	// environment (GEMINI_API_KEY, OPENAI_API_KEY) rather than the config file.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`

	// BaseURL overrides the provider endpoint (tests, proxies, self-hosted).
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds a single provider call.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Delay is an artificial latency applied by the heuristic variant only.
	Delay time.Duration `yaml:"delay" mapstructure:"delay"`

	// Proxy settings for outbound calls.
	HTTPProxy  string `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// HistoryConfig configures the session-history ledger.
type HistoryConfig struct {
	// Path is the JSON slot holding the persisted ledger.
	Path string `yaml:"path" mapstructure:"path"`

	// Capacity bounds the ledger; oldest entries beyond it are discarded.
	Capacity int `yaml:"capacity" mapstructure:"capacity"`
}

// CacheConfig configures the analysis result cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// RateLimitConfig bounds outbound provider calls.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// ConcurrencyConfig configures batch processing.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig configures rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultHistoryCapacity is the ledger bound: insertion prepends and truncates
// to this many entries.
const DefaultHistoryCapacity = 10

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".verinews")

	return &Config{
		Provider: ProviderConfig{
			Name:    "gemini",
			Timeout: 60 * time.Second,
		},
		History: HistoryConfig{
			Path:     filepath.Join(base, "history.json"),
			Capacity: DefaultHistoryCapacity,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       filepath.Join(base, "cache"),
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 1,
			Burst:             3,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
