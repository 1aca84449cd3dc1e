// Package provider implements the analysis capability: turning input text into
// a structured AnalysisResult via interchangeable variants.
package provider

import (
	"context"
	"time"

	"github.com/verinews/verinews/internal/model"
)

// Provider is the pluggable strategy that produces an AnalysisResult for a
// piece of input text. The orchestrator is agnostic to which variant is active.
type Provider interface {
	// Name returns the variant name.
	Name() string

	// Grounded reports whether this variant can attach grounding citations.
	// Ungrounded variants always return results with an empty Sources sequence.
	Grounded() bool

	// Analyze produces a validated result for the given text.
	// Failures are reported as *Error with a classified Kind.
	Analyze(ctx context.Context, text string) (*model.AnalysisResult, error)
}

// Config holds provider configuration.
type Config struct {
	// Name selects the variant: "gemini", "heuristic", "passthrough".
	Name string

	// Model is the provider-specific model identifier.
	Model string

	// APIKey for network-backed variants.
	APIKey string

	// BaseURL for custom endpoints (tests, proxies).
	BaseURL string

	// Timeout bounds a single call.
	Timeout time.Duration

	// Delay is artificial latency for the heuristic variant (0 disables).
	Delay time.Duration

	// Proxy settings.
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// FromModel converts the application config section to a provider Config.
func FromModel(cfg model.ProviderConfig) Config {
	return Config{
		Name:       cfg.Name,
		Model:      cfg.Model,
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Timeout:    cfg.Timeout,
		Delay:      cfg.Delay,
		HTTPProxy:  cfg.HTTPProxy,
		HTTPSProxy: cfg.HTTPSProxy,
		NoProxy:    cfg.NoProxy,
	}
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Name:    "gemini",
		Timeout: 60 * time.Second,
	}
}
