package provider

import (
	"fmt"
	"strings"
)

// New creates an analysis provider based on configuration.
// Variant selection happens once at construction; callers stay agnostic.
func New(config Config) (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(config.Name))

	switch name {
	case "gemini", "":
		return NewGeminiProvider(config), nil

	case "heuristic", "offline":
		return NewHeuristicProvider(config), nil

	case "passthrough", "openai":
		return NewPassthroughProvider(config), nil

	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: gemini, heuristic, passthrough)", config.Name)
	}
}
