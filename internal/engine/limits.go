package engine

import "strings"

// ContextLimits describes how many prompt tokens a model accepts.
type ContextLimits struct {
	SoftLimit int // warn above this
	HardLimit int // requests above this are expected to fail
}

// DefaultContextLimits assumes a 16k context.
func DefaultContextLimits() ContextLimits {
	return ContextLimits{SoftLimit: 12000, HardLimit: 15000}
}

// GetModelLimits returns the context limits of a model, matched by name.
// Unknown models get DefaultContextLimits.
func GetModelLimits(model string) ContextLimits {
	modelLower := strings.ToLower(model)

	switch {
	// Kimi K2 (200k context)
	case strings.Contains(modelLower, "kimi"):
		return ContextLimits{SoftLimit: 150000, HardLimit: 190000}

	// GPT-4o (128k context)
	case strings.Contains(modelLower, "gpt-4o"):
		return ContextLimits{SoftLimit: 100000, HardLimit: 120000}

	// Claude 3.x (200k context)
	case strings.Contains(modelLower, "claude-3") || strings.Contains(modelLower, "sonnet") || strings.Contains(modelLower, "opus"):
		return ContextLimits{SoftLimit: 150000, HardLimit: 190000}

	case strings.Contains(modelLower, "gemini"):
		return ContextLimits{SoftLimit: 500000, HardLimit: 900000}

	// DeepSeek: assume 64k
	case strings.Contains(modelLower, "deepseek"):
		return ContextLimits{SoftLimit: 50000, HardLimit: 60000}
	}

	return DefaultContextLimits()
}
