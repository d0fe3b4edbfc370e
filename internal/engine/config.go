package engine

import (
	"log"
	"time"

	"github.com/ChamsBouzaiene/subtrans/internal/prompts"
)

const (
	// DefaultBatchSize is the number of lines sent per chunk.
	DefaultBatchSize = 40
	// DefaultRetries is the number of attempts per chunk.
	DefaultRetries = 3
)

// TranslatorConfig holds all translator configuration options.
type TranslatorConfig struct {
	BatchSize     int
	RetryPolicy   RetryPolicy
	Hook          Hook
	Checkpoints   Checkpointer            // Optional; nil disables resume
	Prompts       *prompts.PromptRegistry // nil = prompts.DefaultRegistry()
	PromptVersion prompts.PromptVersion   // "" = latest
	Model         string                  // Only used for token estimates in logs
}

// DefaultRetryPolicy starts at one second and doubles per retry.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		InitialDelay: 1 * time.Second,
		MaxDelay:     60 * time.Second,
		Multiplier:   2.0,
		Jitter:       false,
	}
}

// DefaultTranslatorConfig returns a default translator configuration logging to the standard logger.
func DefaultTranslatorConfig() TranslatorConfig {
	return TranslatorConfig{
		BatchSize:   DefaultBatchSize,
		RetryPolicy: DefaultRetryPolicy(),
		Hook:        LoggerHook{L: log.Default()},
	}
}
