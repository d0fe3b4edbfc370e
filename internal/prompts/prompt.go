// Package prompts holds the versioned instruction texts sent to the translation backend.
package prompts

// PromptVersion represents a version identifier for prompts.
type PromptVersion string

const (
	// PromptV1 is the first version of prompts.
	PromptV1 PromptVersion = "1.0.0"
	// PromptV2 is the second version.
	PromptV2 PromptVersion = "2.0.0"
)

// Exemplar is a few-shot example: a user turn and the expected assistant answer.
type Exemplar struct {
	User      string
	Assistant string
}

// Prompt represents a versioned prompt with metadata.
type Prompt struct {
	ID          string        // Unique identifier (e.g., "translate_chunk")
	Version     PromptVersion // Version of this prompt
	Content     string        // The actual prompt text, may contain {{variables}}
	Description string        // Human-readable description
	Tags        []string      // Tags for categorization
	Exemplars   []Exemplar    // Optional few-shot examples seeded after the prompt
	Deprecated  bool          // True if this version is deprecated
}
