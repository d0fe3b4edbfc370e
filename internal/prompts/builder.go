package prompts

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{\{[a-z_]+\}\}`)

// PromptBuilder helps compose prompts from fragments and variables.
type PromptBuilder struct {
	basePrompt *Prompt
	fragments  []string
	variables  map[string]string
}

// NewPromptBuilder creates a new prompt builder based on a registered prompt.
// An empty version selects the latest one.
func NewPromptBuilder(registry *PromptRegistry, id string, version PromptVersion) (*PromptBuilder, error) {
	var basePrompt *Prompt
	var err error
	if version == "" {
		basePrompt, err = registry.GetLatest(id)
	} else {
		basePrompt, err = registry.Get(id, version)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get base prompt: %w", err)
	}

	return &PromptBuilder{
		basePrompt: basePrompt,
		fragments:  []string{basePrompt.Content},
		variables:  make(map[string]string),
	}, nil
}

// AddFragment appends a fragment to the prompt.
func (b *PromptBuilder) AddFragment(text string) *PromptBuilder {
	b.fragments = append(b.fragments, text)
	return b
}

// SetVariable sets a variable for template substitution.
func (b *PromptBuilder) SetVariable(key, value string) *PromptBuilder {
	b.variables[key] = value
	return b
}

// Build constructs the final prompt string.
// Variables are substituted in the base prompt only; fragments are appended verbatim
// because they carry source text that may itself contain braces.
func (b *PromptBuilder) Build() (string, error) {
	base := b.fragments[0]
	for key, value := range b.variables {
		base = strings.ReplaceAll(base, fmt.Sprintf("{{%s}}", key), value)
	}
	if missing := placeholderPattern.FindString(base); missing != "" {
		return "", fmt.Errorf("prompt %s: unresolved variable %s", b.basePrompt.ID, missing)
	}

	parts := append([]string{base}, b.fragments[1:]...)
	return strings.Join(parts, "\n\n"), nil
}

// Exemplars returns the base prompt's few-shot examples with variables substituted.
func (b *PromptBuilder) Exemplars() []Exemplar {
	out := make([]Exemplar, 0, len(b.basePrompt.Exemplars))
	for _, ex := range b.basePrompt.Exemplars {
		for key, value := range b.variables {
			placeholder := fmt.Sprintf("{{%s}}", key)
			ex.User = strings.ReplaceAll(ex.User, placeholder, value)
			ex.Assistant = strings.ReplaceAll(ex.Assistant, placeholder, value)
		}
		out = append(out, ex)
	}
	return out
}
