// Package engine drives chunked translation through a completion backend.
// This file contains token counting interfaces and implementations.

package engine

import (
	"fmt"
	"strings"

	"github.com/ChamsBouzaiene/subtrans/internal/session"
)

// Tokenizer provides token counting for text.
type Tokenizer interface {
	CountTokens(text string, model string) (int, error)
}

// EstimateTokens provides a rough token count estimation.
// Uses ~4 characters per token plus a whitespace correction; only meant for logging.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}

	charCount := len([]rune(text))
	whitespaceCount := strings.Count(text, " ") + strings.Count(text, "\n") + strings.Count(text, "\t")

	estimated := (charCount / 4) + (whitespaceCount / 6)
	if estimated < 1 {
		return 1
	}

	return estimated
}

// DefaultTokenizer uses estimation as a fallback when no specific tokenizer is available.
type DefaultTokenizer struct{}

// CountTokens implements Tokenizer using estimation.
func (t DefaultTokenizer) CountTokens(text string, model string) (int, error) {
	return EstimateTokens(text), nil
}

// CountTokensForMessages counts tokens for a slice of messages,
// including roughly 4 tokens of formatting overhead per message.
func CountTokensForMessages(tokenizer Tokenizer, messages []session.Message, model string) (int, error) {
	total := 0

	for _, msg := range messages {
		roleTokens, err := tokenizer.CountTokens(string(msg.Role()), model)
		if err != nil {
			return 0, fmt.Errorf("failed to count role tokens: %w", err)
		}
		total += roleTokens

		contentTokens, err := tokenizer.CountTokens(msg.Content(), model)
		if err != nil {
			return 0, fmt.Errorf("failed to count content tokens: %w", err)
		}
		total += contentTokens + 4
	}

	return total, nil
}

// GetTokenizerForModel returns an appropriate tokenizer for the given model.
func GetTokenizerForModel(model string) Tokenizer {
	return DefaultTokenizer{}
}
