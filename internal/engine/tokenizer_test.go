package engine

import (
	"testing"

	"github.com/ChamsBouzaiene/subtrans/internal/session"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int // Approximate expectation
	}{
		{
			name: "empty",
			text: "",
			want: 0,
		},
		{
			name: "short word",
			text: "hello",
			want: 1, // 5 chars / 4 = 1
		},
		{
			name: "sentence",
			text: "hello world this is a test",
			want: 6, // 26 chars / 4 = 6 + whitespace/6 ~ 0 = 6
		},
		{
			name: "encoded chunk",
			text: "1\nHello there.\n\n2\nBye.",
			want: 5, // 22 chars / 4 = 5 + whitespace 5/6 = 0
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateTokens(tt.text)
			// (runes / 4) + (whitespace / 6), at least 1 for non-empty text
			if got != tt.want {
				t.Errorf("EstimateTokens() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCountTokensForMessages(t *testing.T) {
	tokenizer := DefaultTokenizer{}
	model := "test-model"

	tests := []struct {
		name     string
		messages []session.Message
		want     int
	}{
		{
			name:     "empty",
			messages: nil,
			want:     0,
		},
		{
			name:     "single message",
			messages: []session.Message{session.User("hello")},
			// Role(user=4/4=1) + Content(hello=5/4=1) + Overhead(4) = 6
			want: 6,
		},
		{
			name: "prompt and response",
			messages: []session.Message{
				session.User("1\nhello"),
				session.Assistant("1\nbonjour"),
			},
			// user: 1 + (7/4=1 + 1/6=0) + 4 = 6; assistant: (9/4=2) + (9/4=2) + 4 = 8
			want: 14,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CountTokensForMessages(tokenizer, tt.messages, model)
			if err != nil {
				t.Fatalf("CountTokensForMessages() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CountTokensForMessages() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetModelLimits(t *testing.T) {
	tests := []struct {
		model string
		want  int
	}{
		{"gpt-4o-mini", 120000},
		{"claude-3-sonnet-20240229", 190000},
		{"deepseek-chat", 60000},
		{"kimi-k2-250711", 190000},
		{"local-model", DefaultContextLimits().HardLimit},
		{"", DefaultContextLimits().HardLimit},
	}
	for _, tt := range tests {
		got := GetModelLimits(tt.model)
		if got.HardLimit != tt.want {
			t.Errorf("GetModelLimits(%q).HardLimit = %d, want %d", tt.model, got.HardLimit, tt.want)
		}
		if got.SoftLimit >= got.HardLimit {
			t.Errorf("GetModelLimits(%q): soft limit %d not below hard limit %d", tt.model, got.SoftLimit, got.HardLimit)
		}
	}
}
