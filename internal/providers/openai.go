package providers

import (
	"context"
	"errors"

	openai "github.com/meguminnnnnnnnn/go-openai"

	"github.com/ChamsBouzaiene/subtrans/internal/engine"
	"github.com/ChamsBouzaiene/subtrans/internal/session"
)

// CompletionOptions keeps knobs forwarded to the SDKs.
type CompletionOptions struct {
	Temperature     float32
	MaxOutputTokens int
}

// OpenAIBackend implements engine.Backend with the OpenAI chat completions API.
// Any OpenAI-compatible server works through baseURL.
type OpenAIBackend struct {
	client  *openai.Client
	model   string
	baseURL string
	opts    CompletionOptions
}

// NewOpenAIBackend creates a backend for the given model. An empty baseURL uses OpenAI's.
func NewOpenAIBackend(apiKey, modelName, baseURL string, opts CompletionOptions) (*OpenAIBackend, error) {
	if modelName == "" {
		return nil, errors.New("openai backend: model name is required")
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &OpenAIBackend{
		client:  openai.NewClientWithConfig(config),
		model:   modelName,
		baseURL: baseURL,
		opts:    opts,
	}, nil
}

// Model returns the model name requests are sent to.
func (c *OpenAIBackend) Model() string { return c.model }

// CreateThread implements engine.Backend.
func (c *OpenAIBackend) CreateThread(opts session.ThreadOptions) *session.Thread {
	return session.NewThread(opts)
}

// ExecuteCompletion implements engine.Backend with one synchronous request for one completion.
func (c *OpenAIBackend) ExecuteCompletion(ctx context.Context, t *session.Thread, mo engine.MessageOptionsFunc) ([]session.Message, error) {
	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: toOpenAIMessages(t.Messages()),
	}
	if c.opts.MaxOutputTokens > 0 {
		req.MaxTokens = c.opts.MaxOutputTokens
	}
	if c.opts.Temperature > 0 {
		temperature := c.opts.Temperature
		req.Temperature = &temperature
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, engine.Unexpected(err)
		}
		httpStatus, retryAfter := engine.ExtractErrorMetadata(err)
		return nil, engine.WrapBackendError(err, httpStatus, retryAfter)
	}

	if len(resp.Choices) == 0 {
		return nil, &engine.UnexpectedError{Err: errors.New("empty response from OpenAI")}
	}

	msg := session.Assistant(resp.Choices[0].Message.Content)
	appendResponse(t, mo, t.Len(), msg)
	return []session.Message{msg}, nil
}

func toOpenAIMessages(msgs []session.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		role := openai.ChatMessageRoleUser
		switch m.Role() {
		case session.RoleSystem:
			role = openai.ChatMessageRoleSystem
		case session.RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content(),
		})
	}
	return out
}

// appendResponse appends msg to t with the options chosen by mo for position.
func appendResponse(t *session.Thread, mo engine.MessageOptionsFunc, position int, msg session.Message) {
	var opts session.MessageOptions
	if mo != nil {
		opts = mo(position, msg)
	}
	t.Append(msg, opts)
}
