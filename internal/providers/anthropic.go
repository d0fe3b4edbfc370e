package providers

import (
	"context"
	"errors"
	"strings"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/ChamsBouzaiene/subtrans/internal/engine"
	"github.com/ChamsBouzaiene/subtrans/internal/session"
)

// AnthropicBackend implements engine.Backend with the Anthropic messages API.
type AnthropicBackend struct {
	client *anthropic.Client
	model  string
	opts   CompletionOptions
}

// NewAnthropicBackend creates a new Anthropic backend.
func NewAnthropicBackend(apiKey, modelName string, opts CompletionOptions) (*AnthropicBackend, error) {
	if modelName == "" {
		return nil, errors.New("anthropic backend: model name is required")
	}
	return &AnthropicBackend{
		client: anthropic.NewClient(apiKey),
		model:  modelName,
		opts:   opts,
	}, nil
}

// Model returns the model name requests are sent to.
func (c *AnthropicBackend) Model() string { return c.model }

// CreateThread implements engine.Backend.
func (c *AnthropicBackend) CreateThread(opts session.ThreadOptions) *session.Thread {
	return session.NewThread(opts)
}

// ExecuteCompletion implements engine.Backend.
func (c *AnthropicBackend) ExecuteCompletion(ctx context.Context, t *session.Thread, mo engine.MessageOptionsFunc) ([]session.Message, error) {
	systemParts, msgs := toAnthropicMessages(t.Messages())
	if len(msgs) == 0 {
		return nil, &engine.UnexpectedError{Err: errors.New("anthropic backend: thread has no user message")}
	}

	maxTokens := 4096
	if c.opts.MaxOutputTokens > 0 {
		maxTokens = c.opts.MaxOutputTokens
	}
	temperature := float32(0.1)
	if c.opts.Temperature > 0 {
		temperature = c.opts.Temperature
	}

	req := anthropic.MessagesRequest{
		Model:       anthropic.Model(c.model),
		Messages:    msgs,
		MaxTokens:   maxTokens,
		Temperature: &temperature,
	}
	if len(systemParts) > 0 {
		req.MultiSystem = systemParts
	}

	resp, err := c.client.CreateMessages(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, engine.Unexpected(err)
		}
		httpStatus, retryAfter := engine.ExtractErrorMetadata(err)
		return nil, engine.WrapBackendError(err, httpStatus, retryAfter)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			text.WriteString(*block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, &engine.UnexpectedError{Err: errors.New("empty response from Anthropic")}
	}

	msg := session.Assistant(text.String())
	appendResponse(t, mo, t.Len(), msg)
	return []session.Message{msg}, nil
}

// toAnthropicMessages splits system messages out and shapes the rest into the
// alternating user/assistant sequence the API expects: the conversation must start
// with a user turn, and consecutive turns of one role (left behind by rollbacks)
// are merged.
func toAnthropicMessages(msgs []session.Message) ([]anthropic.MessageSystemPart, []anthropic.Message) {
	var systemParts []anthropic.MessageSystemPart
	var out []anthropic.Message
	var texts []string
	var role anthropic.ChatRole

	flush := func() {
		if len(texts) == 0 {
			return
		}
		out = append(out, anthropic.Message{
			Role:    role,
			Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(strings.Join(texts, "\n\n"))},
		})
		texts = nil
	}

	for _, m := range msgs {
		var next anthropic.ChatRole
		switch m.Role() {
		case session.RoleSystem:
			systemParts = append(systemParts, anthropic.MessageSystemPart{Type: "text", Text: m.Content()})
			continue
		case session.RoleAssistant:
			if len(out) == 0 && len(texts) == 0 {
				continue
			}
			next = anthropic.RoleAssistant
		default:
			next = anthropic.RoleUser
		}
		if next != role {
			flush()
			role = next
		}
		texts = append(texts, m.Content())
	}
	flush()

	return systemParts, out
}
