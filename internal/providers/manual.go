package providers

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"

	"github.com/ChamsBouzaiene/subtrans/internal/engine"
	"github.com/ChamsBouzaiene/subtrans/internal/session"
)

// Clipboard is the channel the manual backend relays prompts and replies through.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// SystemClipboard uses the desktop clipboard.
type SystemClipboard struct{}

func (SystemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (SystemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// ManualBackend implements engine.Backend with a human operator in the loop. The
// last message of the thread is copied to the clipboard; the operator pastes it
// into a chat UI, copies the reply back and presses Enter.
type ManualBackend struct {
	clip Clipboard
	in   *bufio.Reader
	out  io.Writer
}

// NewManualBackend creates a manual backend reading acknowledgements from in and
// writing instructions to out.
func NewManualBackend(clip Clipboard, in io.Reader, out io.Writer) *ManualBackend {
	if clip == nil {
		clip = SystemClipboard{}
	}
	if out == nil {
		out = io.Discard
	}
	return &ManualBackend{clip: clip, in: bufio.NewReader(in), out: out}
}

// CreateThread implements engine.Backend.
func (m *ManualBackend) CreateThread(opts session.ThreadOptions) *session.Thread {
	return session.NewThread(opts)
}

// ExecuteCompletion implements engine.Backend. It blocks until the operator
// acknowledges; there is no timeout and ctx is only checked before blocking.
func (m *ManualBackend) ExecuteCompletion(ctx context.Context, t *session.Thread, mo engine.MessageOptionsFunc) ([]session.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	last, ok := t.Last()
	if !ok {
		return nil, &engine.UnexpectedError{Err: errors.New("manual backend: thread is empty")}
	}

	if err := m.clip.WriteAll(last.Content()); err != nil {
		return nil, fmt.Errorf("manual backend: copy prompt to clipboard: %w", err)
	}

	color.New(color.FgCyan, color.Bold).Fprintln(m.out, "📋 Prompt copied to clipboard.")
	fmt.Fprintln(m.out, "Paste it into your chat, copy the full reply, then press Enter.")

	// An unterminated final line still counts as an acknowledgement.
	if line, err := m.in.ReadString('\n'); err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return nil, fmt.Errorf("manual backend: wait for acknowledgement: %w", err)
	}

	reply, err := m.clip.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("manual backend: read reply from clipboard: %w", err)
	}
	if strings.TrimSpace(reply) == strings.TrimSpace(last.Content()) {
		color.New(color.FgYellow).Fprintln(m.out, "⚠️  Clipboard still holds the prompt; treating it as the reply.")
	}

	msg := session.Assistant(reply)
	appendResponse(t, mo, 0, msg)
	return []session.Message{msg}, nil
}
