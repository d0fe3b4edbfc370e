package engine

import (
	"context"

	"github.com/ChamsBouzaiene/subtrans/internal/codec"
	"github.com/ChamsBouzaiene/subtrans/internal/session"
)

// MessageOptionsFunc returns the options used when appending the message at the
// given position of a completion's result.
type MessageOptionsFunc func(position int, msg session.Message) session.MessageOptions

// Backend abstracts however a completion is produced (remote API, human relay, ...).
type Backend interface {
	// CreateThread returns a new empty thread suited to this backend.
	CreateThread(opts session.ThreadOptions) *session.Thread

	// ExecuteCompletion sends the thread to the backend and appends the returned
	// messages to it. On error nothing is appended.
	// Implementations return *BackendError for transport, auth and rate-limit
	// failures of the remote service; any other error is treated as unexpected.
	ExecuteCompletion(ctx context.Context, t *session.Thread, opts MessageOptionsFunc) ([]session.Message, error)
}

// TranslateOptions controls one translation run.
type TranslateOptions struct {
	SourceLang string
	TargetLang string
	// DryRun builds prompts but never calls the backend; input is returned unchanged.
	DryRun bool
	// Retries is the number of attempts per chunk (0 = DefaultRetries).
	Retries int
	// Notes are appended to the seeded system prompt (names, tone, glossary).
	Notes string
}

// ChunkKey identifies a chunk by the indices of its first and last line.
type ChunkKey struct {
	First int
	Last  int
}

// KeyOf returns the key of a non-empty chunk.
func KeyOf(chunk []codec.IndexedLine) ChunkKey {
	if len(chunk) == 0 {
		return ChunkKey{}
	}
	return ChunkKey{First: chunk[0].Index, Last: chunk[len(chunk)-1].Index}
}

// Checkpointer stores the results of completed chunks so an interrupted run can resume.
type Checkpointer interface {
	Load(ctx context.Context, key ChunkKey) ([]codec.IndexedLine, bool, error)
	Save(ctx context.Context, key ChunkKey, lines []codec.IndexedLine) error
}
