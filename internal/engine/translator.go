package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/ChamsBouzaiene/subtrans/internal/codec"
	"github.com/ChamsBouzaiene/subtrans/internal/prompts"
	"github.com/ChamsBouzaiene/subtrans/internal/session"
)

// Translator drives batches of indexed lines through a Backend.
// It is not safe for concurrent use; one Translator serves one run at a time.
type Translator struct {
	backend Backend
	cfg     TranslatorConfig
	sleep   func(ctx context.Context, d time.Duration) error
	st      *RunState
}

// NewTranslator creates a translator. Zero-valued fields of cfg fall back to defaults.
func NewTranslator(backend Backend, cfg TranslatorConfig) *Translator {
	def := DefaultTranslatorConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.RetryPolicy == (RetryPolicy{}) {
		cfg.RetryPolicy = def.RetryPolicy
	}
	if cfg.Hook == nil {
		cfg.Hook = def.Hook
	}
	if cfg.Prompts == nil {
		cfg.Prompts = prompts.DefaultRegistry()
	}
	return &Translator{
		backend: backend,
		cfg:     cfg,
		sleep:   sleepContext,
	}
}

// Seed appends the system instruction and its few-shot exemplars to t as preserved
// messages so they survive window eviction.
func (tr *Translator) Seed(t *session.Thread, opts TranslateOptions) error {
	b, err := prompts.NewPromptBuilder(tr.cfg.Prompts, prompts.SystemPromptID, tr.cfg.PromptVersion)
	if err != nil {
		return err
	}
	b.SetVariable(prompts.VarSourceLang, opts.SourceLang).
		SetVariable(prompts.VarTargetLang, opts.TargetLang)
	if notes := strings.TrimSpace(opts.Notes); notes != "" {
		b.AddFragment("Translator notes:\n" + notes)
	}

	system, err := b.Build()
	if err != nil {
		return err
	}

	keep := session.MessageOptions{Preserve: true}
	t.Append(session.System(system), keep)
	for _, ex := range b.Exemplars() {
		t.Append(session.User(ex.User), keep)
		t.Append(session.Assistant(ex.Assistant), keep)
	}
	return nil
}

// BuildPrompt renders the instruction for one chunk, followed by the encoded chunk.
func (tr *Translator) BuildPrompt(chunk []codec.IndexedLine, opts TranslateOptions) (string, error) {
	b, err := prompts.NewPromptBuilder(tr.cfg.Prompts, prompts.ChunkPromptID, tr.cfg.PromptVersion)
	if err != nil {
		return "", err
	}
	return b.SetVariable(prompts.VarSourceLang, opts.SourceLang).
		SetVariable(prompts.VarTargetLang, opts.TargetLang).
		SetVariable(prompts.VarLineCount, strconv.Itoa(len(chunk))).
		AddFragment(codec.Encode(chunk)).
		Build()
}

// TranslateAll translates lines chunk by chunk and returns a copy of lines whose
// texts are replaced by their translations, matched by index.
//
// On error the returned slice still holds every chunk completed before the failure.
// With opts.DryRun the backend is never called and the copy is returned unchanged.
func (tr *Translator) TranslateAll(ctx context.Context, t *session.Thread, lines []codec.IndexedLine, opts TranslateOptions) ([]codec.IndexedLine, error) {
	out := make([]codec.IndexedLine, len(lines))
	copy(out, lines)

	positions := make(map[int]int, len(lines))
	for i, l := range lines {
		if _, dup := positions[l.Index]; !dup {
			positions[l.Index] = i
		}
	}

	chunks := Batches(lines, tr.cfg.BatchSize)
	tr.st = &RunState{
		TotalChunks: len(chunks),
		MaxAttempts: attemptsFor(opts),
		Model:       tr.cfg.Model,
		Started:     time.Now(),
	}
	st := tr.st
	hook := tr.cfg.Hook
	hook.OnRunStart(ctx, st)

	if opts.DryRun {
		for i, chunk := range chunks {
			prompt, err := tr.BuildPrompt(chunk, opts)
			if err != nil {
				return out, err
			}
			log.Printf("dry run: chunk %d/%d prompt:\n%s", i+1, len(chunks), prompt)
		}
		log.Println("Dry-run mode - skipping backend calls.")
		hook.OnDone(ctx, st, nil)
		return out, nil
	}

	for i, chunk := range chunks {
		st.Chunk = i + 1
		st.Key = KeyOf(chunk)
		st.Attempt = 0

		result, resumed, err := tr.resolveChunk(ctx, t, chunk, opts)
		if err != nil {
			err = fmt.Errorf("chunk %d/%d (lines %d-%d): %w", st.Chunk, st.TotalChunks, st.Key.First, st.Key.Last, err)
			hook.OnDone(ctx, st, err)
			return out, err
		}

		for _, l := range result {
			pos, ok := positions[l.Index]
			if !ok {
				log.Printf("⚠️  chunk %d: translated line %d has no matching source line, ignoring", st.Chunk, l.Index)
				continue
			}
			out[pos].Text = l.Text
		}
		st.Lines += len(result)
		if resumed {
			st.Resumed++
		}
		hook.OnChunkDone(ctx, st, result, resumed)
	}

	hook.OnDone(ctx, st, nil)
	return out, nil
}

// resolveChunk returns a checkpointed result when one exists, otherwise translates and stores it.
func (tr *Translator) resolveChunk(ctx context.Context, t *session.Thread, chunk []codec.IndexedLine, opts TranslateOptions) ([]codec.IndexedLine, bool, error) {
	key := KeyOf(chunk)
	if cp := tr.cfg.Checkpoints; cp != nil {
		saved, ok, err := cp.Load(ctx, key)
		if err != nil {
			log.Printf("⚠️  failed to load checkpoint for lines %d-%d: %v (translating again)", key.First, key.Last, err)
		} else if ok && len(saved) == len(chunk) {
			return saved, true, nil
		}
	}

	result, err := tr.TranslateChunk(ctx, t, chunk, opts)
	if err != nil {
		return nil, false, err
	}

	if cp := tr.cfg.Checkpoints; cp != nil {
		if err := cp.Save(ctx, key, result); err != nil {
			log.Printf("⚠️  failed to save checkpoint for lines %d-%d: %v", key.First, key.Last, err)
		}
	}
	return result, false, nil
}

// TranslateChunk translates one chunk, retrying or repairing responses whose
// record count differs from the chunk.
//
// Each attempt appends the prompt to t and lets the backend append its answer.
// A successful or repaired attempt leaves both in t, as does a mismatched attempt
// that is retried. When the backend fails, the messages it appended are removed;
// a *BackendError is retried after a backoff delay until the attempts run out,
// any other error is returned at once as an *UnexpectedError.
func (tr *Translator) TranslateChunk(ctx context.Context, t *session.Thread, chunk []codec.IndexedLine, opts TranslateOptions) ([]codec.IndexedLine, error) {
	if len(chunk) == 0 {
		return []codec.IndexedLine{}, nil
	}

	prompt, err := tr.BuildPrompt(chunk, opts)
	if err != nil {
		return nil, err
	}

	st := tr.st
	if st == nil || st.Key != KeyOf(chunk) {
		st = &RunState{Chunk: 1, TotalChunks: 1, Key: KeyOf(chunk), Model: tr.cfg.Model, Started: time.Now()}
	}
	maxAttempts := attemptsFor(opts)
	st.MaxAttempts = maxAttempts
	hook := tr.cfg.Hook
	hook.OnChunkStart(ctx, st, chunk)

	for attempt := 1; ; attempt++ {
		st.Attempt = attempt
		if attempt > 1 {
			st.Retries++
		}

		t.Append(session.User(prompt), session.MessageOptions{})
		mark := t.Mark()

		hook.OnBeforeCompletion(ctx, st, t.Messages())
		responses, err := tr.backend.ExecuteCompletion(ctx, t, nil)
		if err == nil && len(responses) == 0 {
			err = &UnexpectedError{Err: errors.New("backend returned no messages")}
		}

		if err != nil {
			removed := rollback(t, mark)
			st.Rollbacks++
			hook.OnRollback(ctx, st, removed, err)

			if !IsBackendError(err) {
				return nil, Unexpected(err)
			}
			if attempt >= maxAttempts {
				exhausted := &RetryExhaustedError{Err: err, Attempts: attempt}
				hook.OnRetryExhausted(ctx, st, exhausted)
				return nil, exhausted
			}

			delay := calculateDelay(tr.cfg.RetryPolicy, attempt, err)
			hook.OnRetryAttempt(ctx, st, attempt+1, maxAttempts, delay, err)
			if err := tr.sleep(ctx, delay); err != nil {
				return nil, err
			}
			continue
		}

		hook.OnAfterCompletion(ctx, st, responses)
		candidate := codec.DecodeAll(responses[0].Content())
		if len(candidate) == len(chunk) {
			return candidate, nil
		}

		mismatch := &ShapeMismatchError{Key: KeyOf(chunk), Expected: len(chunk), Got: len(candidate), Attempt: attempt}
		st.Mismatches++
		if attempt >= maxAttempts {
			st.Repairs++
			hook.OnRepair(ctx, st, mismatch)
			return RepairChunk(chunk, candidate), nil
		}
		hook.OnMismatch(ctx, st, mismatch)
	}
}

// rollback removes every live message appended to t after mark.
func rollback(t *session.Thread, mark session.Mark) []session.Message {
	appended := t.Since(mark)
	for _, m := range appended {
		t.Remove(m)
	}
	return appended
}

func attemptsFor(opts TranslateOptions) int {
	if opts.Retries <= 0 {
		return DefaultRetries
	}
	return opts.Retries
}
