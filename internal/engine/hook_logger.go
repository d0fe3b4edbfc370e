// engine/hook_logger.go
package engine

import (
	"context"
	"log"
	"time"

	"github.com/docker/go-units"

	"github.com/ChamsBouzaiene/subtrans/internal/codec"
	"github.com/ChamsBouzaiene/subtrans/internal/session"
)

type LoggerHook struct{ L *log.Logger }

func (h LoggerHook) OnRunStart(_ context.Context, st *RunState) {
	h.L.Printf("🚀 translating %d chunks (attempts per chunk: %d)", st.TotalChunks, st.MaxAttempts)
}
func (h LoggerHook) OnChunkStart(_ context.Context, st *RunState, chunk []codec.IndexedLine) {
	h.L.Printf("chunk %d/%d: lines %d-%d (%d lines)", st.Chunk, st.TotalChunks, st.Key.First, st.Key.Last, len(chunk))
}
func (h LoggerHook) OnBeforeCompletion(_ context.Context, st *RunState, msgs []session.Message) {
	tokenizer := GetTokenizerForModel(st.Model)
	tokens, _ := CountTokensForMessages(tokenizer, msgs, st.Model)
	h.L.Printf("📤 chunk=%d attempt=%d/%d: %d msgs | 💰 tokens=~%d", st.Chunk, st.Attempt, st.MaxAttempts, len(msgs), tokens)
	if limits := GetModelLimits(st.Model); tokens > limits.SoftLimit {
		h.L.Printf("⚠️  prompt of ~%d tokens is close to the context limit of %s (%d); consider a smaller batch size or window", tokens, st.Model, limits.HardLimit)
	}
}
func (h LoggerHook) OnAfterCompletion(_ context.Context, st *RunState, responses []session.Message) {
	if len(responses) == 0 {
		return
	}
	h.L.Printf("📥 chunk=%d attempt=%d: response of %d chars", st.Chunk, st.Attempt, len(responses[0].Content()))
}
func (h LoggerHook) OnMismatch(_ context.Context, _ *RunState, err *ShapeMismatchError) {
	h.L.Printf("⚠️  %v. Retrying.", err)
}
func (h LoggerHook) OnRepair(_ context.Context, _ *RunState, err *ShapeMismatchError) {
	h.L.Printf("⚠️  %v. Truncating or padding the translation to match the expected line count.", err)
}
func (h LoggerHook) OnRollback(_ context.Context, st *RunState, removed []session.Message, err error) {
	h.L.Printf("backend error on chunk %d attempt %d: %v (rolled back %d messages)", st.Chunk, st.Attempt, err, len(removed))
}
func (h LoggerHook) OnChunkDone(_ context.Context, st *RunState, result []codec.IndexedLine, resumed bool) {
	if resumed {
		h.L.Printf("♻️  chunk %d/%d restored from checkpoint (%d lines)", st.Chunk, st.TotalChunks, len(result))
		return
	}
	h.L.Printf("✅ chunk %d/%d: received %d translated lines", st.Chunk, st.TotalChunks, len(result))
}
func (h LoggerHook) OnDone(_ context.Context, st *RunState, err error) {
	elapsed := units.HumanDuration(time.Since(st.Started))
	if err != nil {
		h.L.Printf("translation aborted after %s at chunk %d/%d: %v", elapsed, st.Chunk, st.TotalChunks, err)
		return
	}
	h.L.Printf("done in %s: lines=%d retries=%d mismatches=%d repairs=%d rollbacks=%d resumed=%d",
		elapsed, st.Lines, st.Retries, st.Mismatches, st.Repairs, st.Rollbacks, st.Resumed)
}
func (h LoggerHook) OnRetryAttempt(_ context.Context, _ *RunState, attempt int, maxAttempts int, delay time.Duration, err error) {
	h.L.Printf("retry attempt=%d/%d delay=%v error=%v", attempt, maxAttempts, delay, err)
}
func (h LoggerHook) OnRetryExhausted(_ context.Context, _ *RunState, err error) {
	h.L.Printf("retries exhausted: %v", err)
}
