package engine

import (
	"context"
	"time"

	"github.com/ChamsBouzaiene/subtrans/internal/codec"
	"github.com/ChamsBouzaiene/subtrans/internal/session"
)

type Hooks []Hook

func (hs Hooks) OnRunStart(ctx context.Context, st *RunState) {
	for _, h := range hs {
		h.OnRunStart(ctx, st)
	}
}
func (hs Hooks) OnChunkStart(ctx context.Context, st *RunState, c []codec.IndexedLine) {
	for _, h := range hs {
		h.OnChunkStart(ctx, st, c)
	}
}
func (hs Hooks) OnBeforeCompletion(ctx context.Context, st *RunState, m []session.Message) {
	for _, h := range hs {
		h.OnBeforeCompletion(ctx, st, m)
	}
}
func (hs Hooks) OnAfterCompletion(ctx context.Context, st *RunState, r []session.Message) {
	for _, h := range hs {
		h.OnAfterCompletion(ctx, st, r)
	}
}
func (hs Hooks) OnMismatch(ctx context.Context, st *RunState, e *ShapeMismatchError) {
	for _, h := range hs {
		h.OnMismatch(ctx, st, e)
	}
}
func (hs Hooks) OnRepair(ctx context.Context, st *RunState, e *ShapeMismatchError) {
	for _, h := range hs {
		h.OnRepair(ctx, st, e)
	}
}
func (hs Hooks) OnRollback(ctx context.Context, st *RunState, removed []session.Message, e error) {
	for _, h := range hs {
		h.OnRollback(ctx, st, removed, e)
	}
}
func (hs Hooks) OnChunkDone(ctx context.Context, st *RunState, r []codec.IndexedLine, resumed bool) {
	for _, h := range hs {
		h.OnChunkDone(ctx, st, r, resumed)
	}
}
func (hs Hooks) OnDone(ctx context.Context, st *RunState, e error) {
	for _, h := range hs {
		h.OnDone(ctx, st, e)
	}
}
func (hs Hooks) OnRetryAttempt(ctx context.Context, st *RunState, a, m int, d time.Duration, e error) {
	for _, h := range hs {
		h.OnRetryAttempt(ctx, st, a, m, d, e)
	}
}
func (hs Hooks) OnRetryExhausted(ctx context.Context, st *RunState, e error) {
	for _, h := range hs {
		h.OnRetryExhausted(ctx, st, e)
	}
}
