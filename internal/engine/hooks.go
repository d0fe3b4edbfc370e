// engine/hooks.go
package engine

import (
	"context"
	"time"

	"github.com/ChamsBouzaiene/subtrans/internal/codec"
	"github.com/ChamsBouzaiene/subtrans/internal/session"
)

type Hook interface {
	OnRunStart(ctx context.Context, st *RunState)
	OnChunkStart(ctx context.Context, st *RunState, chunk []codec.IndexedLine)
	OnBeforeCompletion(ctx context.Context, st *RunState, messages []session.Message)
	OnAfterCompletion(ctx context.Context, st *RunState, responses []session.Message)
	OnMismatch(ctx context.Context, st *RunState, err *ShapeMismatchError)
	OnRepair(ctx context.Context, st *RunState, err *ShapeMismatchError)
	OnRollback(ctx context.Context, st *RunState, removed []session.Message, err error)
	OnChunkDone(ctx context.Context, st *RunState, result []codec.IndexedLine, resumed bool)
	OnDone(ctx context.Context, st *RunState, err error)
	// Retry hooks
	OnRetryAttempt(ctx context.Context, st *RunState, attempt int, maxAttempts int, delay time.Duration, err error)
	OnRetryExhausted(ctx context.Context, st *RunState, err error)
}

// NopHook lets you implement any hook you need.
type NopHook struct{}

func (NopHook) OnRunStart(context.Context, *RunState)                                     {}
func (NopHook) OnChunkStart(context.Context, *RunState, []codec.IndexedLine)              {}
func (NopHook) OnBeforeCompletion(context.Context, *RunState, []session.Message)          {}
func (NopHook) OnAfterCompletion(context.Context, *RunState, []session.Message)           {}
func (NopHook) OnMismatch(context.Context, *RunState, *ShapeMismatchError)                {}
func (NopHook) OnRepair(context.Context, *RunState, *ShapeMismatchError)                  {}
func (NopHook) OnRollback(context.Context, *RunState, []session.Message, error)           {}
func (NopHook) OnChunkDone(context.Context, *RunState, []codec.IndexedLine, bool)         {}
func (NopHook) OnDone(context.Context, *RunState, error)                                  {}
func (NopHook) OnRetryAttempt(context.Context, *RunState, int, int, time.Duration, error) {}
func (NopHook) OnRetryExhausted(context.Context, *RunState, error)                        {}
