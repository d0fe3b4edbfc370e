package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/ChamsBouzaiene/subtrans/internal/codec"
	"github.com/ChamsBouzaiene/subtrans/internal/engine"
)

// progressHook prints one colored line per finished chunk for the operator.
type progressHook struct {
	engine.NopHook
	out io.Writer
}

func newProgressHook(out io.Writer) *progressHook {
	return &progressHook{out: out}
}

func (h *progressHook) OnChunkDone(_ context.Context, st *engine.RunState, result []codec.IndexedLine, resumed bool) {
	mark := color.GreenString("✓")
	note := ""
	if resumed {
		mark = color.CyanString("↺")
		note = color.CyanString(" (checkpoint)")
	}
	fmt.Fprintf(h.out, "%s chunk %d/%d  lines %d-%d%s\n", mark, st.Chunk, st.TotalChunks, st.Key.First, st.Key.Last, note)
}

func (h *progressHook) OnRepair(_ context.Context, st *engine.RunState, err *engine.ShapeMismatchError) {
	fmt.Fprintf(h.out, "%s chunk %d/%d: got %d lines for %d, padded/truncated\n",
		color.YellowString("!"), st.Chunk, st.TotalChunks, err.Got, err.Expected)
}

func (h *progressHook) OnDone(_ context.Context, st *engine.RunState, err error) {
	if err != nil {
		fmt.Fprintf(h.out, "%s stopped after %d/%d chunks\n", color.RedString("✗"), st.Chunk-1, st.TotalChunks)
		return
	}
	fmt.Fprintf(h.out, "%s %d lines in %d chunks (%d mismatches, %d repairs, %d rollbacks)\n",
		color.GreenString("✓"), st.Lines, st.TotalChunks, st.Mismatches, st.Repairs, st.Rollbacks)
}
