package engine

import (
	"slices"

	"github.com/ChamsBouzaiene/subtrans/internal/codec"
)

// Batches splits items into contiguous batches of at most size elements.
// A non-positive size selects DefaultBatchSize.
func Batches[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = DefaultBatchSize
	}
	batches := make([][]T, 0, (len(items)+size-1)/size)
	for batch := range slices.Chunk(items, size) {
		batches = append(batches, batch)
	}
	return batches
}

// ResizeChunk truncates chunk to n elements, or pads it by calling supplier with
// the position of every missing element. The input is never modified.
func ResizeChunk[T any](chunk []T, n int, supplier func(pos int) T) []T {
	if n < 0 {
		n = 0
	}
	if len(chunk) >= n {
		return slices.Clone(chunk[:n])
	}
	out := make([]T, 0, n)
	out = append(out, chunk...)
	for pos := len(chunk); pos < n; pos++ {
		out = append(out, supplier(pos))
	}
	return out
}

// RepairChunk forces candidate to the length of chunk. Padding records get empty
// text and the index chunk[0].Index + position.
func RepairChunk(chunk, candidate []codec.IndexedLine) []codec.IndexedLine {
	offset := 0
	if len(chunk) > 0 {
		offset = chunk[0].Index
	}
	return ResizeChunk(candidate, len(chunk), func(pos int) codec.IndexedLine {
		return codec.IndexedLine{Index: offset + pos, Text: ""}
	})
}
