package engine

import "time"

// RunState tracks the progress of one TranslateAll run.
type RunState struct {
	Chunk       int       // Current chunk (1-based)
	TotalChunks int       // Number of chunks in the run
	Key         ChunkKey  // Key of the current chunk
	Attempt     int       // Current attempt for the chunk (1-based)
	MaxAttempts int       // Attempt budget per chunk
	Model       string    // Model name, for token estimates
	Started     time.Time // When the run started

	Lines      int // Lines translated so far
	Retries    int // Attempts beyond the first, over all chunks
	Mismatches int // Responses with the wrong record count
	Repairs    int // Chunks resolved by truncation or padding
	Rollbacks  int // Backend failures whose messages were removed
	Resumed    int // Chunks restored from checkpoints
}
