package checkpoint

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ChamsBouzaiene/subtrans/internal/codec"
	"github.com/ChamsBouzaiene/subtrans/internal/engine"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "checkpoints.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestJobSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	job, err := s.Job(ctx, "job1", "in.srt", "English", "French")
	if err != nil {
		t.Fatalf("Job() error = %v", err)
	}

	key := engine.ChunkKey{First: 1, Last: 2}
	if _, ok, err := job.Load(ctx, key); err != nil || ok {
		t.Fatalf("Load() before Save = ok %v, err %v", ok, err)
	}

	lines := []codec.IndexedLine{{Index: 1, Text: "Bonjour"}, {Index: 2, Text: "Ça va ?\nOui."}}
	if err := job.Save(ctx, key, lines); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, ok, err := job.Load(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Load() = ok %v, err %v", ok, err)
	}
	if !reflect.DeepEqual(got, lines) {
		t.Errorf("Load() = %#v, want %#v", got, lines)
	}

	// Overwrite
	lines[0].Text = "Salut"
	if err := job.Save(ctx, key, lines); err != nil {
		t.Fatal(err)
	}
	got, _, _ = job.Load(ctx, key)
	if got[0].Text != "Salut" {
		t.Errorf("Load() after overwrite = %q", got[0].Text)
	}
	if n, _ := job.Count(ctx); n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}

func TestJobsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	a, _ := s.Job(ctx, "a", "a.srt", "en", "fr")
	b, _ := s.Job(ctx, "b", "b.srt", "en", "de")
	key := engine.ChunkKey{First: 1, Last: 1}
	if err := a.Save(ctx, key, []codec.IndexedLine{{Index: 1, Text: "x"}}); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := b.Load(ctx, key); ok {
		t.Error("job b sees job a's checkpoint")
	}

	jobs, err := s.Jobs(ctx)
	if err != nil {
		t.Fatalf("Jobs() error = %v", err)
	}
	counts := map[string]int{}
	for _, j := range jobs {
		counts[j.JobID] = j.Chunks
	}
	if counts["a"] != 1 || counts["b"] != 0 || len(jobs) != 2 {
		t.Errorf("Jobs() counts = %v", counts)
	}

	if err := a.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, ok, _ := a.Load(ctx, key); ok {
		t.Error("checkpoint survived Clear")
	}

	n, err := s.ClearAll(ctx)
	if err != nil || n != 1 {
		t.Errorf("ClearAll() = %d, %v; want 1", n, err)
	}
}

func TestReopenKeepsCheckpoints(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "c.db")

	s, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	job, _ := s.Job(ctx, "j", "in.srt", "en", "fr")
	key := engine.ChunkKey{First: 41, Last: 80}
	if err := job.Save(ctx, key, []codec.IndexedLine{{Index: 41, Text: "y"}}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	job, _ = s.Job(ctx, "j", "in.srt", "en", "fr")
	if _, ok, _ := job.Load(ctx, key); !ok {
		t.Error("checkpoint lost after reopen")
	}
}

func TestJobID(t *testing.T) {
	base := JobID([]byte("content"), "en", "fr")
	if len(base) != 16 {
		t.Errorf("len(JobID) = %d, want 16", len(base))
	}
	if JobID([]byte("content"), "en", "fr") != base {
		t.Error("JobID is not stable")
	}
	for _, other := range []string{
		JobID([]byte("content!"), "en", "fr"),
		JobID([]byte("content"), "en", "de"),
		JobID([]byte("content"), "enf", "r"),
	} {
		if other == base {
			t.Errorf("JobID collision: %s", other)
		}
	}
}
