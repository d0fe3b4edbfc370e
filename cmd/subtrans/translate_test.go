package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ChamsBouzaiene/subtrans/internal/codec"
	"github.com/ChamsBouzaiene/subtrans/internal/config"
	"github.com/ChamsBouzaiene/subtrans/internal/project"
	"github.com/ChamsBouzaiene/subtrans/internal/subtitles"
)

const inputSRT = `1
00:00:01,000 --> 00:00:02,000
hello

2
00:00:03,000 --> 00:00:04,000
good morning

3
00:00:05,000 --> 00:00:06,000
see you
`

func TestResolveSettings(t *testing.T) {
	env := map[string]string{
		"SUBTRANS_TARGET_LANG": "German",
		"SUBTRANS_RETRIES":     "5",
		"LLM_PROVIDER":         "groq",
	}
	getenv := func(k string) string { return env[k] }

	s, err := resolveSettings(translateFlags{}, nil, &config.Config{}, getenv)
	if err != nil {
		t.Fatalf("resolveSettings() error = %v", err)
	}
	if s.SourceLang != defaultSourceLang || s.TargetLang != "German" || s.Retries != 5 || s.BatchSize != 40 || s.MaxWindow != defaultMaxWindow {
		t.Errorf("resolveSettings() = %+v", s)
	}
	if s.ClientType != clientAPI || s.Backend.Provider != "groq" || !s.Checkpoints {
		t.Errorf("resolveSettings() = %+v", s)
	}

	saved := &config.Config{LLMProvider: "deepseek", APIKey: "saved", TargetLang: "French", BatchSize: 10}
	s, err = resolveSettings(translateFlags{targetLang: "Italian", noCheckpoint: true}, nil, saved, getenv)
	if err != nil {
		t.Fatal(err)
	}
	if s.TargetLang != "Italian" || s.BatchSize != 10 || s.Checkpoints {
		t.Errorf("flags/config precedence: %+v", s)
	}
	if s.Backend.Provider != "deepseek" || s.Backend.APIKey != "saved" {
		t.Errorf("Backend = %+v", s.Backend)
	}

	proj := &project.ProjectConfig{TargetLang: "Korean", BatchSize: 12}
	s, _ = resolveSettings(translateFlags{}, proj, saved, getenv)
	if s.TargetLang != "Korean" || s.BatchSize != 12 {
		t.Errorf("project config precedence: %+v", s)
	}

	// A provider chosen on the command line does not inherit another provider's key.
	s, _ = resolveSettings(translateFlags{provider: "openai"}, nil, saved, getenv)
	if s.Backend.APIKey != "" {
		t.Errorf("APIKey leaked across providers: %+v", s.Backend)
	}
}

func TestResolveSettingsErrors(t *testing.T) {
	getenv := func(k string) string {
		if k == "SUBTRANS_BATCH_SIZE" {
			return "lots"
		}
		return ""
	}
	if _, err := resolveSettings(translateFlags{}, nil, nil, getenv); err == nil {
		t.Error("invalid SUBTRANS_BATCH_SIZE accepted")
	}
	none := func(string) string { return "" }
	if _, err := resolveSettings(translateFlags{clientType: "carrier-pigeon"}, nil, nil, none); err == nil {
		t.Error("invalid client type accepted")
	}
}

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		in, lang, want string
	}{
		{"movie.srt", "English", "movie.english.srt"},
		{"dir/ep01.vtt", "Brazilian Portuguese", "dir/ep01.brazilian-portuguese.vtt"},
		{"noext", "", "noext.translated"},
	}
	for _, tt := range tests {
		if got := defaultOutputPath(tt.in, tt.lang); got != tt.want {
			t.Errorf("defaultOutputPath(%q, %q) = %q, want %q", tt.in, tt.lang, got, tt.want)
		}
	}
}

// upperServer answers each chat completion by upper-casing the lines of the last message.
func upperServer(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		lines := codec.DecodeAll(req.Messages[len(req.Messages)-1].Content)
		for i := range lines {
			lines[i].Text = strings.ToUpper(lines[i].Text)
		}
		resp := map[string]any{
			"id":     "x",
			"object": "chat.completion",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": codec.Encode(lines)},
				"finish_reason": "stop",
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestRunTranslate(t *testing.T) {
	srv := upperServer(t)
	defer srv.Close()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("HOME", dir)
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "test")
	t.Setenv("OPENAI_BASE_URL", srv.URL)

	input := filepath.Join(dir, "in.srt")
	if err := os.WriteFile(input, []byte(inputSRT), 0644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "out.srt")

	if err := runTranslate(context.Background(), input, output, translateFlags{batchSize: 2}); err != nil {
		t.Fatalf("runTranslate() error = %v", err)
	}

	out, err := subtitles.Open(output)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"HELLO", "GOOD MORNING", "SEE YOU"}
	for i, l := range out.Lines() {
		if l.Text != want[i] {
			t.Errorf("line %d = %q, want %q", l.Index, l.Text, want[i])
		}
	}
}

func TestRunTranslateDryRunWithoutBackend(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("HOME", dir)
	t.Setenv("LLM_PROVIDER", "groq")
	t.Setenv("GROQ_API_KEY", "")

	input := filepath.Join(dir, "in.srt")
	if err := os.WriteFile(input, []byte(inputSRT), 0644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "out.srt")

	if err := runTranslate(context.Background(), input, output, translateFlags{dryRun: true}); err != nil {
		t.Fatalf("runTranslate(dry run) error = %v", err)
	}
	out, err := subtitles.Open(output)
	if err != nil {
		t.Fatal(err)
	}
	if got := out.Lines()[1].Text; got != "good morning" {
		t.Errorf("dry run changed text: %q", got)
	}
}
