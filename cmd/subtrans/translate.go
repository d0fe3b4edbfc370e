package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ChamsBouzaiene/subtrans/internal/checkpoint"
	"github.com/ChamsBouzaiene/subtrans/internal/config"
	"github.com/ChamsBouzaiene/subtrans/internal/engine"
	"github.com/ChamsBouzaiene/subtrans/internal/project"
	"github.com/ChamsBouzaiene/subtrans/internal/providers"
	"github.com/ChamsBouzaiene/subtrans/internal/session"
	"github.com/ChamsBouzaiene/subtrans/internal/subtitles"
)

func translateCmd() *cobra.Command {
	var f translateFlags

	cmd := &cobra.Command{
		Use:   "translate <input> [output]",
		Short: "Translate a subtitle file",
		Long: `Translate a subtitle file chunk by chunk.

The output format follows the output extension. Without an output path the
translation is written next to the input as <name>.<target-lang><ext>.

Finished chunks are checkpointed; re-running the same command after a failure
resumes where it stopped.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			output := ""
			if len(args) > 1 {
				output = args[1]
			}
			return runTranslate(cmd.Context(), input, output, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.sourceLang, "source-lang", "", "Source language (default "+defaultSourceLang+")")
	fl.StringVar(&f.targetLang, "target-lang", "", "Target language (default "+defaultTargetLang+")")
	fl.StringVar(&f.clientType, "client-type", "", "Backend: api or manual (default api)")
	fl.StringVar(&f.provider, "provider", "", "LLM provider for the api backend: "+strings.Join(providers.SupportedProviders(), ", "))
	fl.StringVar(&f.apiKey, "api-key", "", "API key (default from config or <PROVIDER>_API_KEY)")
	fl.StringVar(&f.model, "model", "", "Model name")
	fl.StringVar(&f.promptVersion, "prompt-version", "", "Prompt version (default latest)")
	fl.IntVar(&f.batchSize, "batch-size", 0, fmt.Sprintf("Lines per chunk (default %d)", engine.DefaultBatchSize))
	fl.IntVar(&f.retries, "retries", 0, fmt.Sprintf("Attempts per chunk (default %d)", engine.DefaultRetries))
	fl.IntVar(&f.window, "window", 0, fmt.Sprintf("Conversation messages kept as context by the api backend (default %d)", defaultMaxWindow))
	fl.BoolVar(&f.dryRun, "dry-run", false, "Build prompts without calling the backend")
	fl.BoolVar(&f.noCheckpoint, "no-checkpoint", false, "Do not save or resume chunk checkpoints")

	return cmd
}

func runTranslate(ctx context.Context, input, output string, f translateFlags) error {
	cfgManager, userCfg := loadUserConfig()

	projectRoot := filepath.Dir(input)
	projCfg, err := project.LoadConfig(projectRoot)
	if err != nil {
		return err
	}
	notes, err := project.LoadNotes(projectRoot)
	if err != nil {
		return err
	}

	s, err := resolveSettings(f, projCfg, userCfg, os.Getenv)
	if err != nil {
		return err
	}
	s.Notes = notes
	if output == "" {
		output = defaultOutputPath(input, s.TargetLang)
	}

	content, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	subs, err := subtitles.Open(input)
	if err != nil {
		return err
	}
	lines := subs.Lines()
	log.Printf("📄 %s: %d cues, %s → %s", input, len(lines), s.SourceLang, s.TargetLang)

	backend, modelName, err := newBackend(s)
	if err != nil {
		if !s.DryRun {
			return err
		}
		log.Printf("⚠️  No backend available (%v); dry run continues without one", err)
	}

	tcfg := engine.DefaultTranslatorConfig()
	tcfg.BatchSize = s.BatchSize
	tcfg.PromptVersion = s.PromptVersion
	tcfg.Model = modelName
	tcfg.Hook = engine.Hooks{engine.LoggerHook{L: log.Default()}, newProgressHook(os.Stderr)}

	var job *checkpoint.Job
	if s.Checkpoints && !s.DryRun {
		store, j, err := openJob(ctx, cfgManager, content, input, s)
		if err != nil {
			log.Printf("⚠️  Checkpoints disabled: %v", err)
		} else {
			defer store.Close()
			job = j
			tcfg.Checkpoints = job
			if n, err := job.Count(ctx); err == nil && n > 0 {
				log.Printf("🔄 Resuming job %s: %d chunk(s) already translated", job.ID(), n)
			}
		}
	}

	tr := engine.NewTranslator(backend, tcfg)
	thread, err := newThread(tr, backend, s)
	if err != nil {
		return err
	}

	opts := engine.TranslateOptions{
		SourceLang: s.SourceLang,
		TargetLang: s.TargetLang,
		DryRun:     s.DryRun,
		Retries:    s.Retries,
	}
	translated, err := tr.TranslateAll(ctx, thread, lines, opts)
	if err != nil {
		if job != nil {
			return fmt.Errorf("%w (finished chunks are checkpointed; re-run to resume)", err)
		}
		return err
	}

	subs.Apply(translated)
	if err := subs.Write(output); err != nil {
		return err
	}
	log.Printf("✅ Wrote %s", output)

	if job != nil {
		if err := job.Clear(ctx); err != nil {
			log.Printf("⚠️  Failed to clear checkpoints: %v", err)
		}
	}
	return nil
}

// newBackend creates the backend selected by s and returns it with its model name.
func newBackend(s runSettings) (engine.Backend, string, error) {
	if s.ClientType == clientManual {
		return providers.NewManualBackend(providers.SystemClipboard{}, os.Stdin, os.Stderr), clientManual, nil
	}
	return providers.NewBackend(s.Backend, os.Getenv)
}

// newThread creates the run's thread. The api backend gets a bounded window seeded
// with the preserved system prompt; the manual backend only ever relays the last
// message, so its thread is unbounded and unseeded.
func newThread(tr *engine.Translator, backend engine.Backend, s runSettings) (*session.Thread, error) {
	if s.ClientType == clientManual {
		if s.Notes != "" {
			log.Printf("⚠️  Translator notes are only sent by the api backend; paste them into your chat yourself")
		}
		if backend == nil {
			return session.NewThread(session.ThreadOptions{}), nil
		}
		return backend.CreateThread(session.ThreadOptions{}), nil
	}

	opts := session.ThreadOptions{MaxWindow: s.MaxWindow}
	var thread *session.Thread
	if backend == nil {
		thread = session.NewThread(opts)
	} else {
		thread = backend.CreateThread(opts)
	}
	seed := engine.TranslateOptions{SourceLang: s.SourceLang, TargetLang: s.TargetLang, Notes: s.Notes}
	if err := tr.Seed(thread, seed); err != nil {
		return nil, fmt.Errorf("failed to seed thread: %w", err)
	}
	return thread, nil
}

func openJob(ctx context.Context, m *config.Manager, content []byte, input string, s runSettings) (*checkpoint.Store, *checkpoint.Job, error) {
	if m == nil {
		return nil, nil, fmt.Errorf("no config directory")
	}
	if err := os.MkdirAll(m.Dir(), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create config dir: %w", err)
	}

	store, err := checkpoint.Open(ctx, filepath.Join(m.Dir(), "checkpoints.db"))
	if err != nil {
		return nil, nil, err
	}

	abs, err := filepath.Abs(input)
	if err != nil {
		abs = input
	}
	job, err := store.Job(ctx, checkpoint.JobID(content, s.SourceLang, s.TargetLang), abs, s.SourceLang, s.TargetLang)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return store, job, nil
}

// defaultOutputPath returns in.<lang>.ext for in.ext.
func defaultOutputPath(input, targetLang string) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	lang := strings.ToLower(strings.Join(strings.Fields(targetLang), "-"))
	if lang == "" {
		lang = "translated"
	}
	return base + "." + lang + ext
}
