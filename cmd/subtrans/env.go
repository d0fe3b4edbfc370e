package main

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/ChamsBouzaiene/subtrans/internal/config"
	"github.com/ChamsBouzaiene/subtrans/internal/engine"
	"github.com/ChamsBouzaiene/subtrans/internal/project"
	"github.com/ChamsBouzaiene/subtrans/internal/prompts"
	"github.com/ChamsBouzaiene/subtrans/internal/providers"
)

const (
	defaultSourceLang = "Japanese"
	defaultTargetLang = "English"
	defaultMaxWindow  = 5

	clientAPI    = "api"
	clientManual = "manual"
)

// translateFlags are the command-line values of translate. Zero values mean "not given".
type translateFlags struct {
	sourceLang    string
	targetLang    string
	clientType    string
	provider      string
	apiKey        string
	model         string
	promptVersion string
	batchSize     int
	retries       int
	window        int
	dryRun        bool
	noCheckpoint  bool
}

// runSettings is the effective configuration of one translate run.
type runSettings struct {
	SourceLang    string
	TargetLang    string
	ClientType    string
	Backend       providers.Settings
	PromptVersion prompts.PromptVersion
	BatchSize     int
	Retries       int
	MaxWindow     int
	DryRun        bool
	Checkpoints   bool
	Notes         string
}

// resolveSettings merges flags, the project config, the saved user config,
// SUBTRANS_* environment variables and defaults, in that order of precedence.
// Provider credentials not found here are looked up by the provider factory in
// the provider-specific environment variables.
func resolveSettings(f translateFlags, proj *project.ProjectConfig, cfg *config.Config, getenv func(string) string) (runSettings, error) {
	if proj == nil {
		proj = &project.ProjectConfig{}
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	s := runSettings{
		SourceLang:    pick(f.sourceLang, proj.SourceLang, cfg.SourceLang, getenv("SUBTRANS_SOURCE_LANG"), defaultSourceLang),
		TargetLang:    pick(f.targetLang, proj.TargetLang, cfg.TargetLang, getenv("SUBTRANS_TARGET_LANG"), defaultTargetLang),
		ClientType:    strings.ToLower(pick(f.clientType, cfg.ClientType, getenv("SUBTRANS_CLIENT_TYPE"), clientAPI)),
		PromptVersion: prompts.PromptVersion(pick(f.promptVersion, proj.PromptVersion, cfg.PromptVersion, getenv("SUBTRANS_PROMPT_VERSION"))),
		DryRun:        f.dryRun,
		Checkpoints:   !f.noCheckpoint && cfg.CheckpointsEnabled(),
	}

	var err error
	if s.BatchSize, err = pickInt(pickPositive(f.batchSize, proj.BatchSize), cfg.BatchSize, getenv("SUBTRANS_BATCH_SIZE"), engine.DefaultBatchSize); err != nil {
		return s, fmt.Errorf("batch size: %w", err)
	}
	if s.Retries, err = pickInt(f.retries, cfg.Retries, getenv("SUBTRANS_RETRIES"), engine.DefaultRetries); err != nil {
		return s, fmt.Errorf("retries: %w", err)
	}
	if s.MaxWindow, err = pickInt(f.window, cfg.MaxWindow, getenv("SUBTRANS_MAX_WINDOW"), defaultMaxWindow); err != nil {
		return s, fmt.Errorf("window: %w", err)
	}

	switch s.ClientType {
	case clientAPI, clientManual:
	default:
		return s, fmt.Errorf("invalid client type %q (want %s or %s)", s.ClientType, clientAPI, clientManual)
	}

	// Saved credentials belong to the saved provider only.
	provider := pick(f.provider, cfg.LLMProvider, getenv("LLM_PROVIDER"))
	s.Backend = providers.Settings{Provider: provider, APIKey: f.apiKey, Model: f.model}
	if cfg.LLMProvider == "" || strings.EqualFold(cfg.LLMProvider, provider) {
		s.Backend.APIKey = pick(s.Backend.APIKey, cfg.APIKey)
		s.Backend.Model = pick(s.Backend.Model, cfg.Model)
		s.Backend.BaseURL = cfg.BaseURL
	}

	return s, nil
}

// loadUserConfig loads the saved config; failures are logged and ignored.
func loadUserConfig() (*config.Manager, *config.Config) {
	m, err := config.NewManager()
	if err != nil {
		log.Printf("⚠️  Failed to initialize config manager: %v", err)
		return nil, &config.Config{}
	}
	cfg, err := m.Load()
	if err != nil {
		log.Printf("⚠️  Failed to load user config: %v", err)
		return m, &config.Config{}
	}
	if m.Exists() {
		log.Printf("User config loaded from: %s", m.GetConfigPath())
	}
	return m, cfg
}

func pick(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func pickInt(flag, saved int, env string, def int) (int, error) {
	if flag > 0 {
		return flag, nil
	}
	if saved > 0 {
		return saved, nil
	}
	if env != "" {
		n, err := strconv.Atoi(env)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid value %q", env)
		}
		return n, nil
	}
	return def, nil
}

func pickPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
