package providers

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ChamsBouzaiene/subtrans/internal/engine"
)

// Settings selects and configures a backend. Empty fields fall back to the
// provider's environment variables and then to its defaults.
type Settings struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Options  CompletionOptions
}

// providerSpec describes an OpenAI-compatible or Anthropic provider.
type providerSpec struct {
	label          string
	envPrefix      string
	defaultModel   string
	baseURL        string
	baseURLFromEnv bool   // <PREFIX>_BASE_URL overrides baseURL
	defaultKey     string // local servers accept any key
	anthropic      bool
}

var providerSpecs = map[string]providerSpec{
	"openai":    {label: "OpenAI", envPrefix: "OPENAI", defaultModel: "gpt-4o-mini", baseURLFromEnv: true},
	"anthropic": {label: "Anthropic", envPrefix: "ANTHROPIC", defaultModel: "claude-3-sonnet-20240229", anthropic: true},
	"kimi":      {label: "Kimi", envPrefix: "KIMI", defaultModel: "kimi-k2-250711", baseURL: "https://ark.ap-southeast.bytepluses.com/api/v3", baseURLFromEnv: true},
	"gemini":    {label: "Gemini", envPrefix: "GEMINI", defaultModel: "gemini-1.5-flash", baseURL: "https://generativelanguage.googleapis.com/v1beta/openai"},
	"lmstudio":  {label: "LM Studio", envPrefix: "LMSTUDIO", defaultModel: "local-model", baseURL: "http://localhost:1234/v1", baseURLFromEnv: true, defaultKey: "lm-studio"},
	"ollama":    {label: "Ollama", envPrefix: "OLLAMA", defaultModel: "llama3.1", baseURL: "http://localhost:11434/v1", baseURLFromEnv: true, defaultKey: "ollama"},
	"glm":       {label: "GLM", envPrefix: "GLM", defaultModel: "glm-4-plus", baseURL: "https://open.bigmodel.cn/api/paas/v4"},
	"minimax":   {label: "MiniMax", envPrefix: "MINIMAX", defaultModel: "abab6.5s-chat", baseURL: "https://api.minimax.chat/v1"},
	"deepseek":  {label: "DeepSeek", envPrefix: "DEEPSEEK", defaultModel: "deepseek-chat", baseURL: "https://api.deepseek.com/v1"},
	"groq":      {label: "Groq", envPrefix: "GROQ", defaultModel: "llama-3.1-70b-versatile", baseURL: "https://api.groq.com/openai/v1"},
}

// SupportedProviders lists the provider names accepted by NewBackend.
func SupportedProviders() []string {
	names := make([]string, 0, len(providerSpecs))
	for name := range providerSpecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewBackendFromEnv creates an automated backend from LLM_PROVIDER and the
// provider-specific environment variables.
func NewBackendFromEnv() (engine.Backend, string, error) {
	return NewBackend(Settings{}, os.Getenv)
}

// NewBackend creates an automated backend. It returns the backend and the model name.
func NewBackend(s Settings, getenv func(string) string) (engine.Backend, string, error) {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}

	provider := strings.ToLower(strings.TrimSpace(s.Provider))
	if provider == "" {
		provider = getenv("LLM_PROVIDER")
	}
	if provider == "" {
		// Default to OpenAI if not set
		provider = "openai"
	}

	spec, ok := providerSpecs[provider]
	if !ok {
		return nil, "", fmt.Errorf("unknown LLM_PROVIDER: %s (supported: %s)", provider, strings.Join(SupportedProviders(), ", "))
	}

	apiKey := firstNonEmpty(s.APIKey, getenv(spec.envPrefix+"_API_KEY"), spec.defaultKey)
	if apiKey == "" {
		return nil, "", fmt.Errorf("%s_API_KEY not set", spec.envPrefix)
	}

	modelName := firstNonEmpty(s.Model, getenv(spec.envPrefix+"_MODEL"), spec.defaultModel)

	if spec.anthropic {
		backend, err := NewAnthropicBackend(apiKey, modelName, s.Options)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create %s backend: %w", spec.label, err)
		}
		return backend, modelName, nil
	}

	baseURL := s.BaseURL
	if baseURL == "" && spec.baseURLFromEnv {
		baseURL = getenv(spec.envPrefix + "_BASE_URL")
	}
	if baseURL == "" {
		baseURL = spec.baseURL
	}

	backend, err := NewOpenAIBackend(apiKey, modelName, baseURL, s.Options)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create %s backend: %w", spec.label, err)
	}
	return backend, modelName, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
