package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Config holds the user's persistent configuration preferences.
type Config struct {
	LLMProvider   string `json:"llm_provider,omitempty"`   // openai, anthropic, kimi, etc.
	APIKey        string `json:"api_key,omitempty"`        // The API key for the selected provider
	Model         string `json:"model,omitempty"`          // Default model name
	BaseURL       string `json:"base_url,omitempty"`       // Optional override for API base URL
	ClientType    string `json:"client_type,omitempty"`    // api or manual
	SourceLang    string `json:"source_lang,omitempty"`    // Default source language
	TargetLang    string `json:"target_lang,omitempty"`    // Default target language
	BatchSize     int    `json:"batch_size,omitempty"`     // Lines per chunk
	Retries       int    `json:"retries,omitempty"`        // Attempts per chunk
	MaxWindow     int    `json:"max_window,omitempty"`     // Evictable messages kept in the API thread
	PromptVersion string `json:"prompt_version,omitempty"` // 1.0.0 or 2.0.0
	Checkpoints   *bool  `json:"checkpoints,omitempty"`    // Resume finished chunks across runs
}

// CheckpointsEnabled reports whether chunk checkpoints are on. Defaults to true.
func (c *Config) CheckpointsEnabled() bool {
	return c.Checkpoints == nil || *c.Checkpoints
}

// Manager handles loading and saving the configuration.
type Manager struct {
	configDir string
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user config dir: %w", err)
	}

	return NewManagerAt(filepath.Join(configDir, "subtrans")), nil
}

// NewManagerAt creates a manager rooted at dir.
func NewManagerAt(dir string) *Manager {
	return &Manager{configDir: dir}
}

// Dir returns the configuration directory. Checkpoints live there too.
func (m *Manager) Dir() string {
	return m.configDir
}

// GetConfigPath returns the absolute path to the config.json file.
func (m *Manager) GetConfigPath() string {
	return filepath.Join(m.configDir, "config.json")
}

// Load reads the configuration from disk.
// If the file does not exist, it returns an empty Config and no error.
func (m *Manager) Load() (*Config, error) {
	path := m.GetConfigPath()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := Validate(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config json: %w", err)
	}

	return &cfg, nil
}

// Save writes the configuration to disk with restricted permissions (0600).
func (m *Manager) Save(cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := Validate(data); err != nil {
		return err
	}

	if err := os.MkdirAll(m.configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	// Holds an API key: owner read/write only.
	if err := os.WriteFile(m.GetConfigPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Exists checks if the configuration file has been created.
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.GetConfigPath())
	return !os.IsNotExist(err)
}

// Keys lists the settable configuration keys.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var setters = map[string]func(c *Config, v string) error{
	"llm_provider":   func(c *Config, v string) error { c.LLMProvider = v; return nil },
	"api_key":        func(c *Config, v string) error { c.APIKey = v; return nil },
	"model":          func(c *Config, v string) error { c.Model = v; return nil },
	"base_url":       func(c *Config, v string) error { c.BaseURL = v; return nil },
	"client_type":    func(c *Config, v string) error { c.ClientType = v; return nil },
	"source_lang":    func(c *Config, v string) error { c.SourceLang = v; return nil },
	"target_lang":    func(c *Config, v string) error { c.TargetLang = v; return nil },
	"prompt_version": func(c *Config, v string) error { c.PromptVersion = v; return nil },
	"batch_size":     intSetter(func(c *Config, n int) { c.BatchSize = n }),
	"retries":        intSetter(func(c *Config, n int) { c.Retries = n }),
	"max_window":     intSetter(func(c *Config, n int) { c.MaxWindow = n }),
	"checkpoints": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("checkpoints: %w", err)
		}
		c.Checkpoints = &b
		return nil
	},
}

func intSetter(set func(c *Config, n int)) func(c *Config, v string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("not an integer: %q", v)
		}
		set(c, n)
		return nil
	}
}

// Set assigns value to key on cfg. The result is validated when saved.
func (c *Config) Set(key, value string) error {
	set, ok := setters[strings.ToLower(key)]
	if !ok {
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys(), ", "))
	}
	return set(c, value)
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	r := *c
	if len(r.APIKey) > 8 {
		r.APIKey = r.APIKey[:4] + "…" + r.APIKey[len(r.APIKey)-4:]
	} else if r.APIKey != "" {
		r.APIKey = "****"
	}
	return r
}
