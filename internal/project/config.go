// Package project reads per-directory translation settings: a .subtrans
// directory next to the subtitle files holding defaults and translator notes.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// Dir is the directory name for per-project configuration
	Dir = ".subtrans"
	// ConfigFile is the name of the project configuration file
	ConfigFile = "config.json"
	// NotesFile holds free-form notes for the translator (names, tone, glossary)
	NotesFile = "notes"
)

// ProjectConfig holds per-project defaults. They override the user config and
// are overridden by command-line flags.
type ProjectConfig struct {
	SourceLang    string `json:"source_lang,omitempty"`
	TargetLang    string `json:"target_lang,omitempty"`
	PromptVersion string `json:"prompt_version,omitempty"`
	BatchSize     int    `json:"batch_size,omitempty"`
}

func configPath(root string) string {
	return filepath.Join(root, Dir, ConfigFile)
}

func notesPath(root string) string {
	return filepath.Join(root, Dir, NotesFile)
}

// ConfigExists checks if a project configuration file exists.
func ConfigExists(root string) bool {
	_, err := os.Stat(configPath(root))
	return !os.IsNotExist(err)
}

// LoadConfig reads the project configuration from disk.
// Returns nil and no error if the config file does not exist.
func LoadConfig(root string) (*ProjectConfig, error) {
	data, err := os.ReadFile(configPath(root))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read project config: %w", err)
	}

	var cfg ProjectConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse project config: %w", err)
	}

	return &cfg, nil
}

// SaveConfig writes the project configuration, creating the .subtrans directory.
func SaveConfig(root string, cfg *ProjectConfig) error {
	if err := os.MkdirAll(filepath.Join(root, Dir), 0755); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", Dir, err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project config: %w", err)
	}

	if err := os.WriteFile(configPath(root), data, 0644); err != nil {
		return fmt.Errorf("failed to write project config: %w", err)
	}

	return nil
}

// LoadNotes reads translator notes from the .subtrans/notes file, trimmed.
// Returns empty string and no error if the file does not exist.
func LoadNotes(root string) (string, error) {
	data, err := os.ReadFile(notesPath(root))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read notes file: %w", err)
	}

	return strings.TrimSpace(string(data)), nil
}
