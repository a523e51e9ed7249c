// Package config handles Valet configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Backend names accepted in the config file.
const (
	BackendOffline     = "offline"
	BackendGemini      = "gemini"
	BackendHuggingFace = "huggingface"
)

// DefaultSearchPaths returns the config file search order.
// An explicit path (from -config flag) is checked first.
// Then: ./config.yaml, ~/.config/valet/config.yaml, /etc/valet/config.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"config.yaml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "valet", "config.yaml"))
	}

	paths = append(paths, "/etc/valet/config.yaml")
	return paths
}

// FindConfig locates a config file. If explicit is non-empty, it must exist.
// Otherwise, searches DefaultSearchPaths and returns the first that exists.
// Returns the empty string with no error when nothing was found: a missing
// config file is not fatal, the defaults run offline.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", nil
}

// Config holds all Valet configuration.
type Config struct {
	Backend     string            `yaml:"backend"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	HuggingFace HuggingFaceConfig `yaml:"huggingface"`
	Transcript  TranscriptConfig  `yaml:"transcript"`
	Workspace   WorkspaceConfig   `yaml:"workspace"`
	DataDir     string            `yaml:"data_dir"`
	LogLevel    string            `yaml:"log_level"`
}

// GeminiConfig defines Gemini API settings.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// HuggingFaceConfig defines Hugging Face Inference API settings.
type HuggingFaceConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// TranscriptConfig bounds the rendered conversation history.
type TranscriptConfig struct {
	// MaxChars is the rendered-length budget that triggers compaction.
	MaxChars int `yaml:"max_chars"`
	// KeepTail is how many characters of history survive a compaction.
	KeepTail int `yaml:"keep_tail"`
}

// WorkspaceConfig defines the agent's workspace for the read_file tool.
type WorkspaceConfig struct {
	// Path is the root directory for file reads. All read_file paths
	// are relative to this directory. If empty, the current working
	// directory is used.
	Path string `yaml:"path"`
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns a default configuration: offline backend, data under
// ./data, workspace in the current directory.
func Default() *Config {
	return &Config{
		Backend: BackendOffline,
		Gemini:  GeminiConfig{Model: "gemini-2.0-flash"},
		DataDir: "data",
	}
}

// Validate checks that the selected backend has what it needs. A
// backend selected without its credential is a fatal configuration
// error, reported at startup rather than on the first turn.
func (c *Config) Validate() error {
	switch c.Backend {
	case "", BackendOffline:
		return nil
	case BackendGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("backend %q selected but gemini.api_key is empty", c.Backend)
		}
		return nil
	case BackendHuggingFace:
		if c.HuggingFace.APIKey == "" {
			return fmt.Errorf("backend %q selected but huggingface.api_key is empty", c.Backend)
		}
		return nil
	default:
		return fmt.Errorf("unknown backend %q (valid: offline, gemini, huggingface)", c.Backend)
	}
}

// NotesPath returns the notes store location under the data directory.
func (c *Config) NotesPath() string {
	return filepath.Join(c.DataDir, "agent_memory.json")
}

// RemindersPath returns the reminders store location under the data
// directory.
func (c *Config) RemindersPath() string {
	return filepath.Join(c.DataDir, "agent_reminders.json")
}
