// Package config loads and validates the application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pondworks/waldenbot/internal/domain/entities"
)

// OllamaConfig holds connection details for the Ollama backend.
type OllamaConfig struct {
	BaseURL       string `yaml:"base_url"`
	GenerateModel string `yaml:"generate_model"`
	EmbedModel    string `yaml:"embed_model"`
}

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

// RetrievalConfig configures similarity retrieval.
type RetrievalConfig struct {
	TopK         int `yaml:"top_k"`
	ContextLimit int `yaml:"context_limit"`
}

// GenerationConfig holds default generation parameters. Temperature and
// response length stay user-adjustable per session within their bounds.
type GenerationConfig struct {
	Temperature    float64 `yaml:"temperature"`
	ResponseTokens int     `yaml:"response_tokens"`
	TopP           float64 `yaml:"top_p"`
}

// ServerConfig configures the web front end.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// ExitConfig configures conversation exit detection.
type ExitConfig struct {
	Keywords []string `yaml:"keywords"`
	Mode     string   `yaml:"mode"` // "exact" or "substring"
}

// Config is the root application configuration.
type Config struct {
	DocumentsDir string           `yaml:"documents_dir"`
	IndexDir     string           `yaml:"index_dir"`
	Extensions   []string         `yaml:"extensions"`
	Ollama       OllamaConfig     `yaml:"ollama"`
	Chunker      ChunkerConfig    `yaml:"chunker"`
	Retrieval    RetrievalConfig  `yaml:"retrieval"`
	Generation   GenerationConfig `yaml:"generation"`
	Server       ServerConfig     `yaml:"server"`
	Exit         ExitConfig       `yaml:"exit"`
	Debug        bool             `yaml:"debug"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DocumentsDir: "./thoreau_docs",
		IndexDir:     "./thoreau_db",
		Extensions:   []string{".pdf", ".txt", ".md"},
		Ollama: OllamaConfig{
			BaseURL:       "http://localhost:11434",
			GenerateModel: "llama3",
			EmbedModel:    "nomic-embed-text",
		},
		Chunker:    ChunkerConfig{Size: 1000, Overlap: 200},
		Retrieval:  RetrievalConfig{TopK: 3, ContextLimit: 3},
		Generation: GenerationConfig{Temperature: 0.7, ResponseTokens: 180, TopP: 0.9},
		Server:     ServerConfig{Host: "127.0.0.1", Port: 8080},
		Exit:       ExitConfig{Keywords: []string{"exit", "goodbye", "farewell"}, Mode: "exact"},
	}
}

// Load reads a config from path. The file may omit any section; defaults fill
// the gaps. A missing file is an error - use LoadDefault for fallbacks.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault tries ./waldenbot.yaml, then ~/.config/waldenbot/config.yaml,
// then falls back to built-in defaults. Returns the config and the path that
// was actually loaded ("" for defaults).
func LoadDefault() (*Config, string, error) {
	for _, path := range candidatePaths() {
		if _, err := os.Stat(path); err == nil {
			cfg, err := Load(path)
			return cfg, path, err
		}
	}
	cfg := Default()
	applyEnv(cfg)
	return cfg, "", cfg.Validate()
}

func candidatePaths() []string {
	paths := []string{"waldenbot.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "waldenbot", "config.yaml"))
	}
	return paths
}

// applyEnv overlays environment settings on top of the file values.
func applyEnv(cfg *Config) {
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		cfg.Ollama.BaseURL = host
	}
}

// Validate rejects configurations that cannot be clamped into shape.
// Slider-style values (temperature, response length) are clamped instead at
// the session boundary.
func (c *Config) Validate() error {
	if c.DocumentsDir == "" {
		return &entities.ConfigurationError{Field: "documents_dir", Err: errors.New("must not be empty")}
	}
	if c.IndexDir == "" {
		return &entities.ConfigurationError{Field: "index_dir", Err: errors.New("must not be empty")}
	}
	if c.Chunker.Size <= 0 {
		return &entities.ConfigurationError{Field: "chunker.size", Err: errors.New("must be positive")}
	}
	if c.Chunker.Overlap < 0 || c.Chunker.Overlap >= c.Chunker.Size {
		return &entities.ConfigurationError{
			Field: "chunker.overlap",
			Err:   fmt.Errorf("must be in [0,%d)", c.Chunker.Size),
		}
	}
	if c.Retrieval.TopK <= 0 {
		return &entities.ConfigurationError{Field: "retrieval.top_k", Err: errors.New("must be positive")}
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return &entities.ConfigurationError{Field: "server.port", Err: errors.New("must be a valid port")}
	}
	switch c.Exit.Mode {
	case "exact", "substring":
	default:
		return &entities.ConfigurationError{
			Field: "exit.mode",
			Err:   fmt.Errorf("unknown mode %q, want exact or substring", c.Exit.Mode),
		}
	}
	return nil
}
