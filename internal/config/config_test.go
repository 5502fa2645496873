package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pondworks/waldenbot/internal/domain/entities"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("built-in defaults must validate: %v", err)
	}
	if cfg.DocumentsDir != "./thoreau_docs" || cfg.IndexDir != "./thoreau_db" {
		t.Errorf("unexpected default locations: %s, %s", cfg.DocumentsDir, cfg.IndexDir)
	}
	if cfg.Chunker.Size != 1000 || cfg.Chunker.Overlap != 200 {
		t.Errorf("unexpected chunker defaults: %+v", cfg.Chunker)
	}
	if cfg.Ollama.GenerateModel != "llama3" || cfg.Ollama.EmbedModel != "nomic-embed-text" {
		t.Errorf("unexpected model defaults: %+v", cfg.Ollama)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "waldenbot.yaml")
	data := `
documents_dir: /corpus
chunker:
  size: 500
`
	os.WriteFile(path, []byte(data), 0644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.DocumentsDir != "/corpus" {
		t.Errorf("file value not applied: %s", cfg.DocumentsDir)
	}
	if cfg.Chunker.Size != 500 {
		t.Errorf("nested file value not applied: %d", cfg.Chunker.Size)
	}
	if cfg.Retrieval.TopK != 3 {
		t.Errorf("untouched section lost its default: %d", cfg.Retrieval.TopK)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/waldenbot.yaml"); err == nil {
		t.Error("expected error for a missing config file")
	}
}

func TestLoad_EnvOverridesOllamaHost(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "waldenbot.yaml")
	os.WriteFile(path, []byte("debug: true\n"), 0644)
	t.Setenv("OLLAMA_HOST", "http://ollama.internal:11434")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Ollama.BaseURL != "http://ollama.internal:11434" {
		t.Errorf("OLLAMA_HOST not applied: %s", cfg.Ollama.BaseURL)
	}
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty documents dir", func(c *Config) { c.DocumentsDir = "" }, "documents_dir"},
		{"empty index dir", func(c *Config) { c.IndexDir = "" }, "index_dir"},
		{"zero chunk size", func(c *Config) { c.Chunker.Size = 0 }, "chunker.size"},
		{"overlap at size", func(c *Config) { c.Chunker.Overlap = c.Chunker.Size }, "chunker.overlap"},
		{"negative overlap", func(c *Config) { c.Chunker.Overlap = -1 }, "chunker.overlap"},
		{"zero top_k", func(c *Config) { c.Retrieval.TopK = 0 }, "retrieval.top_k"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"unknown exit mode", func(c *Config) { c.Exit.Mode = "fuzzy" }, "exit.mode"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)

			err := cfg.Validate()
			var cfgErr *entities.ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigurationError, got %T: %v", err, err)
			}
			if cfgErr.Field != tc.field {
				t.Errorf("expected field %s, got %s", tc.field, cfgErr.Field)
			}
		})
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "waldenbot.yaml")
	os.WriteFile(path, []byte("chunker: [not a map"), 0644)

	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
