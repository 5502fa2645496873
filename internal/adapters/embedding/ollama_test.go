package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaAdapter_Embed(t *testing.T) {
	// Mock Ollama server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req ollamaEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("unexpected model: %s", req.Model)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"embedding": []float32{0.1, 0.2, 0.3},
		})
	}))
	defer server.Close()

	adapter := NewOllamaAdapter(server.URL, "test-model", nil)
	emb, err := adapter.Embed(context.Background(), "hello")

	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	if len(emb) != 3 {
		t.Errorf("expected 3 dims, got %d", len(emb))
	}
}

func TestOllamaAdapter_EmbedBatch(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(map[string]interface{}{
			"embedding": []float32{0.5, 0.5},
		})
	}))
	defer server.Close()

	adapter := NewOllamaAdapter(server.URL, "test-model", nil)
	embs, err := adapter.EmbedBatch(context.Background(), []string{"one", "two", "three"})

	if err != nil {
		t.Fatalf("batch embed failed: %v", err)
	}
	if len(embs) != 3 || calls != 3 {
		t.Errorf("expected 3 embeddings from 3 calls, got %d/%d", len(embs), calls)
	}
}

func TestOllamaAdapter_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	adapter := NewOllamaAdapter(server.URL, "test-model", nil)
	_, err := adapter.Embed(context.Background(), "hello")

	if err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestOllamaAdapter_Defaults(t *testing.T) {
	adapter := NewOllamaAdapter("", "", nil)
	if adapter.baseURL != "http://localhost:11434" {
		t.Errorf("unexpected default base URL: %s", adapter.baseURL)
	}
	if adapter.model != "nomic-embed-text" {
		t.Errorf("unexpected default model: %s", adapter.model)
	}
}
