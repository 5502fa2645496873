package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pondworks/waldenbot/internal/domain/entities"
)

func TestOllamaAdapter_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req ollamaGenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Stream {
			t.Error("streaming must be disabled")
		}
		if req.Options.Temperature != 0.7 || req.Options.NumPredict != 180 {
			t.Errorf("sampling options not forwarded: %+v", req.Options)
		}
		if req.Options.TopP == nil || *req.Options.TopP != 0.9 {
			t.Errorf("top_p not forwarded: %v", req.Options.TopP)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"response": "  Hello there!  \n",
			"done":     true,
		})
	}))
	defer server.Close()

	adapter := NewOllamaAdapter(server.URL, "test-model", nil)
	resp, err := adapter.Complete(context.Background(), "Hi", entities.GenerationParams{
		Temperature: 0.7,
		MaxTokens:   180,
		TopP:        0.9,
	})

	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if resp != "Hello there!" {
		t.Errorf("surrounding whitespace should be trimmed, got %q", resp)
	}
}

func TestOllamaAdapter_OmitsUnsetTopP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaGenerateRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Options.TopP != nil {
			t.Errorf("unset top_p should be omitted, got %v", *req.Options.TopP)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"response": "ok", "done": true})
	}))
	defer server.Close()

	adapter := NewOllamaAdapter(server.URL, "test-model", nil)
	_, err := adapter.Complete(context.Background(), "Hi", entities.GenerationParams{MaxTokens: 100})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
}

func TestOllamaAdapter_FailuresAreGenerationErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	adapter := NewOllamaAdapter(server.URL, "test-model", nil)
	_, err := adapter.Complete(context.Background(), "Hi", entities.GenerationParams{MaxTokens: 100})

	var genErr *entities.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %T: %v", err, err)
	}
}

func TestOllamaAdapter_UnreachableServer(t *testing.T) {
	adapter := NewOllamaAdapter("http://127.0.0.1:1", "test-model", nil)

	_, err := adapter.Complete(context.Background(), "Hi", entities.GenerationParams{MaxTokens: 100})

	var genErr *entities.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %T: %v", err, err)
	}
}
