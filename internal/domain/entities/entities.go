// Package entities contains core business entities.
// These are the enterprise business rules - pure domain objects with no external dependencies.
package entities

import "time"

// Document represents a source document from the corpus (PDF, TXT, MD).
// This is a core entity - no knowledge of storage or external systems.
type Document struct {
	ID        string
	Name      string
	Path      string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Chunk represents a piece of a document for embedding.
// Chunks are exact substrings of their source document - no trimming - so a
// document can be reconstructed from its chunks minus the overlap.
type Chunk struct {
	ID         string
	DocumentID string
	Content    string
	Index      int       // Position in document
	Embedding  []float32 // Vector representation (populated during ingestion)
}

// QueryResult represents a retrieved chunk with relevance.
type QueryResult struct {
	Chunk     Chunk
	Score     float64 // Similarity score, higher is more similar
	SourceDoc string  // Document name for provenance
}

// ChatMessage represents a conversation turn.
type ChatMessage struct {
	Role    string // "user" or "assistant"
	Content string
}

// Persona is the fixed character a session speaks as: system instructions,
// few-shot exemplar dialogues, and the canned messages the session controller
// emits at the edges of a conversation.
type Persona struct {
	Name              string   // Speaker label, also used as the prompt turn marker
	Instructions      string   // Behavior rules prepended to every prompt
	Exemplars         []string // Example dialogues, in prompt order
	Greeting          string
	Farewell          string // Emitted on exit-keyword match
	InterruptFarewell string // Emitted on user-initiated abort
	Fallback          string // In-character message for recoverable failures
}

// GenerationParams are the per-request completion settings.
type GenerationParams struct {
	Temperature float64 // Sampling temperature in [0,1]
	MaxTokens   int     // Maximum tokens to produce, > 0
	TopP        float64 // Nucleus sampling threshold in (0,1]; 0 means unset
}
