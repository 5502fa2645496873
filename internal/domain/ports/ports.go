// Package ports defines interfaces for external dependencies.
// Clean Architecture: These are the boundaries - usecases depend on these abstractions,
// not concrete implementations. Adapters implement these interfaces.
// This follows Dependency Inversion Principle (DIP) strictly.
package ports

import (
	"context"

	"github.com/pondworks/waldenbot/internal/domain/entities"
)

// EmbeddingService generates vector embeddings for text.
// Interface Segregation: Only embedding responsibility, nothing else.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// CompletionService produces text from a language model.
// Single Responsibility: exactly one completion call per invocation - retry
// policy, if any, belongs to the session controller, not the client.
type CompletionService interface {
	// Complete sends the prompt with the given parameters and returns the
	// produced text with surrounding whitespace trimmed.
	Complete(ctx context.Context, prompt string, params entities.GenerationParams) (string, error)
}

// VectorStore persists and queries document embeddings.
// The index is built whole at startup and never partially updated: rebuild
// overwrites via Clear followed by Store.
type VectorStore interface {
	// Store saves chunks with their embeddings.
	Store(ctx context.Context, chunks []entities.Chunk) error

	// Search finds the most similar chunks to a query embedding, ordered by
	// descending similarity.
	Search(ctx context.Context, embedding []float32, topK int) ([]entities.QueryResult, error)

	// Clear removes all data from the store.
	Clear(ctx context.Context) error

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)
}

// DocumentLoader reads and parses a single document file.
type DocumentLoader interface {
	// Load reads a document from the given path.
	Load(ctx context.Context, path string) (*entities.Document, error)

	// SupportedExtensions returns file extensions this loader handles.
	SupportedExtensions() []string
}

// DocumentSource reads an entire corpus directory.
type DocumentSource interface {
	// LoadAll returns all matching documents under dir in deterministic
	// (path-sorted) order.
	LoadAll(ctx context.Context, dir string) ([]entities.Document, error)
}

// FileWatcher monitors a directory for changes.
type FileWatcher interface {
	// Watch starts monitoring the directory and emits events.
	Watch(ctx context.Context, dir string) (<-chan FileEvent, error)

	// Stop stops the watcher.
	Stop() error
}

// FileEvent represents a file system change.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FileOperation is the type of file change.
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
)
