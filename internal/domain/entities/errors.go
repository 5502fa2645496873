// Package entities - errors.go defines the failure taxonomy.
// Fatal classes (ingestion, embedding, index build, configuration) abort
// startup; per-turn classes (retrieval, generation) are caught by the session
// controller and converted to an in-persona fallback message.
package entities

import "fmt"

// IngestionError means the document source was unreadable or chunking failed.
// Fatal at startup.
type IngestionError struct {
	Err error
}

func (e *IngestionError) Error() string { return fmt.Sprintf("ingestion: %v", e.Err) }
func (e *IngestionError) Unwrap() error { return e.Err }

// EmbeddingError means the embedding service failed during index build.
// Fatal at startup.
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string { return fmt.Sprintf("embedding: %v", e.Err) }
func (e *EmbeddingError) Unwrap() error { return e.Err }

// IndexBuildError means the vector index could not be built or persisted.
// Fatal at startup - a partially built index is never presented as ready.
type IndexBuildError struct {
	Err error
}

func (e *IndexBuildError) Error() string { return fmt.Sprintf("index build: %v", e.Err) }
func (e *IndexBuildError) Unwrap() error { return e.Err }

// RetrievalError means the index was unreachable or corrupt at query time.
// Recoverable per turn.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string { return fmt.Sprintf("retrieval: %v", e.Err) }
func (e *RetrievalError) Unwrap() error { return e.Err }

// GenerationError means the completion service was unreachable or returned a
// malformed response. Recoverable per turn.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string { return fmt.Sprintf("generation: %v", e.Err) }
func (e *GenerationError) Unwrap() error { return e.Err }

// ConfigurationError means a configuration value was invalid and could not be
// clamped at the boundary. Fatal at startup.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration %s: %v", e.Field, e.Err)
}
func (e *ConfigurationError) Unwrap() error { return e.Err }
