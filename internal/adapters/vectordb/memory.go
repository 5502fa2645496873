// Package vectordb provides vector store adapters.
// Clean Architecture: Adapter implementing ports.VectorStore.
// The in-memory store backs tests and throwaway sessions; the SQLite store is
// the persistent default.
package vectordb

import (
	"context"
	"sort"
	"sync"

	"github.com/pondworks/waldenbot/internal/domain/entities"
)

// InMemoryStore is a simple in-memory vector store.
// Open-Closed: interchangeable with SQLiteStore without changing usecases.
type InMemoryStore struct {
	mu     sync.RWMutex
	chunks map[string]entities.Chunk // chunkID -> chunk
	order  []string                  // insertion order, for deterministic ties
}

// NewInMemoryStore creates a new in-memory vector store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		chunks: make(map[string]entities.Chunk),
	}
}

// Store saves chunks with their embeddings.
func (s *InMemoryStore) Store(ctx context.Context, chunks []entities.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, chunk := range chunks {
		if _, ok := s.chunks[chunk.ID]; !ok {
			s.order = append(s.order, chunk.ID)
		}
		s.chunks[chunk.ID] = chunk
	}
	return nil
}

// Search finds the most similar chunks to a query embedding.
func (s *InMemoryStore) Search(ctx context.Context, embedding []float32, topK int) ([]entities.QueryResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		chunk entities.Chunk
		score float64
	}

	var results []scored
	for _, id := range s.order {
		chunk := s.chunks[id]
		score := cosineSimilarity(embedding, chunk.Embedding)
		results = append(results, scored{chunk: chunk, score: score})
	}

	// Sort by score descending; insertion order breaks ties.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if len(results) > topK {
		results = results[:topK]
	}

	queryResults := make([]entities.QueryResult, len(results))
	for i, r := range results {
		queryResults[i] = entities.QueryResult{
			Chunk:     r.chunk,
			Score:     r.score,
			SourceDoc: r.chunk.DocumentID,
		}
	}

	return queryResults, nil
}

// Clear removes all data from the store.
func (s *InMemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chunks = make(map[string]entities.Chunk)
	s.order = nil
	return nil
}

// Count returns the number of stored chunks.
func (s *InMemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}
