// Package usecases - retrieve.go handles similarity retrieval at query time.
package usecases

import (
	"context"

	"github.com/pondworks/waldenbot/internal/domain/entities"
	"github.com/pondworks/waldenbot/internal/domain/ports"
)

// RetrieveUseCase finds the chunks most similar to a query string.
// Single Responsibility: Only retrieval, no prompt assembly or generation.
type RetrieveUseCase struct {
	embedder ports.EmbeddingService
	store    ports.VectorStore
	topK     int
}

// NewRetrieveUseCase creates a RetrieveUseCase with injected dependencies.
func NewRetrieveUseCase(
	embedder ports.EmbeddingService,
	store ports.VectorStore,
	topK int,
) *RetrieveUseCase {
	if topK <= 0 {
		topK = 3
	}
	return &RetrieveUseCase{
		embedder: embedder,
		store:    store,
		topK:     topK,
	}
}

// TopK returns the configured retrieval depth.
func (uc *RetrieveUseCase) TopK() int { return uc.topK }

// Retrieve returns up to k chunks ordered by descending similarity. k <= 0
// uses the configured default. An empty index yields an empty sequence; a
// failing embedder or store yields a RetrievalError - the caller decides
// whether the turn survives.
func (uc *RetrieveUseCase) Retrieve(ctx context.Context, query string, k int) ([]entities.QueryResult, error) {
	if k <= 0 {
		k = uc.topK
	}

	embedding, err := uc.embedder.Embed(ctx, query)
	if err != nil {
		return nil, &entities.RetrievalError{Err: err}
	}

	results, err := uc.store.Search(ctx, embedding, k)
	if err != nil {
		return nil, &entities.RetrievalError{Err: err}
	}

	return results, nil
}
