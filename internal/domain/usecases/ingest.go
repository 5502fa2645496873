// Package usecases - ingest.go builds the vector index from the corpus.
package usecases

import (
	"context"
	"fmt"

	"github.com/pondworks/waldenbot/internal/domain/entities"
	"github.com/pondworks/waldenbot/internal/domain/ports"
)

// BuildReport summarizes a completed index build.
type BuildReport struct {
	Documents int
	Chunks    int
	Dimension int
}

// IngestUseCase builds the similarity index: load, chunk, embed, persist.
// Single Responsibility: Only ingestion logic.
type IngestUseCase struct {
	source   ports.DocumentSource
	chunker  *Chunker
	embedder ports.EmbeddingService
	store    ports.VectorStore
}

// NewIngestUseCase creates an IngestUseCase with injected dependencies.
// Dependency Injection: Adapters are passed in, not created here.
func NewIngestUseCase(
	source ports.DocumentSource,
	chunker *Chunker,
	embedder ports.EmbeddingService,
	store ports.VectorStore,
) *IngestUseCase {
	return &IngestUseCase{
		source:   source,
		chunker:  chunker,
		embedder: embedder,
		store:    store,
	}
}

// BuildIndex loads all documents under dir, chunks and embeds them, and
// rebuilds the persisted index in place, overwriting prior contents. Any
// failure aborts the build - a partially built index is never left behind as
// ready. An empty corpus builds an empty index; conversation then degrades to
// context-free generation.
func (uc *IngestUseCase) BuildIndex(ctx context.Context, dir string) (*BuildReport, error) {
	docs, err := uc.source.LoadAll(ctx, dir)
	if err != nil {
		return nil, &entities.IngestionError{Err: err}
	}

	chunks := uc.chunker.ChunkAll(docs)
	report := &BuildReport{Documents: len(docs), Chunks: len(chunks)}

	if len(chunks) == 0 {
		if err := uc.store.Clear(ctx); err != nil {
			return nil, &entities.IndexBuildError{Err: err}
		}
		return report, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	embeddings, err := uc.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, &entities.EmbeddingError{Err: err}
	}

	// Invariant: one embedding per chunk, constant dimension across the index.
	dim := len(embeddings[0])
	if dim == 0 {
		return nil, &entities.IndexBuildError{Err: fmt.Errorf("embedding service returned empty vector")}
	}
	for i, emb := range embeddings {
		if len(emb) != dim {
			return nil, &entities.IndexBuildError{
				Err: fmt.Errorf("inconsistent embedding dimension: chunk %d has %d, expected %d", i, len(emb), dim),
			}
		}
		chunks[i].Embedding = emb
	}
	report.Dimension = dim

	// Rebuild into the same persisted location.
	if err := uc.store.Clear(ctx); err != nil {
		return nil, &entities.IndexBuildError{Err: err}
	}
	if err := uc.store.Store(ctx, chunks); err != nil {
		return nil, &entities.IndexBuildError{Err: err}
	}

	return report, nil
}
