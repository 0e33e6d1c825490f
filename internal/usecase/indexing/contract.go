package indexing

import (
	"context"

	"github.com/kailas-cloud/resindex/internal/domain"
	dombatch "github.com/kailas-cloud/resindex/internal/domain/batch"
	"github.com/kailas-cloud/resindex/internal/domain/entry"
	"github.com/kailas-cloud/resindex/internal/domain/resource"
)

// ResourceLister fetches the full catalog.
type ResourceLister interface {
	ListResources(ctx context.Context) ([]resource.Resource, error)
}

// EmbeddingChecker reports whether a resource is already indexed.
type EmbeddingChecker interface {
	HasEmbedding(ctx context.Context, resourceID string) (bool, error)
}

// EmbeddingWriter persists an index entry.
type EmbeddingWriter interface {
	InsertEmbedding(ctx context.Context, e entry.IndexedEmbedding) error
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Reporter receives run progress for operator-facing output.
type Reporter interface {
	Started(total int)
	Item(index, total int, r dombatch.Result)
	Finished(s dombatch.Summary)
}

type nopReporter struct{}

func (nopReporter) Started(int)                    {}
func (nopReporter) Item(int, int, dombatch.Result) {}
func (nopReporter) Finished(dombatch.Summary)      {}
