package search

import (
	"context"

	"github.com/kailas-cloud/resindex/internal/domain"
	"github.com/kailas-cloud/resindex/internal/domain/match"
)

// Matcher runs the backend similarity function.
type Matcher interface {
	Match(
		ctx context.Context, vector []float32,
		threshold float64, limit int, category string,
	) ([]match.Result, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
