package domain

import "context"

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage through the decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Empty reports whether the provider returned no vector.
func (r EmbeddingResult) Empty() bool { return len(r.Embedding) == 0 }

// CheckDimensions verifies the vector length against the expected dimensionality.
// dims <= 0 disables the check.
func (r EmbeddingResult) CheckDimensions(dims int) error {
	if r.Empty() {
		return ErrEmptyEmbedding
	}
	if dims > 0 && len(r.Embedding) != dims {
		return &DimensionMismatchError{Expected: dims, Got: len(r.Embedding)}
	}
	return nil
}
