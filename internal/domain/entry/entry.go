package entry

import (
	"fmt"
	"slices"

	"github.com/kailas-cloud/resindex/internal/domain"
)

// IndexedEmbedding is the derived index row for one resource: the canonical
// content that was embedded and its vector. Created once, never updated.
type IndexedEmbedding struct {
	resourceID string
	content    string
	vector     []float32
}

// New validates and creates an IndexedEmbedding.
func New(resourceID, content string, vector []float32) (IndexedEmbedding, error) {
	if resourceID == "" {
		return IndexedEmbedding{}, fmt.Errorf("resource ID is required: %w", domain.ErrInvalidResource)
	}
	if content == "" {
		return IndexedEmbedding{}, fmt.Errorf("resource %s: content is required: %w", resourceID, domain.ErrInvalidResource)
	}
	if len(vector) == 0 {
		return IndexedEmbedding{}, fmt.Errorf("resource %s: %w", resourceID, domain.ErrEmptyEmbedding)
	}
	return IndexedEmbedding{
		resourceID: resourceID,
		content:    content,
		vector:     slices.Clone(vector),
	}, nil
}

// ResourceID returns the key of the indexed resource.
func (e IndexedEmbedding) ResourceID() string { return e.resourceID }

// Content returns the text the vector was computed from.
func (e IndexedEmbedding) Content() string { return e.content }

// Vector returns the embedding vector.
func (e IndexedEmbedding) Vector() []float32 { return e.vector }
