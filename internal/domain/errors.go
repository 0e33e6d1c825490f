package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidResource signals a catalog record missing required fields.
	ErrInvalidResource = errors.New("invalid resource")
	// ErrInvalidRequest signals invalid query parameters.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmptyEmbedding signals that the provider answered without a vector.
	ErrEmptyEmbedding = errors.New("empty embedding")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrQueryNotEmbedded signals that a search query could not be vectorized.
	ErrQueryNotEmbedded = errors.New("could not embed query")
	// ErrCatalogUnavailable signals that the resource catalog could not be read.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

// DimensionMismatchError wraps ErrVectorDimMismatch with the offending sizes.
type DimensionMismatchError struct {
	Expected int
	Got      int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %d, got %d", ErrVectorDimMismatch.Error(), e.Expected, e.Got)
}

func (e *DimensionMismatchError) Unwrap() error { return ErrVectorDimMismatch }
