package match

import (
	"fmt"

	"github.com/kailas-cloud/resindex/internal/domain"
)

// Query parameter defaults and limits.
const (
	DefaultThreshold = 0.3
	DefaultLimit     = 5
	MaxLimit         = 100
)

// Request is a validated similarity query.
type Request struct {
	text      string
	threshold float64
	limit     int
	category  string
}

// NewRequest validates and normalizes query parameters.
// Defaults: threshold=0.3 (when negative), limit=5 (when <= 0). Limit is capped at MaxLimit.
// An empty category means no category filter.
func NewRequest(text string, threshold float64, limit int, category string) (Request, error) {
	if text == "" {
		return Request{}, fmt.Errorf("query is required: %w", domain.ErrInvalidRequest)
	}
	if threshold < 0 {
		threshold = DefaultThreshold
	}
	if threshold > 1 {
		return Request{}, fmt.Errorf("threshold must be between 0 and 1: %w", domain.ErrInvalidRequest)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Request{text: text, threshold: threshold, limit: limit, category: category}, nil
}

// Text returns the query text.
func (r Request) Text() string { return r.text }

// Threshold returns the minimum similarity score.
func (r Request) Threshold() float64 { return r.threshold }

// Limit returns the maximum number of results.
func (r Request) Limit() int { return r.limit }

// Category returns the category filter, or "" for none.
func (r Request) Category() string { return r.category }
