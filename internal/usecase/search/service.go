package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resindex/internal/domain"
	"github.com/kailas-cloud/resindex/internal/domain/match"
	"github.com/kailas-cloud/resindex/internal/metrics"
)

// Service embeds free-text queries and retrieves the most similar resources.
type Service struct {
	matcher       Matcher
	embed         Embedder
	inferCategory bool
	logger        *zap.Logger
}

// New creates a search service.
func New(matcher Matcher, embed Embedder, logger *zap.Logger) *Service {
	return &Service{matcher: matcher, embed: embed, logger: logger}
}

// WithCategoryInference derives a category filter from the query text
// when the request carries none.
func (s *Service) WithCategoryInference(enabled bool) *Service {
	s.inferCategory = enabled
	return s
}

// Query returns up to req.Limit() matches in backend order.
// A failed query embedding yields nil and an error wrapping domain.ErrQueryNotEmbedded.
func (s *Service) Query(ctx context.Context, req match.Request) ([]match.Result, error) {
	emb, err := s.embed.Embed(ctx, req.Text())
	if err == nil {
		err = emb.CheckDimensions(0)
	}
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("embed_error").Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrQueryNotEmbedded, err)
	}

	category := req.Category()
	if category == "" && s.inferCategory {
		category = InferCategory(req.Text())
	}

	results, err := s.matcher.Match(ctx, emb.Embedding, req.Threshold(), req.Limit(), category)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("store_error").Inc()
		return nil, fmt.Errorf("match: %w", err)
	}

	if len(results) > req.Limit() {
		results = results[:req.Limit()]
	}

	metrics.QueriesTotal.WithLabelValues("ok").Inc()
	s.logger.Debug("Query completed",
		zap.String("category", category),
		zap.Float64("threshold", req.Threshold()),
		zap.Int("limit", req.Limit()),
		zap.Int("results", len(results)),
	)
	return results, nil
}
