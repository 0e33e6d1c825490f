package indexing

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	dombatch "github.com/kailas-cloud/resindex/internal/domain/batch"
	"github.com/kailas-cloud/resindex/internal/domain/entry"
	"github.com/kailas-cloud/resindex/internal/domain/resource"
	"github.com/kailas-cloud/resindex/internal/metrics"
)

// DefaultThrottle is the pause between records that called the embedding API.
const DefaultThrottle = 50 * time.Millisecond

// Service runs full catalog indexing: one record at a time, skipping records
// that already have an embedding and continuing past per-record failures.
type Service struct {
	lister     ResourceLister
	checker    EmbeddingChecker
	writer     EmbeddingWriter
	embed      Embedder
	reporter   Reporter
	logger     *zap.Logger
	throttle   time.Duration
	dimensions int
	sleep      func(ctx context.Context, d time.Duration) error
}

// New creates an indexing service.
func New(
	lister ResourceLister, checker EmbeddingChecker, writer EmbeddingWriter,
	embed Embedder, logger *zap.Logger,
) *Service {
	return &Service{
		lister:   lister,
		checker:  checker,
		writer:   writer,
		embed:    embed,
		reporter: nopReporter{},
		logger:   logger,
		throttle: DefaultThrottle,
		sleep:    sleepCtx,
	}
}

// WithThrottle sets the inter-request pause. Zero disables it.
func (s *Service) WithThrottle(d time.Duration) *Service {
	if d >= 0 {
		s.throttle = d
	}
	return s
}

// WithDimensions rejects vectors whose length differs from dims. Zero disables the check.
func (s *Service) WithDimensions(dims int) *Service {
	if dims >= 0 {
		s.dimensions = dims
	}
	return s
}

// WithReporter attaches a progress reporter.
func (s *Service) WithReporter(r Reporter) *Service {
	if r != nil {
		s.reporter = r
	}
	return s
}

// RunFullIndex fetches the catalog and indexes every record in fetch order.
// Only a fetch failure or context cancellation returns an error; on cancellation
// the partial summary is returned alongside ctx.Err().
func (s *Service) RunFullIndex(ctx context.Context) (dombatch.Summary, error) {
	start := time.Now()

	resources, err := s.lister.ListResources(ctx)
	if err != nil {
		return dombatch.Summary{}, fmt.Errorf("fetch resources: %w", err)
	}

	total := len(resources)
	summary := dombatch.NewSummary(total)
	s.reporter.Started(total)
	s.logger.Info("Indexing started", zap.Int("total", total))

	throttleNext := false
	for i, res := range resources {
		if throttleNext && s.throttle > 0 {
			if err := s.sleep(ctx, s.throttle); err != nil {
				return s.finish(summary, start), err
			}
		}
		if err := ctx.Err(); err != nil {
			return s.finish(summary, start), err
		}

		result, embedded, tokens := s.indexOne(ctx, res)
		throttleNext = embedded
		summary.Tokens += tokens
		summary.Add(result)

		s.record(result)
		s.reporter.Item(i+1, total, result)
	}

	return s.finish(summary, start), nil
}

// indexOne processes a single record. embedded reports whether the embedding
// API was called, which decides the throttle before the next record.
func (s *Service) indexOne(ctx context.Context, res resource.Resource) (result dombatch.Result, embedded bool, tokens int) {
	exists, err := s.checker.HasEmbedding(ctx, res.ID())
	if err != nil {
		return dombatch.NewFailed(res.ID(), res.Title(), fmt.Errorf("check existing: %w", err)), false, 0
	}
	if exists {
		return dombatch.NewSkipped(res.ID(), res.Title()), false, 0
	}

	content := resource.BuildContent(res)

	emb, err := s.embed.Embed(ctx, content)
	if err != nil {
		return dombatch.NewFailed(res.ID(), res.Title(), fmt.Errorf("embed: %w", err)), true, 0
	}
	if err := emb.CheckDimensions(s.dimensions); err != nil {
		return dombatch.NewFailed(res.ID(), res.Title(), fmt.Errorf("embed: %w", err)), true, emb.TotalTokens
	}

	e, err := entry.New(res.ID(), content, emb.Embedding)
	if err != nil {
		return dombatch.NewFailed(res.ID(), res.Title(), err), true, emb.TotalTokens
	}
	if err := s.writer.InsertEmbedding(ctx, e); err != nil {
		return dombatch.NewFailed(res.ID(), res.Title(), fmt.Errorf("store: %w", err)), true, emb.TotalTokens
	}
	return dombatch.NewIndexed(res.ID(), res.Title()), true, emb.TotalTokens
}

func (s *Service) record(r dombatch.Result) {
	metrics.IndexRecordsTotal.WithLabelValues(string(r.Status())).Inc()

	fields := []zap.Field{
		zap.String("resource_id", r.ID()),
		zap.String("title", r.Title()),
		zap.String("outcome", string(r.Status())),
	}
	if r.Err() != nil {
		s.logger.Warn("Resource not indexed", append(fields, zap.Error(r.Err()))...)
		return
	}
	s.logger.Debug("Resource processed", fields...)
}

// finish stamps the duration and reports the (possibly partial) summary.
func (s *Service) finish(summary dombatch.Summary, start time.Time) dombatch.Summary {
	summary.Duration = time.Since(start)
	metrics.IndexRunDuration.Observe(summary.Duration.Seconds())

	s.reporter.Finished(summary)
	s.logger.Info("Indexing finished",
		zap.Int("successful", summary.Successful),
		zap.Int("failed", summary.Failed),
		zap.Int("total", summary.Total),
		zap.Int("processed", summary.Processed()),
		zap.Int("indexed", summary.Indexed),
		zap.Int("skipped", summary.Skipped),
		zap.Int("tokens", summary.Tokens),
		zap.Duration("duration", summary.Duration),
	)
	return summary
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
