package indexing

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resindex/internal/domain"
	dombatch "github.com/kailas-cloud/resindex/internal/domain/batch"
	"github.com/kailas-cloud/resindex/internal/domain/entry"
	"github.com/kailas-cloud/resindex/internal/domain/resource"
)

type mockLister struct {
	resources []resource.Resource
	err       error
}

func (m *mockLister) ListResources(_ context.Context) ([]resource.Resource, error) {
	return m.resources, m.err
}

type mockChecker struct {
	indexed map[string]bool
	errFor  map[string]error
	calls   []string
}

func (m *mockChecker) HasEmbedding(_ context.Context, id string) (bool, error) {
	m.calls = append(m.calls, id)
	if err := m.errFor[id]; err != nil {
		return false, err
	}
	return m.indexed[id], nil
}

type mockWriter struct {
	errFor   map[string]error
	inserted []entry.IndexedEmbedding
}

func (m *mockWriter) InsertEmbedding(_ context.Context, e entry.IndexedEmbedding) error {
	if err := m.errFor[e.ResourceID()]; err != nil {
		return err
	}
	m.inserted = append(m.inserted, e)
	return nil
}

type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
	texts   []string
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	m.texts = append(m.texts, text)
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3}, TotalTokens: 4}, nil
}

type recordingReporter struct {
	started  int
	items    []dombatch.Result
	indexes  []int
	finished *dombatch.Summary
}

func (r *recordingReporter) Started(total int) { r.started = total }

func (r *recordingReporter) Item(index, _ int, res dombatch.Result) {
	r.indexes = append(r.indexes, index)
	r.items = append(r.items, res)
}

func (r *recordingReporter) Finished(s dombatch.Summary) { r.finished = &s }

type fixture struct {
	lister   *mockLister
	checker  *mockChecker
	writer   *mockWriter
	embedder *mockEmbedder
	reporter *recordingReporter
	sleeps   []time.Duration
	svc      *Service
}

func newFixture(t *testing.T, resources ...resource.Resource) *fixture {
	t.Helper()
	f := &fixture{
		lister:   &mockLister{resources: resources},
		checker:  &mockChecker{indexed: map[string]bool{}, errFor: map[string]error{}},
		writer:   &mockWriter{errFor: map[string]error{}},
		embedder: &mockEmbedder{},
		reporter: &recordingReporter{},
	}
	f.svc = New(f.lister, f.checker, f.writer, f.embedder, zap.NewNop()).
		WithReporter(f.reporter)
	f.svc.sleep = func(ctx context.Context, d time.Duration) error {
		f.sleeps = append(f.sleeps, d)
		return ctx.Err()
	}
	return f
}

func mustResource(t *testing.T, id, title string) resource.Resource {
	t.Helper()
	r, err := resource.New(id, title, "Scholarship", resource.Details{})
	if err != nil {
		t.Fatalf("resource.New: %v", err)
	}
	return r
}
