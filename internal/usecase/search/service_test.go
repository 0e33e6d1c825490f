package search

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resindex/internal/domain"
	"github.com/kailas-cloud/resindex/internal/domain/match"
)

type mockMatcher struct {
	results      []match.Result
	err          error
	calls        int
	gotThreshold float64
	gotLimit     int
	gotCategory  string
}

func (m *mockMatcher) Match(
	_ context.Context, _ []float32, threshold float64, limit int, category string,
) ([]match.Result, error) {
	m.calls++
	m.gotThreshold, m.gotLimit, m.gotCategory = threshold, limit, category
	return m.results, m.err
}

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return m.result, m.err
}

func okEmbedder() *mockEmbedder {
	return &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}}
}

func mustRequest(t *testing.T, text string, limit int, category string) match.Request {
	t.Helper()
	req, err := match.NewRequest(text, match.DefaultThreshold, limit, category)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	return req
}

func TestQuery_Success(t *testing.T) {
	m := &mockMatcher{results: []match.Result{
		{ResourceID: "1", Title: "A", Similarity: 0.8},
		{ResourceID: "2", Title: "B", Similarity: 0.9},
	}}
	svc := New(m, okEmbedder(), zap.NewNop())

	got, err := svc.Query(context.Background(), mustRequest(t, "PhD scholarships", 5, ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ResourceID != "1" || got[1].ResourceID != "2" {
		t.Fatalf("results must keep backend order, got %+v", got)
	}
	if m.gotThreshold != 0.3 || m.gotLimit != 5 || m.gotCategory != "" {
		t.Errorf("unexpected match args: %v %d %q", m.gotThreshold, m.gotLimit, m.gotCategory)
	}
}

func TestQuery_TruncatesToLimit(t *testing.T) {
	m := &mockMatcher{results: []match.Result{{ResourceID: "1"}, {ResourceID: "2"}, {ResourceID: "3"}}}
	svc := New(m, okEmbedder(), zap.NewNop())

	got, err := svc.Query(context.Background(), mustRequest(t, "q", 2, ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[1].ResourceID != "2" {
		t.Fatalf("expected first 2 results, got %+v", got)
	}
}

func TestQuery_EmbedFailure(t *testing.T) {
	tests := []struct {
		name string
		emb  *mockEmbedder
	}{
		{"provider error", &mockEmbedder{err: domain.ErrEmbeddingProviderError}},
		{"empty vector", &mockEmbedder{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockMatcher{}
			svc := New(m, tt.emb, zap.NewNop())

			got, err := svc.Query(context.Background(), mustRequest(t, "q", 5, ""))
			if !errors.Is(err, domain.ErrQueryNotEmbedded) {
				t.Fatalf("expected ErrQueryNotEmbedded, got %v", err)
			}
			if got != nil {
				t.Errorf("expected nil results, got %v", got)
			}
			if m.calls != 0 {
				t.Error("store must not be queried without an embedding")
			}
		})
	}
}

func TestQuery_StoreError(t *testing.T) {
	m := &mockMatcher{err: errors.New("function match_resources does not exist")}
	svc := New(m, okEmbedder(), zap.NewNop())

	_, err := svc.Query(context.Background(), mustRequest(t, "q", 5, ""))
	if err == nil || errors.Is(err, domain.ErrQueryNotEmbedded) {
		t.Fatalf("expected plain store error, got %v", err)
	}
}

func TestQuery_CategoryInference(t *testing.T) {
	m := &mockMatcher{}
	svc := New(m, okEmbedder(), zap.NewNop())

	if _, err := svc.Query(context.Background(), mustRequest(t, "student visa help", 5, "")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.gotCategory != "" {
		t.Errorf("inference disabled by default, got %q", m.gotCategory)
	}

	svc.WithCategoryInference(true)
	if _, err := svc.Query(context.Background(), mustRequest(t, "student visa help", 5, "")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.gotCategory != "visa" {
		t.Errorf("expected inferred visa, got %q", m.gotCategory)
	}

	if _, err := svc.Query(context.Background(), mustRequest(t, "student visa help", 5, "job")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.gotCategory != "job" {
		t.Errorf("explicit category must win, got %q", m.gotCategory)
	}
}
