package entry

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/resindex/internal/domain"
)

func TestNew_Valid(t *testing.T) {
	vec := []float32{0.1, 0.2}
	e, err := New("r1", "Title: T\nCategory: C", vec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ResourceID() != "r1" {
		t.Errorf("ResourceID() = %q", e.ResourceID())
	}
	if e.Content() != "Title: T\nCategory: C" {
		t.Errorf("Content() = %q", e.Content())
	}

	vec[0] = 9
	if e.Vector()[0] != 0.1 {
		t.Errorf("Vector() shares state with caller: %v", e.Vector())
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		content string
		vec     []float32
		wantErr error
	}{
		{"no id", "", "c", []float32{1}, domain.ErrInvalidResource},
		{"no content", "r1", "", []float32{1}, domain.ErrInvalidResource},
		{"no vector", "r1", "c", nil, domain.ErrEmptyEmbedding},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.id, tc.content, tc.vec)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}
