// Package console renders indexing progress and query results for operators.
package console

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kailas-cloud/resindex/internal/domain"
	dombatch "github.com/kailas-cloud/resindex/internal/domain/batch"
	"github.com/kailas-cloud/resindex/internal/domain/match"
)

const (
	ruleWidth          = 60
	missingInstitution = "N/A"
)

// Console writes human-readable output. It implements indexing.Reporter.
type Console struct {
	w io.Writer
}

// New creates a console writer.
func New(w io.Writer) *Console {
	return &Console{w: w}
}

// Started prints the run header.
func (c *Console) Started(total int) {
	c.printf("🚀 Starting embedding generation...\n\n")
	c.printf("📚 Found %d resources\n\n", total)
}

// Item prints the progress line and outcome for one record.
func (c *Console) Item(index, total int, r dombatch.Result) {
	c.printf("[%d/%d] Processing: %s\n", index, total, r.Title())

	switch r.Status() {
	case dombatch.StatusSkipped:
		c.printf("  ✓ Embedding already exists, skipping\n")
	case dombatch.StatusIndexed:
		c.printf("  ✓ Embedding generated and stored\n")
	default:
		if isEmbeddingFailure(r.Err()) {
			c.printf("  ✗ Failed to generate embedding\n")
			return
		}
		c.printf("  ✗ Error: %v\n", r.Err())
	}
}

// Finished prints the run summary.
func (c *Console) Finished(s dombatch.Summary) {
	rule := strings.Repeat("=", ruleWidth)
	c.printf("\n%s\n", rule)
	if s.Complete() {
		c.printf("✅ Completed!\n")
	} else {
		c.printf("⚠️  Interrupted after %d of %d resources\n", s.Processed(), s.Total)
	}
	c.printf("   Successful: %d\n", s.Successful)
	c.printf("   Failed: %d\n", s.Failed)
	c.printf("   Total: %d\n", s.Total)
	c.printf("%s\n", rule)
}

// Searching prints the query header.
func (c *Console) Searching(query string) {
	c.printf("\n🔍 Testing search: '%s'\n", query)
}

// QueryNotEmbedded reports a query whose embedding could not be generated.
func (c *Console) QueryNotEmbedded() {
	c.printf("Failed to generate query embedding\n")
}

// QueryRejected reports query parameters that could not form a request.
func (c *Console) QueryRejected(err error) {
	c.printf("Invalid query: %v\n", err)
}

// Matches prints ranked query results.
func (c *Console) Matches(results []match.Result) {
	WriteMatches(c.w, results)
}

// WriteMatches formats results one block per match, rank starting at 1.
func WriteMatches(w io.Writer, results []match.Result) {
	_, _ = fmt.Fprintf(w, "\nFound %d matches:\n\n", len(results))
	for i, r := range results {
		_, _ = fmt.Fprintf(w, "%d. %s\n", i+1, r.Title)
		_, _ = fmt.Fprintf(w, "   Category: %s\n", r.Category)
		_, _ = fmt.Fprintf(w, "   Similarity: %.3f\n", r.Similarity)
		_, _ = fmt.Fprintf(w, "   Institution: %s\n", r.InstitutionOr(missingInstitution))
		_, _ = fmt.Fprintln(w)
	}
}

func (c *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.w, format, args...)
}

func isEmbeddingFailure(err error) bool {
	return errors.Is(err, domain.ErrEmbeddingProviderError) ||
		errors.Is(err, domain.ErrEmptyEmbedding) ||
		errors.Is(err, domain.ErrVectorDimMismatch)
}
