package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resindex/internal/db/postgrest"
	"github.com/kailas-cloud/resindex/internal/domain/entry"
	"github.com/kailas-cloud/resindex/internal/domain/match"
	"github.com/kailas-cloud/resindex/internal/domain/resource"
)

// restClient is the consumer interface over the PostgREST client (ISP).
type restClient interface {
	Select(ctx context.Context, q postgrest.Query, out any) error
	Insert(ctx context.Context, table string, row any) error
	RPC(ctx context.Context, fn string, args any, out any) error
}

// REST is the catalog backed by Supabase's PostgREST API.
type REST struct {
	client restClient
	tables Tables
	logger *zap.Logger
}

// NewREST creates a REST-backed catalog.
func NewREST(client restClient, tables Tables, logger *zap.Logger) *REST {
	return &REST{client: client, tables: tables.withDefaults(), logger: logger}
}

// ListResources fetches every catalog record in backend order.
func (r *REST) ListResources(ctx context.Context) ([]resource.Resource, error) {
	var rows []resourceRow
	q := postgrest.Query{Table: r.tables.Resources, Columns: "*"}
	if err := r.client.Select(ctx, q, &rows); err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return toResources(rows, r.logger), nil
}

// HasEmbedding reports whether an embedding row exists for the resource.
func (r *REST) HasEmbedding(ctx context.Context, resourceID string) (bool, error) {
	var rows []struct {
		ResourceID flexString `json:"resource_id"`
	}
	q := postgrest.Query{
		Table:   r.tables.Embeddings,
		Columns: "resource_id",
		Eq:      map[string]string{"resource_id": resourceID},
		Limit:   1,
	}
	if err := r.client.Select(ctx, q, &rows); err != nil {
		return false, fmt.Errorf("check embedding %s: %w", resourceID, err)
	}
	return len(rows) > 0, nil
}

// InsertEmbedding writes one embedding row.
func (r *REST) InsertEmbedding(ctx context.Context, e entry.IndexedEmbedding) error {
	row := embeddingRow{
		ResourceID: e.ResourceID(),
		Content:    e.Content(),
		Embedding:  e.Vector(),
	}
	if err := r.client.Insert(ctx, r.tables.Embeddings, row); err != nil {
		return fmt.Errorf("insert embedding %s: %w", e.ResourceID(), err)
	}
	return nil
}

// Match calls the similarity function. Rows come back in backend order.
func (r *REST) Match(
	ctx context.Context, vector []float32, threshold float64, limit int, category string,
) ([]match.Result, error) {
	args := matchArgs{
		QueryEmbedding: vector,
		MatchThreshold: threshold,
		MatchCount:     limit,
		MatchCategory:  category,
	}
	var rows []matchRow
	if err := r.client.RPC(ctx, r.tables.MatchFunction, args, &rows); err != nil {
		return nil, fmt.Errorf("match resources: %w", err)
	}

	out := make([]match.Result, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}
