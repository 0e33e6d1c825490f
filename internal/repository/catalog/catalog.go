// Package catalog reads the resource catalog and reads/writes the embedding
// side table. Two backends are provided: Supabase REST and direct Postgres.
package catalog

import (
	"go.uber.org/zap"

	"github.com/kailas-cloud/resindex/internal/domain/resource"
)

// Tables names the catalog objects.
type Tables struct {
	Resources     string
	Embeddings    string
	MatchFunction string
}

// DefaultTables returns the standard table and function names.
func DefaultTables() Tables {
	return Tables{
		Resources:     "resources",
		Embeddings:    "resource_embeddings",
		MatchFunction: "match_resources",
	}
}

func (t Tables) withDefaults() Tables {
	d := DefaultTables()
	if t.Resources == "" {
		t.Resources = d.Resources
	}
	if t.Embeddings == "" {
		t.Embeddings = d.Embeddings
	}
	if t.MatchFunction == "" {
		t.MatchFunction = d.MatchFunction
	}
	return t
}

// toResources converts rows, skipping records that fail validation.
func toResources(rows []resourceRow, logger *zap.Logger) []resource.Resource {
	out := make([]resource.Resource, 0, len(rows))
	for i := range rows {
		r, err := rows[i].toDomain()
		if err != nil {
			logger.Warn("Skipping invalid catalog record",
				zap.String("resource_id", string(rows[i].ID)),
				zap.Error(err),
			)
			continue
		}
		out = append(out, r)
	}
	return out
}
