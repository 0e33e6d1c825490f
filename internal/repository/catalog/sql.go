package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"github.com/kailas-cloud/resindex/internal/db"
	"github.com/kailas-cloud/resindex/internal/domain/entry"
	"github.com/kailas-cloud/resindex/internal/domain/match"
	"github.com/kailas-cloud/resindex/internal/domain/resource"
)

// querier is the subset of pgxpool.Pool used by the SQL catalog.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// SQL is the catalog backed by a direct Postgres connection with pgvector.
// Rows are read as to_jsonb so both backends share one decoding path.
type SQL struct {
	db     querier
	tables Tables
	logger *zap.Logger
}

// NewSQL creates a Postgres-backed catalog.
func NewSQL(q querier, tables Tables, logger *zap.Logger) *SQL {
	return &SQL{db: q, tables: tables.withDefaults(), logger: logger}
}

// ListResources fetches every catalog record in backend order.
func (s *SQL) ListResources(ctx context.Context) ([]resource.Resource, error) {
	query, args, err := s.listQuery()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	var rows []resourceRow
	if err := s.queryJSON(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return toResources(rows, s.logger), nil
}

// HasEmbedding reports whether an embedding row exists for the resource.
func (s *SQL) HasEmbedding(ctx context.Context, resourceID string) (bool, error) {
	query, args, err := s.existsQuery(resourceID)
	if err != nil {
		return false, fmt.Errorf("build exists query: %w", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("check embedding %s: %w", resourceID, &db.Error{Op: db.OpSelect, Err: err})
	}
	defer rows.Close()

	found := rows.Next()
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("check embedding %s: %w", resourceID, &db.Error{Op: db.OpSelect, Err: err})
	}
	return found, nil
}

// InsertEmbedding writes one embedding row.
func (s *SQL) InsertEmbedding(ctx context.Context, e entry.IndexedEmbedding) error {
	query, args, err := s.insertQuery(e)
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert embedding %s: %w", e.ResourceID(), &db.Error{Op: db.OpInsert, Err: err})
	}
	return nil
}

// Match calls the similarity function. Rows come back in backend order.
func (s *SQL) Match(
	ctx context.Context, vector []float32, threshold float64, limit int, category string,
) ([]match.Result, error) {
	query, args, err := s.matchQuery(vector, threshold, limit, category)
	if err != nil {
		return nil, fmt.Errorf("build match query: %w", err)
	}

	var rows []matchRow
	if err := s.queryJSON(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("match resources: %w", err)
	}

	out := make([]match.Result, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

func (s *SQL) listQuery() (string, []any, error) {
	return squirrel.Select("to_jsonb(r)").
		From(s.tables.Resources + " AS r").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func (s *SQL) existsQuery(resourceID string) (string, []any, error) {
	return squirrel.Select("1").
		From(s.tables.Embeddings).
		Where(squirrel.Eq{"resource_id": resourceID}).
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func (s *SQL) insertQuery(e entry.IndexedEmbedding) (string, []any, error) {
	return squirrel.Insert(s.tables.Embeddings).
		Columns("resource_id", "content", "embedding").
		Values(e.ResourceID(), e.Content(), pgvector.NewVector(e.Vector())).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

// matchQuery selects from the set-returning similarity function.
// The category argument is passed only when set.
func (s *SQL) matchQuery(vector []float32, threshold float64, limit int, category string) (string, []any, error) {
	args := []any{pgvector.NewVector(vector), threshold, limit}
	if category != "" {
		args = append(args, category)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", ")

	query, _, err := squirrel.Select("to_jsonb(m)").
		From(s.tables.MatchFunction + "(" + placeholders + ") AS m").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return "", nil, err
	}
	return query, args, nil
}

func (s *SQL) queryJSON(ctx context.Context, query string, args []any, out any) error {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return &db.Error{Op: db.OpSelect, Err: err}
	}

	docs, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return &db.Error{Op: db.OpSelect, Err: err}
	}

	payload := make([]json.RawMessage, len(docs))
	for i, d := range docs {
		payload[i] = d
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode rows: %w", err)
	}
	return nil
}
