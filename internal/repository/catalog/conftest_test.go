package catalog

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kailas-cloud/resindex/internal/db/postgrest"
)

// mockREST implements restClient with function fields.
type mockREST struct {
	selectFn func(ctx context.Context, q postgrest.Query, out any) error
	insertFn func(ctx context.Context, table string, row any) error
	rpcFn    func(ctx context.Context, fn string, args any, out any) error
}

func (m *mockREST) Select(ctx context.Context, q postgrest.Query, out any) error {
	if m.selectFn != nil {
		return m.selectFn(ctx, q, out)
	}
	return nil
}

func (m *mockREST) Insert(ctx context.Context, table string, row any) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, table, row)
	}
	return nil
}

func (m *mockREST) RPC(ctx context.Context, fn string, args any, out any) error {
	if m.rpcFn != nil {
		return m.rpcFn(ctx, fn, args, out)
	}
	return nil
}

// decodeInto fills out from a JSON literal, as the real client would.
func decodeInto(out any, body string) error {
	return json.Unmarshal([]byte(body), out)
}

// mockQuerier implements querier with function fields.
type mockQuerier struct {
	queryFn func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	execFn  func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (m *mockQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, sql, args...)
	}
	return &fakeRows{}, nil
}

func (m *mockQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if m.execFn != nil {
		return m.execFn(ctx, sql, args...)
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

// fakeRows serves single-column rows of raw bytes.
type fakeRows struct {
	data [][]byte
	pos  int
	err  error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return [][]byte{r.data[r.pos-1]} }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.err != nil || r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	if len(dest) != 1 {
		return errors.New("fakeRows: expected one destination")
	}
	p, ok := dest[0].(*[]byte)
	if !ok {
		return errors.New("fakeRows: unsupported destination")
	}
	*p = append([]byte(nil), r.data[r.pos-1]...)
	return nil
}

func (r *fakeRows) Values() ([]any, error) {
	return []any{r.data[r.pos-1]}, nil
}

func jsonRows(docs ...string) *fakeRows {
	rows := &fakeRows{}
	for _, d := range docs {
		rows.data = append(rows.data, []byte(d))
	}
	return rows
}
