// Package postgrest wraps supabase-community/postgrest-go for the catalog tables
// and the similarity RPC exposed by Supabase.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	pgrst "github.com/supabase-community/postgrest-go"

	"github.com/kailas-cloud/resindex/internal/db"
)

const (
	restPath       = "/rest/v1"
	defaultSchema  = "public"
	defaultTimeout = 30 * time.Second
)

// errPingFailed is reported when the REST root does not answer 200.
var errPingFailed = errors.New("postgrest: ping failed")

// Config holds connection parameters for a PostgREST endpoint.
type Config struct {
	URL     string
	Key     string
	Timeout time.Duration
}

// Query selects rows from one table.
// Eq holds column=value equality filters; Limit <= 0 means no limit.
type Query struct {
	Table   string
	Columns string
	Eq      map[string]string
	Limit   int
}

// APIError is a PostgREST error object returned in place of an RPC result.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("postgrest: %s (%s)", e.Message, e.Code)
	}
	return "postgrest: " + e.Message
}

// Client talks to {url}/rest/v1 with apikey and bearer authentication.
// The underlying client keeps the last failure in ClientError, so calls are serialized.
type Client struct {
	mu      sync.Mutex
	pg      *pgrst.Client
	timeout time.Duration
}

// New validates the config and returns a client.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("url is required")
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("key is required")
	}
	if _, err := url.ParseRequestURI(cfg.URL); err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	pg := pgrst.NewClient(
		strings.TrimRight(cfg.URL, "/")+restPath,
		defaultSchema,
		map[string]string{"apikey": cfg.Key},
	)
	if pg.ClientError != nil {
		return nil, fmt.Errorf("create postgrest client: %w", pg.ClientError)
	}
	pg.SetAuthToken(cfg.Key)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{pg: pg, timeout: timeout}, nil
}

// Select runs GET /{table} with the query's filters and decodes the JSON array into out.
func (c *Client) Select(ctx context.Context, q Query, out any) error {
	columns := q.Columns
	if columns == "" {
		columns = "*"
	}

	body, err := c.call(ctx, func(pg *pgrst.Client) ([]byte, error) {
		fb := pg.From(q.Table).Select(columns, "", false)
		for col, val := range q.Eq {
			fb = fb.Eq(col, val)
		}
		if q.Limit > 0 {
			fb = fb.Limit(q.Limit, "")
		}
		data, _, err := fb.Execute()
		return data, err
	})
	if err == nil {
		err = decode(body, out)
	}
	if err != nil {
		return &db.Error{Op: db.OpSelect, Err: err}
	}
	return nil
}

// Insert runs POST /{table} with a single row and no returned representation.
func (c *Client) Insert(ctx context.Context, table string, row any) error {
	_, err := c.call(ctx, func(pg *pgrst.Client) ([]byte, error) {
		_, _, err := pg.From(table).Insert(row, false, "", "minimal", "").Execute()
		return nil, err
	})
	if err != nil {
		return &db.Error{Op: db.OpInsert, Err: err}
	}
	return nil
}

// RPC calls POST /rpc/{fn} with named arguments and decodes the result into out.
func (c *Client) RPC(ctx context.Context, fn string, args any, out any) error {
	body, err := c.call(ctx, func(pg *pgrst.Client) ([]byte, error) {
		data := pg.Rpc(fn, "", args)
		return []byte(data), pg.ClientError
	})
	if err == nil {
		err = decodeRPC(body, out)
	}
	if err != nil {
		return &db.Error{Op: db.OpRPC, Err: err}
	}
	return nil
}

// Ping checks that the REST root answers with the configured key.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.call(ctx, func(pg *pgrst.Client) ([]byte, error) {
		if pg.Ping() {
			return nil, nil
		}
		if pg.ClientError != nil {
			return nil, pg.ClientError
		}
		return nil, errPingFailed
	})
	if err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// call runs fn under the client lock and bounds it by ctx and the configured timeout.
// postgrest-go takes no context, so a call that outlives ctx finishes in the background.
func (c *Client) call(ctx context.Context, fn func(pg *pgrst.Client) ([]byte, error)) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	type reply struct {
		body []byte
		err  error
	}
	done := make(chan reply, 1)
	go func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.pg.ClientError = nil
		body, err := fn(c.pg)
		done <- reply{body: body, err: err}
	}()

	select {
	case r := <-done:
		return r.body, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// decodeRPC decodes an RPC body. PostgREST answers failed calls with an error
// object, which is returned as *APIError.
func decodeRPC(body []byte, out any) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}
	if body[0] == '{' {
		var apiErr APIError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
			return &apiErr
		}
	}
	return decode(body, out)
}

func decode(body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
