package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// ErrNoRows is returned by SelectSingle when the query matched
// nothing.
var ErrNoRows = errors.New("backend: no rows")

const restPrefix = "/rest/v1/"

// TableAPI is the row-store surface consumed by the typed services.
// *Client implements it; tests substitute func-field fakes.
type TableAPI interface {
	Select(ctx context.Context, table string, opts ...Option) ([]json.RawMessage, error)
	SelectSingle(ctx context.Context, table string, opts ...Option) (json.RawMessage, error)
	Insert(ctx context.Context, table string, payload any) (json.RawMessage, error)
	Update(ctx context.Context, table string, patch any, opts ...Option) error
	Delete(ctx context.Context, table string, opts ...Option) error
	Count(ctx context.Context, table string, opts ...Option) (int, error)
}

// Select reads rows from table, untyped. Callers push the result
// through the models decode boundary.
func (c *Client) Select(ctx context.Context, table string, opts ...Option) ([]json.RawMessage, error) {
	resp, err := c.do(ctx, http.MethodGet, restPrefix+table, BuildQuery(opts), nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var rows []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// SelectSingle reads exactly one row, returning ErrNoRows when the
// query matches nothing.
func (c *Client) SelectSingle(ctx context.Context, table string, opts ...Option) (json.RawMessage, error) {
	rows, err := c.Select(ctx, table, append(opts, Limit(1))...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows[0], nil
}

// Insert writes one row and returns the stored representation.
func (c *Client) Insert(ctx context.Context, table string, payload any) (json.RawMessage, error) {
	header := http.Header{"Prefer": []string{"return=representation"}}
	resp, err := c.do(ctx, http.MethodPost, restPrefix+table, nil, payload, header)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var rows []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows[0], nil
}

// Update patches every row matched by the filter options.
func (c *Client) Update(ctx context.Context, table string, patch any, opts ...Option) error {
	resp, err := c.do(ctx, http.MethodPatch, restPrefix+table, BuildQuery(opts), patch, nil)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// Delete removes every row matched by the filter options.
func (c *Client) Delete(ctx context.Context, table string, opts ...Option) error {
	resp, err := c.do(ctx, http.MethodDelete, restPrefix+table, BuildQuery(opts), nil, nil)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// Count returns the number of rows matching the filter options. The
// total travels in the Content-Range trailer ("0-24/3573" style), not
// the body.
func (c *Client) Count(ctx context.Context, table string, opts ...Option) (int, error) {
	header := http.Header{"Prefer": []string{"count=exact"}}
	resp, err := c.do(ctx, http.MethodGet, restPrefix+table, BuildQuery(append(opts, Limit(1))), nil, header)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	cr := resp.Header.Get("Content-Range")
	idx := strings.LastIndex(cr, "/")
	if idx < 0 {
		return 0, errors.New("backend: missing Content-Range in count response")
	}
	n, err := strconv.Atoi(cr[idx+1:])
	if err != nil {
		return 0, errors.New("backend: malformed Content-Range " + cr)
	}
	return n, nil
}
