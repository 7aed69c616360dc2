package hub

import (
	"context"
	"net/http"
	"net/url"
)

// From starts a query against a named collection. The hub applies its
// row-level policy to every operation regardless of the filters sent
// here; filters are the caller's own narrowing on top of that.
func (c *Client) From(collection string) *Query {
	return &Query{
		client:     c,
		collection: collection,
		filters:    url.Values{},
	}
}

type Query struct {
	client     *Client
	collection string
	filters    url.Values
	order      string
}

// Eq adds an equality filter on a column.
func (q *Query) Eq(column, value string) *Query {
	q.filters.Set(column, value)
	return q
}

// Order sets the sort column. Only one sort key is supported.
func (q *Query) Order(column string, descending bool) *Query {
	q.order = column + ".asc"
	if descending {
		q.order = column + ".desc"
	}
	return q
}

// Select fetches matching rows into dest, which must be a pointer to a
// slice of the row type.
func (q *Query) Select(ctx context.Context, dest any) error {
	return q.client.do(ctx, http.MethodGet, q.path(), q.access(), nil, dest)
}

// Insert writes a single row and decodes the server-completed row (with
// id and created_at filled in) into dest.
func (q *Query) Insert(ctx context.Context, row, dest any) error {
	return q.client.do(ctx, http.MethodPost, q.path(), q.access(), row, dest)
}

// Delete removes the rows matching the filters.
func (q *Query) Delete(ctx context.Context) error {
	return q.client.do(ctx, http.MethodDelete, q.path(), q.access(), nil, nil)
}

func (q *Query) path() string {
	params := url.Values{}
	for k, vs := range q.filters {
		params[k] = vs
	}
	if q.order != "" {
		params.Set("order", q.order)
	}
	p := "/rest/v1/" + q.collection
	if encoded := params.Encode(); encoded != "" {
		p += "?" + encoded
	}
	return p
}

func (q *Query) access() string {
	access, _ := q.client.envelope()
	return access
}
