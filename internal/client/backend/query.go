package backend

import (
	"fmt"
	"net/url"
)

// queryOptions collects the filter/order/limit parameters of a table
// operation, encoded PostgREST-style: eq filters as column=eq.value,
// ordering as order=column.asc|desc.
type queryOptions struct {
	filters [][2]string
	order   string
	limit   int
}

// Option narrows a table operation.
type Option func(*queryOptions)

// Eq keeps only rows whose column equals value.
func Eq(column, value string) Option {
	return func(o *queryOptions) {
		o.filters = append(o.filters, [2]string{column, value})
	}
}

// OrderBy sorts the result by column, descending unless ascending is
// set.
func OrderBy(column string, ascending bool) Option {
	return func(o *queryOptions) {
		dir := "desc"
		if ascending {
			dir = "asc"
		}
		o.order = column + "." + dir
	}
}

// Limit caps the number of returned rows.
func Limit(n int) Option {
	return func(o *queryOptions) { o.limit = n }
}

// BuildQuery renders options to URL parameters. Alternative TableAPI
// implementations (and their tests) use it to interpret the options
// they receive.
func BuildQuery(opts []Option) url.Values {
	var o queryOptions
	for _, opt := range opts {
		opt(&o)
	}
	q := url.Values{}
	for _, f := range o.filters {
		q.Set(f[0], "eq."+f[1])
	}
	if o.order != "" {
		q.Set("order", o.order)
	}
	if o.limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", o.limit))
	}
	return q
}
