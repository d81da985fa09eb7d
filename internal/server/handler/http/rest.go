package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dammytech/dtxstore/internal/repository"
)

// reserved query parameters that are not column filters.
var reservedParams = map[string]bool{
	"order":  true,
	"limit":  true,
	"select": true,
}

// RowStore defines the row operations required by the RestHandler.
type RowStore interface {
	Select(ctx context.Context, table string, q repository.RowQuery) ([]json.RawMessage, error)
	Insert(ctx context.Context, table string, payload json.RawMessage) (json.RawMessage, error)
	Update(ctx context.Context, table string, patch json.RawMessage, q repository.RowQuery) (int64, error)
	Delete(ctx context.Context, table string, q repository.RowQuery) (int64, error)
	Count(ctx context.Context, table string, q repository.RowQuery) (int, error)
}

// RestHandler serves the generic row store under /rest/v1/{table}.
type RestHandler struct {
	Rows RowStore
}

// parseQuery turns the PostgREST-style URL parameters into a RowQuery.
// Unknown values are rejected rather than ignored so client bugs show
// up as 400s instead of empty result sets.
func parseQuery(values url.Values) (repository.RowQuery, error) {
	var q repository.RowQuery
	for key, vals := range values {
		if reservedParams[key] || len(vals) == 0 {
			continue
		}
		val, ok := strings.CutPrefix(vals[0], "eq.")
		if !ok {
			return q, fmt.Errorf("unsupported filter %s=%s", key, vals[0])
		}
		q.Filters = append(q.Filters, repository.RowFilter{Column: key, Value: val})
	}
	if order := values.Get("order"); order != "" {
		col, dir, found := strings.Cut(order, ".")
		if !found || (dir != "asc" && dir != "desc") {
			return q, fmt.Errorf("unsupported order %q", order)
		}
		q.OrderColumn = col
		q.OrderAsc = dir == "asc"
	}
	if limit := values.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			return q, fmt.Errorf("bad limit %q", limit)
		}
		q.Limit = n
	}
	return q, nil
}

// wantsCount reports whether the request asked for an exact row count.
func wantsCount(r *http.Request) bool {
	for _, pref := range r.Header.Values("Prefer") {
		if strings.Contains(pref, "count=exact") {
			return true
		}
	}
	return false
}

// Get handles GET /rest/v1/{table}: filtered reads, and exact counts
// via the Content-Range header when Prefer: count=exact is set.
func (h *RestHandler) Get(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	q, err := parseQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.Rows.Select(r.Context(), table, q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if rows == nil {
		rows = []json.RawMessage{}
	}

	if wantsCount(r) {
		total, err := h.Rows.Count(r.Context(), table, q)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		upper := len(rows) - 1
		if upper < 0 {
			upper = 0
		}
		w.Header().Set("Content-Range", fmt.Sprintf("0-%d/%d", upper, total))
	}
	writeJSON(w, http.StatusOK, rows)
}

// Post handles POST /rest/v1/{table}, returning the stored rows as an
// array the way return=representation does.
func (h *RestHandler) Post(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	payload, err := io.ReadAll(r.Body)
	if err != nil || len(payload) == 0 {
		writeError(w, http.StatusBadRequest, "empty body")
		return
	}

	stored, err := h.Rows.Insert(r.Context(), table, payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, []json.RawMessage{stored})
}

// Patch handles PATCH /rest/v1/{table}, merging the body into every
// matched row.
func (h *RestHandler) Patch(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	q, err := parseQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(q.Filters) == 0 {
		writeError(w, http.StatusBadRequest, "refusing unfiltered update")
		return
	}
	patch, err := io.ReadAll(r.Body)
	if err != nil || len(patch) == 0 {
		writeError(w, http.StatusBadRequest, "empty body")
		return
	}

	if _, err := h.Rows.Update(r.Context(), table, patch, q); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /rest/v1/{table} for every matched row.
func (h *RestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	q, err := parseQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(q.Filters) == 0 {
		writeError(w, http.StatusBadRequest, "refusing unfiltered delete")
		return
	}

	if _, err := h.Rows.Delete(r.Context(), table, q); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
