package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransport_FiresUnauthorizedHook(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	fired := 0
	c.OnUnauthorized(func() { fired++ })

	_, err := c.Select(context.Background(), "orders")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, 1, fired)
}

func TestTransport_ScopedToServiceHost(t *testing.T) {
	// the service host answers 401 and should trip the hook
	service := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer service.Close()

	// an unrelated host also answers 401; its responses must pass
	// through without credentials attached and without tripping the hook
	var unrelatedAuth, unrelatedKey string
	unrelated := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		unrelatedAuth = r.Header.Get("Authorization")
		unrelatedKey = r.Header.Get("apikey")
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer unrelated.Close()

	c, err := New(service.URL, "anon-key")
	require.NoError(t, err)
	c.SetAccessToken("tok")

	fired := 0
	c.OnUnauthorized(func() { fired++ })

	// reuse the client's underlying transport for foreign traffic
	shared := &http.Client{Transport: c.transport}
	resp, err := shared.Get(unrelated.URL + "/whatever")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, 0, fired, "foreign 401 must not trigger the hook")
	assert.Empty(t, unrelatedAuth, "foreign request must not carry the bearer token")
	assert.Empty(t, unrelatedKey, "foreign request must not carry the api key")

	_, _ = c.Select(context.Background(), "orders")
	assert.Equal(t, 1, fired, "service 401 must trigger the hook")
}
