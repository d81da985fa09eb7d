package backend

import (
	"net/http"
	"sync"
)

// authTransport attaches service credentials to outgoing requests and
// watches responses for 401s. It is scoped to a single host: requests
// addressed anywhere else pass through untouched, so sharing the
// http.Client it backs cannot hijack unrelated traffic.
type authTransport struct {
	base    http.RoundTripper
	host    string
	anonKey string

	mu             sync.RWMutex
	token          string
	onUnauthorized func()
}

func (t *authTransport) setToken(token string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = token
}

func (t *authTransport) setUnauthorizedHook(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onUnauthorized = fn
}

// RoundTrip implements http.RoundTripper.
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Host != t.host {
		return t.base.RoundTrip(req)
	}

	t.mu.RLock()
	token := t.token
	hook := t.onUnauthorized
	t.mu.RUnlock()

	// Per RoundTripper contract the request is not mutated in place.
	clone := req.Clone(req.Context())
	clone.Header.Set("apikey", t.anonKey)
	if token != "" {
		clone.Header.Set("Authorization", "Bearer "+token)
	} else if t.anonKey != "" {
		clone.Header.Set("Authorization", "Bearer "+t.anonKey)
	}

	resp, err := t.base.RoundTrip(clone)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized && hook != nil {
		hook()
	}
	return resp, nil
}
