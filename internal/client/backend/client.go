// Package backend is the HTTP client for the hosted data service. It
// covers the two surfaces the storefront consumes: generic table
// operations (select/insert/update/delete/count) and the identity
// provider endpoints. Request authentication and unauthorized-response
// interception live in a transport scoped to this client's base URL,
// never installed process-wide.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client talks to one hosted service instance.
type Client struct {
	baseURL   string
	transport *authTransport
	http      *http.Client
}

// New creates a Client for the service at baseURL, attaching anonKey
// to every request it issues.
func New(baseURL, anonKey string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid backend URL %q", baseURL)
	}
	t := &authTransport{
		base:    http.DefaultTransport,
		host:    u.Host,
		anonKey: anonKey,
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		transport: t,
		http:      &http.Client{Transport: t},
	}, nil
}

// SetAccessToken installs (or, with "", removes) the bearer token used
// for subsequent requests.
func (c *Client) SetAccessToken(token string) {
	c.transport.setToken(token)
}

// OnUnauthorized registers fn to run whenever a request to this
// service comes back 401. Only responses from this client's host are
// observed; unrelated traffic is never intercepted.
func (c *Client) OnUnauthorized(fn func()) {
	c.transport.setUnauthorizedHook(fn)
}

// APIError is a non-2xx response from the service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %d %s", e.Status, e.Message)
}

// do issues a JSON request and returns the response. Non-2xx responses
// are drained and converted to *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, header http.Header) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		msg := readErrorMessage(resp.Body)
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}
	return resp, nil
}

// readErrorMessage pulls a human-readable message out of an error
// body, tolerating both {"message": ...} payloads and plain text.
func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return "request failed"
	}
	var payload struct {
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Msg != "" {
			return payload.Msg
		}
	}
	return strings.TrimSpace(string(raw))
}
