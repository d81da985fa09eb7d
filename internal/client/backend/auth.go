package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/dammytech/dtxstore/internal/models"
)

// AuthAPI is the identity-provider surface consumed by the session
// wrapper. *Client implements it.
type AuthAPI interface {
	SignInWithPassword(ctx context.Context, email, password string, ttl time.Duration) (*models.Session, error)
	SignUp(ctx context.Context, email, password, fullName string) (*models.Session, error)
	ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error
	UpdateUser(ctx context.Context, patch UserPatch) error
	SignOut(ctx context.Context) error
}

// UserPatch carries a partial profile or password change for the
// authenticated user.
type UserPatch struct {
	Password string         `json:"password,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// tokenResponse is the provider's session payload.
type tokenResponse struct {
	AccessToken string             `json:"access_token"`
	ExpiresIn   int64              `json:"expires_in"`
	User        models.SessionUser `json:"user"`
}

func (r *tokenResponse) session() *models.Session {
	return &models.Session{
		AccessToken: r.AccessToken,
		ExpiresAt:   time.Now().Add(time.Duration(r.ExpiresIn) * time.Second),
		User:        r.User,
	}
}

// SignInWithPassword exchanges credentials for a session with the
// requested token lifetime.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string, ttl time.Duration) (*models.Session, error) {
	body := map[string]any{
		"email":      email,
		"password":   password,
		"expires_in": int64(ttl.Seconds()),
	}
	q := url.Values{"grant_type": []string{"password"}}
	resp, err := c.do(ctx, http.MethodPost, "/auth/v1/token", q, body, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, err
	}
	return tr.session(), nil
}

// SignUp registers a new account with the given profile name.
func (c *Client) SignUp(ctx context.Context, email, password, fullName string) (*models.Session, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]any{"full_name": fullName},
	}
	resp, err := c.do(ctx, http.MethodPost, "/auth/v1/signup", nil, body, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, err
	}
	return tr.session(), nil
}

// ResetPasswordForEmail asks the provider to mail a reset link that
// sends the user back to redirectTo.
func (c *Client) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	body := map[string]any{"email": email, "redirect_to": redirectTo}
	resp, err := c.do(ctx, http.MethodPost, "/auth/v1/recover", nil, body, nil)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// UpdateUser applies a partial profile or password change to the
// currently authenticated user.
func (c *Client) UpdateUser(ctx context.Context, patch UserPatch) error {
	resp, err := c.do(ctx, http.MethodPut, "/auth/v1/user", nil, patch, nil)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// SignOut revokes the current session on the provider side.
func (c *Client) SignOut(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodPost, "/auth/v1/logout", nil, struct{}{}, nil)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}
