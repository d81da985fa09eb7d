// Package http provides the HTTP surface of the local backend
// emulation: identity endpoints under /auth/v1 and the generic row
// store under /rest/v1.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dammytech/dtxstore/internal/middleware"
	"github.com/dammytech/dtxstore/internal/repository"
	"github.com/dammytech/dtxstore/internal/service"
)

// defaultTokenTTL applies when a sign-in does not request a lifetime.
const defaultTokenTTL = time.Hour

// AuthService defines the account operations required by the HTTP
// handlers.
type AuthService interface {
	// SignUp registers a new account.
	SignUp(ctx context.Context, email, password, fullName string) (*repository.User, error)
	// SignIn verifies credentials and issues an access token.
	SignIn(ctx context.Context, email, password string, ttl time.Duration) (*service.Token, error)
	// UpdateUser patches password and/or full name of an account.
	UpdateUser(ctx context.Context, userID, password, fullName string) (*repository.User, error)
}

// AuthHandler handles the /auth/v1 endpoints.
type AuthHandler struct {
	// AuthService performs the underlying account operations.
	AuthService AuthService
}

// userBody is the user object shape the client consumes.
type userBody struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
}

func userOf(u *repository.User) userBody {
	return userBody{ID: u.ID, Email: u.Email, FullName: u.FullName}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// Signup handles POST /auth/v1/signup. No session is issued: the
// account exists but the user signs in separately, matching the
// hosted provider's email-confirmation flow.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string         `json:"email"`
		Password string         `json:"password"`
		Data     map[string]any `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}
	fullName, _ := req.Data["full_name"].(string)

	u, err := h.AuthService.SignUp(r.Context(), req.Email, req.Password, fullName)
	if errors.Is(err, repository.ErrEmailTaken) {
		writeError(w, http.StatusUnprocessableEntity, "User already registered")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": userOf(u)})
}

// Token handles POST /auth/v1/token?grant_type=password, exchanging
// credentials for a JWT with the requested lifetime.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("grant_type") != "password" {
		writeError(w, http.StatusBadRequest, "unsupported grant type")
		return
	}
	var req struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		ExpiresIn int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}
	ttl := defaultTokenTTL
	if req.ExpiresIn > 0 {
		ttl = time.Duration(req.ExpiresIn) * time.Second
	}

	tok, err := h.AuthService.SignIn(r.Context(), req.Email, req.Password, ttl)
	if errors.Is(err, service.ErrInvalidCredentials) {
		writeError(w, http.StatusBadRequest, "Invalid login credentials")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": tok.AccessToken,
		"token_type":   "bearer",
		"expires_in":   tok.ExpiresIn,
		"user":         userOf(&tok.User),
	})
}

// Recover handles POST /auth/v1/recover. The emulation has no mailer,
// so the request is accepted and dropped.
func (h *AuthHandler) Recover(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{})
}

// UpdateUser handles PUT /auth/v1/user for the authenticated user.
func (h *AuthHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var req struct {
		Password string         `json:"password"`
		Data     map[string]any `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	fullName, _ := req.Data["full_name"].(string)

	u, err := h.AuthService.UpdateUser(r.Context(), userID, req.Password, fullName)
	if errors.Is(err, repository.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": userOf(u)})
}

// Logout handles POST /auth/v1/logout. Tokens are stateless, so there
// is nothing to revoke; the client discards its copy.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
