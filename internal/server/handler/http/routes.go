package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"

	"github.com/dammytech/dtxstore/internal/middleware"
)

// NewRouter constructs the HTTP handler serving the backend emulation.
//
// Routes:
//
//	POST /auth/v1/signup                      → AuthHandler.Signup
//	POST /auth/v1/token?grant_type=password   → AuthHandler.Token
//	POST /auth/v1/recover                     → AuthHandler.Recover
//	PUT  /auth/v1/user                        → AuthHandler.UpdateUser
//	POST /auth/v1/logout                      → AuthHandler.Logout
//	GET/POST/PATCH/DELETE /rest/v1/{table}    → RestHandler
//
// Middleware chain (applied in order):
//  1. WithRequestLogging(logger)   - logs each request
//  2. BearerAuth(secret, anonKey)  - apikey check + JWT validation
func NewRouter(
	authHandler *AuthHandler,
	restHandler *RestHandler,
	logger *zap.Logger,
	jwtSecret string,
	anonKey string,
) http.Handler {
	r := chi.NewRouter()

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))
	// Enforce the apikey header and validate bearer tokens
	r.Use(middleware.BearerAuth(jwtSecret, anonKey))

	r.Route("/auth/v1", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/token", authHandler.Token)
		r.Post("/recover", authHandler.Recover)
		r.Put("/user", authHandler.UpdateUser)
		r.Post("/logout", authHandler.Logout)
	})

	r.Route("/rest/v1/{table}", func(r chi.Router) {
		r.Get("/", restHandler.Get)
		r.Post("/", restHandler.Post)
		r.Patch("/", restHandler.Patch)
		r.Delete("/", restHandler.Delete)
	})

	return r
}
