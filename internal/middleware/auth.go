// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

type ctxKey string

const userKey ctxKey = "user"

// Claims is the JWT payload issued by the token endpoint.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// BearerAuth validates the Authorization header when one is present.
//
// Every request must carry the project apikey header. A bearer token,
// if supplied and distinct from the anon key, must be a valid JWT
// signed with secret; its subject is stored in the request context as
// the authenticated user ID. Requests with only the anon key pass
// through unauthenticated, handlers that need an identity check the
// context themselves.
func BearerAuth(secret, anonKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("apikey") != anonKey {
				http.Error(w, "invalid api key", http.StatusUnauthorized)
				return
			}

			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if token == "" || token == anonKey {
				next.ServeHTTP(w, r)
				return
			}

			claims := &Claims{}
			parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !parsed.Valid {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext extracts the authenticated user ID from the
// request context. Returns an empty string if not found.
func GetUserIDFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
