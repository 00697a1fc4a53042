package middleware

import (
	"context"
	"net/http"
	"strings"

	"rakshak-women-safety/pkg/response"
	"rakshak-women-safety/pkg/security"
)

type contextKey string

const (
	UserContextKey contextKey = "user"
)

// TokenParser verifies a bearer token and returns its claims.
type TokenParser interface {
	ParseJWT(tokenString string) (*security.UserClaims, error)
}

func AuthMiddleware(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Error(w, http.StatusUnauthorized, "Missing Authorization header", "")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				response.Error(w, http.StatusUnauthorized, "Invalid token format", "Format must be Bearer <token>")
				return
			}

			claims, err := parser.ParseJWT(tokenString)
			if err != nil {
				response.Error(w, http.StatusUnauthorized, "Invalid or expired token", err.Error())
				return
			}

			ctx := WithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithClaims stores authenticated claims on ctx.
func WithClaims(ctx context.Context, claims *security.UserClaims) context.Context {
	return context.WithValue(ctx, UserContextKey, claims)
}

// ClaimsFromContext returns the claims set by AuthMiddleware.
func ClaimsFromContext(ctx context.Context) (*security.UserClaims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*security.UserClaims)
	return claims, ok && claims != nil
}
