package handler

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/filedepot/filedepot/internal/domain"
	"github.com/filedepot/filedepot/internal/service"
)

// TokenHeader carries the session token on authenticated requests.
const TokenHeader = "X-Token"

type contextKey string

const userContextKey contextKey = "user"

// userFromContext returns the authenticated user, if any.
func userFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userContextKey).(*domain.User)
	return user, ok
}

// requireAuth resolves the session token and rejects the request with 401
// when it does not map to a live user.
func requireAuth(auth *service.AuthService, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := auth.Resolve(r.Context(), r.Header.Get(TokenHeader))
			if err != nil {
				writeError(w, logger, err)
				return
			}
			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// optionalAuth resolves the session token when present but lets the request
// through either way. Content reads use this: public entries are readable
// without a session.
func optionalAuth(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if user, err := auth.Resolve(ctx, r.Header.Get(TokenHeader)); err == nil {
				ctx = context.WithValue(ctx, userContextKey, user)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
