package auth

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

type contextKey string

const identityKey contextKey = "identity"

// BearerToken extracts the token from the Authorization header.
// Browsers cannot set headers on a websocket upgrade, so the "token" query parameter is accepted too.
func BearerToken(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		token, found := strings.CutPrefix(header, "Bearer ")
		return strings.TrimSpace(token), found && strings.TrimSpace(token) != ""
	}
	token := r.URL.Query().Get("token")
	return token, token != ""
}

// Authenticate resolves the caller identity from its bearer token.
func (t *Tokens) Authenticate(r *http.Request) (domain.Identity, error) {
	token, ok := BearerToken(r)
	if !ok {
		return domain.Identity{}, errors.ErrUnauthorized
	}
	claims, err := t.Validate(token)
	if err != nil {
		return domain.Identity{}, errors.ErrUnauthorized
	}
	return claims.Identity(), nil
}

// Middleware rejects requests without a valid token and injects the identity into the request context.
func (t *Tokens) Middleware(onError func(w http.ResponseWriter, err error)) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := t.Authenticate(r)
			if err != nil {
				onError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireRole must run after Middleware.
func RequireRole(role string, onError func(w http.ResponseWriter, err error)) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFrom(r.Context())
			if !ok {
				onError(w, errors.ErrUnauthorized)
				return
			}
			if !identity.HasRole(role) {
				onError(w, errors.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func IdentityFrom(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(domain.Identity)
	return identity, ok
}
