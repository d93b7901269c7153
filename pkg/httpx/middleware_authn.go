package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/stackhaven/accounts/pkg/slogx"
)

// TokenResolver maps an opaque bearer token back to the owning user's ID.
// The account service's token issuer implements this.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (userID string, err error)
}

// AuthnMiddleware authenticates requests carrying an Authorization: Bearer
// header. On success the user ID is injected into the request context; on
// any failure the request is rejected with 401 and an RFC 6750 challenge.
func AuthnMiddleware(resolver TokenResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			userID, err := resolver.Resolve(ctx, raw)
			if err != nil {
				log.Warn("bearer token rejected", "err", err)
				writeBearerError(w, "invalid token")
				return
			}

			ctx = context.WithValue(ctx, CtxKeyUserID, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}
