// Package principal resolves the requesting principal for scoped operations.
// The identity is read from a header and trusted as-is: the deployment model
// assumes an upstream proxy has already authenticated the caller. There is no
// credential checking anywhere in this repo.
package principal

import (
	"context"
	"net/http"
)

// Header carries the caller identity. An absent header means anonymous.
const Header = "X-Principal"

// Context key for principal data
type contextKey string

const principalKey contextKey = "principal"

// Middleware copies the principal header into the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), principalKey, r.Header.Get(Header))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext retrieves the principal from the request context.
// Returns empty string for anonymous requests.
func FromContext(ctx context.Context) string {
	p, _ := ctx.Value(principalKey).(string)
	return p
}

// WithPrincipal returns a context carrying the given principal. Used by tests
// and non-HTTP callers.
func WithPrincipal(ctx context.Context, p string) context.Context {
	return context.WithValue(ctx, principalKey, p)
}
