package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type ctxKey string

const identityKey ctxKey = "identity"

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	v := ctx.Value(identityKey)
	id, ok := v.(Identity)
	return id, ok
}

// RequireAuth guards a route with bearer-token auth. A missing
// Authorization header is 403, an invalid or expired token is 401.
func RequireAuth(jwtSvc *JWT) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" {
				denyJSON(w, http.StatusForbidden, "No token provided!")
				return
			}
			token := strings.TrimPrefix(h, "Bearer ")

			ident, err := jwtSvc.Verify(token)
			if err != nil {
				denyJSON(w, http.StatusUnauthorized, "Unauthorized!")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func denyJSON(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"message": msg})
}
