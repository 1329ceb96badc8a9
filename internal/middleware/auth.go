package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rndrianasolo/commercepro/internal/auth"
	"github.com/rndrianasolo/commercepro/internal/entities"
	"github.com/rndrianasolo/commercepro/pkg/utils"
)

type claimsKey struct{}

// Authenticate rejects requests without a valid bearer token and stores the
// claims in the request context.
func Authenticate(tokens *auth.JWTService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				utils.WriteError(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.ValidateToken(tokenString)
			if err != nil {
				utils.WriteError(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a subtree to the given roles. This is a client-side
// policy check; the store's own access rules remain the trust boundary.
func RequireRole(roles ...entities.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				utils.WriteError(w, "unauthenticated", http.StatusUnauthorized)
				return
			}
			for _, role := range roles {
				if entities.Role(claims.Role) == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			utils.WriteError(w, "forbidden", http.StatusForbidden)
		})
	}
}

func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}
