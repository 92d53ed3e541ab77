package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/mkravets/vaultapi/internal/server/auth"
	"github.com/mkravets/vaultapi/internal/server/models"
)

type ctxKey string

const identityKey ctxKey = "identity"

// requireAuth extracts the Bearer token, validates it, and attaches the
// resulting identity claim to the request context. Handlers downstream take
// the user id from that claim only.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeMessage(w, http.StatusUnauthorized, "Missing or invalid access token.")
			return
		}

		identity, err := auth.IdentityFromToken(token, s.jwtSecret)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Missing or invalid access token.")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// identityFrom returns the identity claim attached by requireAuth.
func identityFrom(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(models.Identity)
	return identity, ok
}
