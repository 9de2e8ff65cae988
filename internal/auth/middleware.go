package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sakif/pastebin/internal/model"
)

// UserResolver looks up a user by pseudo. Satisfied by the user repository;
// declared here so the middleware doesn't depend on the repository package.
type UserResolver interface {
	GetUserByPseudo(ctx context.Context, pseudo string) (*model.User, error)
}

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the authenticated user entry.
type contextKey string

const principalKey contextKey = "principal"

// RequireUser enforces authentication on protected routes.
//
// It reads the bearer token from the Authorization header, verifies it, and
// resolves the subject pseudo to a fresh User row. The fresh lookup is what
// makes the admin flag trustworthy, and it also means a token issued to a
// since-deleted user stops working without any revocation machinery: the
// subject simply no longer resolves.
//
// Failure modes, both 401 with a WWW-Authenticate: Bearer header:
//   - no Authorization header / not a Bearer scheme → "Not authenticated"
//   - bad signature, expired, missing claim, unknown subject →
//     "Could not validate credentials"
func RequireUser(tokens *TokenService, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				writeUnauthorized(w, "Not authenticated")
				return
			}

			pseudo, err := tokens.Verify(raw)
			if err != nil {
				writeUnauthorized(w, "Could not validate credentials")
				return
			}

			user, err := users.GetUserByPseudo(r.Context(), pseudo)
			if err != nil {
				writeUnauthorized(w, "Could not validate credentials")
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext retrieves the authenticated user set by RequireUser.
// Returns (nil, false) on routes where the middleware did not run.
func PrincipalFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(principalKey).(*model.User)
	return user, ok && user != nil
}

// bearerToken extracts the token from `Authorization: Bearer <token>`.
// The scheme comparison is case-insensitive per RFC 7235.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

// writeUnauthorized emits the 401 envelope directly; the middleware runs
// before any handler, so it cannot reuse the handler package's helpers
// without an import cycle.
func writeUnauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
