package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/user/storefront/internal/domain"
	"github.com/user/storefront/internal/pkg/token"
	"github.com/user/storefront/internal/usecase"
)

// SessionCookie is the cookie holding the signed session token.
const SessionCookie = "token"

type contextKey string

const identityKey contextKey = "identity"

// Session is a middleware factory that resolves the caller's identity from
// the session cookie (or Authorization header) and attaches it to the
// request context. A missing or invalid token yields the anonymous
// identity; rejecting anonymous callers is each operation's own policy, not
// the middleware's.
func Session(signer *token.Signer, users domain.UserRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident := usecase.Anonymous

			if raw := sessionToken(r); raw != "" {
				userID, err := signer.Verify(raw)
				if err == nil {
					user, err := users.FindByID(r.Context(), userID)
					if err == nil {
						ident = usecase.Identity{UserID: user.ID, Permissions: user.Permissions}
					} else {
						// A signed token for a user that no longer exists
						// degrades to anonymous rather than erroring.
						logger.Warn("session user not found", "user_id", userID, "error", err)
					}
				}
			}

			ctx := context.WithValue(r.Context(), identityKey, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFrom extracts the caller identity attached by Session. Requests
// that bypassed the middleware read as anonymous.
func IdentityFrom(ctx context.Context) usecase.Identity {
	if ident, ok := ctx.Value(identityKey).(usecase.Identity); ok {
		return ident
	}
	return usecase.Anonymous
}

func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
