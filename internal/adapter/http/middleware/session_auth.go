package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/genglo/coop-kiosk/internal/logger"
)

type contextKey string

const memberIDKey contextKey = "memberID"

// SessionResolver maps a bearer token to a member id.
type SessionResolver interface {
	ResolveSession(token string) (string, bool)
}

// SessionAuth guards routes behind a kiosk session. The resolved member id
// lands in the request context; handlers read it with MemberID.
func SessionAuth(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				logger.Info("session middleware missing token", logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			memberID, ok := resolver.ResolveSession(token)
			if !ok {
				logger.Info("session middleware invalid or expired token", logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), memberIDKey, memberID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// MemberID returns the authenticated member id placed by SessionAuth.
func MemberID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(memberIDKey).(string)
	return id, ok && id != ""
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
