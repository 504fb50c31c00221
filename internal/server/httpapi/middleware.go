package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/antonnoe/dossierfrankrijk/internal/common"
	"github.com/antonnoe/dossierfrankrijk/internal/server/services"
)

type contextKey string

const sessionContextKey contextKey = "session"

// accessTokenFromRequest looks for a bearer Authorization header first and
// falls back to the access-token cookie set by the callback handler.
func accessTokenFromRequest(r *http.Request) string {
	if h := r.Header.Get(common.AccessTokenHeaderName); h != "" {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie(common.AccessTokenCookieName); err == nil {
		return c.Value
	}
	return ""
}

// withSession authenticates the request and puts the session in the context.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := accessTokenFromRequest(r)
		if token == "" {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		session, err := s.auth.CurrentSession(r.Context(), token)
		if err != nil {
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), sessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFromContext returns the session stored by withSession.
func sessionFromContext(ctx context.Context) *services.Session {
	session, _ := ctx.Value(sessionContextKey).(*services.Session)
	return session
}
