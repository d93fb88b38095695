package middleware

import (
	"context"
	"net/http"

	"github.com/sabor-fitness/api/internal/session"
)

type contextKey string

const sessionKey contextKey = "session"

// CookieName is the anonymous session cookie. It carries no credential,
// only an opaque id; authentication is out of scope.
const CookieName = "sf_session"

// WithSession resolves the visitor's session from the cookie, creating one
// (and setting the cookie) when absent or expired.
func WithSession(reg *session.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sess *session.Session

			if c, err := r.Cookie(CookieName); err == nil {
				if s, ok := reg.Get(c.Value); ok {
					sess = s
				}
			}
			if sess == nil {
				sess = reg.Create()
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    sess.ID,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the session resolved by WithSession, or nil.
func SessionFromContext(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionKey).(*session.Session)
	return s
}
