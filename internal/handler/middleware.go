package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aibbs/aibbs-web/internal/domain"
	"github.com/aibbs/aibbs-web/internal/service"
)

// sessionCookie is the only thing stored in the browser: a signed session
// ID. The backend bearer token never leaves the server.
const sessionCookie = "aibbs_session"

type contextKey string

const sessionContextKey contextKey = "session"

// SessionFromContext extracts the resolved session from the request
// context. Returns nil for anonymous requests.
func SessionFromContext(ctx context.Context) *domain.Session {
	session, _ := ctx.Value(sessionContextKey).(*domain.Session)
	return session
}

// UserFromContext extracts the authenticated user from the request context.
// Returns nil if no user is authenticated.
func UserFromContext(ctx context.Context) *domain.User {
	if session := SessionFromContext(ctx); session != nil {
		return session.User
	}
	return nil
}

// Token returns the backend bearer token for the request, or "" for
// anonymous requests.
func Token(ctx context.Context) string {
	if session := SessionFromContext(ctx); session != nil {
		return session.Token
	}
	return ""
}

// OptionalAuth resolves the session cookie and injects the session into the
// request context. Invalid cookies are cleared; a stale user snapshot
// triggers a who-am-I refresh, and a definitive 401 from the backend logs
// the browser out. Unauthenticated requests always proceed.
func OptionalAuth(sessions *service.SessionService, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookie)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			session, err := sessions.Resolve(r.Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					clearSessionCookie(w, secure)
				} else {
					slog.Error("resolve session", "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			session, err = sessions.Refresh(r.Context(), session)
			if err != nil {
				// Backend said the token is dead; the session is already gone.
				clearSessionCookie(w, secure)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth redirects anonymous page requests to the login form. It must
// run after OptionalAuth.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SecurityHeaders sets browser protection headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}

func setSessionCookie(w http.ResponseWriter, value string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

func clearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
