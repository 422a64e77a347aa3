package httpserver

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/AbdoTarek2211/MovieMatch/internal/auth"
	"github.com/AbdoTarek2211/MovieMatch/internal/domain"
)

const sessionCookieName = "session_token"

type ctxKey int

const userCtxKey ctxKey = 0

// signToken appends an HMAC over the session token so a tampered cookie
// is rejected before any database lookup.
func (s *Server) signToken(token string) string {
	mac := hmac.New(sha256.New, []byte(s.cfg.SessionSecret))
	mac.Write([]byte(token))
	return token + "." + hex.EncodeToString(mac.Sum(nil))
}

func (s *Server) parseSignedToken(value string) (string, bool) {
	token, sig, ok := strings.Cut(value, ".")
	if !ok || token == "" {
		return "", false
	}
	mac := hmac.New(sha256.New, []byte(s.cfg.SessionSecret))
	mac.Write([]byte(token))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", false
	}
	return token, true
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    s.signToken(token),
		Path:     "/",
		MaxAge:   int(auth.SessionLifetime / time.Second),
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// sessionToken extracts and validates the session cookie. A missing or
// tampered cookie yields ok=false.
func (s *Server) sessionToken(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return s.parseSignedToken(cookie.Value)
}

// requireSession gates account-scoped routes. The resolved user is
// stashed in the request context.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := s.sessionToken(r)
		if !ok {
			s.respondError(w, http.StatusUnauthorized, codeUnauthorized, "Authentication required")
			return
		}

		user, err := s.auth.CurrentUser(r.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrNoSession) {
				s.respondError(w, http.StatusUnauthorized, codeUnauthorized, "Authentication required")
				return
			}
			s.logger.Printf("resolve session: %v", err)
			s.respondError(w, http.StatusInternalServerError, codeInternal, "Failed to resolve session")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userCtxKey, user)))
	})
}

// currentUser returns the account placed in the context by requireSession.
func currentUser(r *http.Request) (domain.User, bool) {
	user, ok := r.Context().Value(userCtxKey).(domain.User)
	return user, ok
}
