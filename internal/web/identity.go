package web

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mentora-app/mentora/internal/i18n"
)

// Auth identifies the visitor on one request. Mentora has no accounts:
// the browser holds a signed anonymous token and the token owns the
// user's data.
type Auth struct {
	UserID      uuid.UUID
	Token       string
	DisplayName string
	Named       bool
	Lang        i18n.Lang
}

// authFrom returns the request identity. The identity middleware runs
// on every route in the stack, so handlers can rely on it being set.
func authFrom(ctx context.Context) Auth {
	a, _ := ctx.Value(authKey{}).(Auth)
	return a
}

// newAnonToken returns a fresh URL-safe random token.
func newAnonToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// signToken produces the cookie value "token.signature". The token
// alphabet is URL-safe base64, so the first dot always splits cleanly.
func (s *Server) signToken(token string) string {
	return token + "." + s.tokenSignature(token)
}

// verifyCookie checks a cookie value and returns the embedded token.
func (s *Server) verifyCookie(value string) (string, bool) {
	token, sig, ok := strings.Cut(value, ".")
	if !ok || token == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(s.tokenSignature(token))) {
		return "", false
	}
	return token, true
}

func (s *Server) tokenSignature(token string) string {
	mac := hmac.New(sha256.New, []byte(s.cfg.CookieSecret))
	mac.Write([]byte(token))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// identity resolves or provisions the anonymous user. A missing or
// tampered cookie mints a new token; either way one upsert returns the
// user row, so every request downstream has a valid user id.
func (s *Server) identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		if c, err := r.Cookie(uidCookie); err == nil {
			token, _ = s.verifyCookie(c.Value)
		}

		fresh := false
		if token == "" {
			t, err := newAnonToken()
			if err != nil {
				s.logger.Error("minting anon token", "error", err)
				s.writeFailure(w, r, http.StatusInternalServerError,
					"internal", i18n.T(s.lang, "error.generic"))
				return
			}
			token = t
			fresh = true
		}

		var (
			userID      uuid.UUID
			displayName string
			locale      string
		)
		err := s.cfg.Pool.QueryRow(r.Context(),
			`INSERT INTO users (anon_token)
			 VALUES ($1)
			 ON CONFLICT (anon_token) DO UPDATE SET updated_at = now()
			 RETURNING id, display_name, locale`,
			token).Scan(&userID, &displayName, &locale)
		if err != nil {
			s.logger.Error("resolving user", "error", err)
			s.writeFailure(w, r, http.StatusInternalServerError,
				"internal", i18n.T(s.lang, "error.generic"))
			return
		}

		if fresh {
			s.setCookie(w, uidCookie, s.signToken(token), true)
		}

		auth := Auth{
			UserID:      userID,
			Token:       token,
			DisplayName: displayName,
			Named:       displayName != "",
			Lang:        i18n.Parse(locale),
		}
		ctx := context.WithValue(r.Context(), authKey{}, auth)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) setCookie(w http.ResponseWriter, name, value string, httpOnly bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: httpOnly,
		Secure:   !s.cfg.Dev,
		SameSite: http.SameSiteLaxMode,
	})
}
