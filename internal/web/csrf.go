package web

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mentora-app/mentora/internal/i18n"
)

const (
	// csrfTokenTTL bounds how long an issued token stays usable. Pages
	// older than this need a reload before posting.
	csrfTokenTTL = time.Hour

	// csrfClockSkew tolerates clients slightly ahead of the server.
	csrfClockSkew = 5 * time.Minute
)

// csrfToken issues "unix-timestamp:signature" bound to the visitor's
// anonymous token, so a token stolen cross-user verifies for no one.
func (s *Server) csrfToken(userToken string) string {
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	return ts + ":" + s.csrfSignature(ts, userToken)
}

// verifyCSRF checks a submitted token. The signature is compared before
// the timestamp is parsed, so malformed and expired tokens are not
// distinguishable by timing.
func (s *Server) verifyCSRF(token, userToken string) bool {
	ts, sig, ok := strings.Cut(token, ":")
	if !ok {
		return false
	}
	if !hmac.Equal([]byte(sig), []byte(s.csrfSignature(ts, userToken))) {
		return false
	}

	issued, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return false
	}
	now := time.Now().Unix()
	if now-issued > int64(csrfTokenTTL.Seconds()) {
		return false
	}
	if issued-now > int64(csrfClockSkew.Seconds()) {
		return false
	}
	return true
}

func (s *Server) csrfSignature(ts, userToken string) string {
	mac := hmac.New(sha256.New, []byte(s.cfg.CSRFSecret))
	fmt.Fprintf(mac, "%s:%s", ts, userToken)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// csrfMiddleware enforces tokens on every mutating request. htmx sends
// the X-CSRF-Token header inherited from the body tag; plain forms post
// a csrf_token field.
func (s *Server) csrfMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		auth := authFrom(r.Context())
		token := r.Header.Get("X-CSRF-Token")
		if token == "" {
			token = r.PostFormValue("csrf_token")
		}
		if !s.verifyCSRF(token, auth.Token) {
			s.writeFailure(w, r, http.StatusForbidden, "csrf",
				i18n.T(auth.Lang, "error.csrf"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
