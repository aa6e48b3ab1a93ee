package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentora-app/mentora/internal/i18n"
)

func TestCSRFToken_RoundTrip(t *testing.T) {
	t.Parallel()

	s := testServer(t)
	token := s.csrfToken("visitor-token")
	assert.True(t, s.verifyCSRF(token, "visitor-token"))
}

func TestCSRFToken_BoundToUser(t *testing.T) {
	t.Parallel()

	s := testServer(t)
	token := s.csrfToken("alice-token")
	assert.False(t, s.verifyCSRF(token, "mallory-token"),
		"a stolen token must not verify for another visitor")
}

func TestCSRFToken_Tampered(t *testing.T) {
	t.Parallel()

	s := testServer(t)
	token := s.csrfToken("visitor-token")

	flipped := []byte(token)
	last := len(flipped) - 1
	if flipped[last] == 'A' {
		flipped[last] = 'B'
	} else {
		flipped[last] = 'A'
	}
	assert.False(t, s.verifyCSRF(string(flipped), "visitor-token"))
}

func TestVerifyCSRF_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "no separator", token: "1699999999abcdef"},
		{name: "separator only", token: ":"},
		{name: "missing signature", token: "1699999999:"},
		{name: "missing timestamp", token: ":c2ln"},
		{name: "random signature", token: "1699999999:bm90LWEtc2lnbmF0dXJl"},
	}

	s := testServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.False(t, s.verifyCSRF(tt.token, "visitor-token"))
		})
	}
}

// signedAt builds a correctly signed token with an arbitrary issue time.
func signedAt(s *Server, at time.Time, userToken string) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	return ts + ":" + s.csrfSignature(ts, userToken)
}

func TestVerifyCSRF_Expiry(t *testing.T) {
	t.Parallel()

	s := testServer(t)
	now := time.Now()

	tests := []struct {
		name   string
		issued time.Time
		want   bool
	}{
		{name: "fresh", issued: now, want: true},
		{name: "half the ttl", issued: now.Add(-csrfTokenTTL / 2), want: true},
		{name: "past the ttl", issued: now.Add(-csrfTokenTTL - time.Minute), want: false},
		{name: "slightly ahead", issued: now.Add(2 * time.Minute), want: true},
		{name: "too far ahead", issued: now.Add(csrfClockSkew + time.Minute), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			token := signedAt(s, tt.issued, "visitor-token")
			assert.Equal(t, tt.want, s.verifyCSRF(token, "visitor-token"))
		})
	}
}

func TestCSRFMiddleware_SafeMethodsPass(t *testing.T) {
	t.Parallel()

	s := testServer(t)
	called := false
	h := s.csrfMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCSRFMiddleware_BlocksMissingToken(t *testing.T) {
	t.Parallel()

	s := testServer(t)
	h := s.csrfMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("handler must not run without a token")
	}))

	r := withAuth(httptest.NewRequest(http.MethodPost, "/chat/send", nil), testAuth())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sessão expirada")
}

func TestCSRFMiddleware_AcceptsHeader(t *testing.T) {
	t.Parallel()

	s := testServer(t)
	auth := testAuth()

	called := false
	h := s.csrfMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	r := withAuth(httptest.NewRequest(http.MethodPost, "/chat/send", nil), auth)
	r.Header.Set("X-CSRF-Token", s.csrfToken(auth.Token))

	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.True(t, called)
}

func TestCSRFMiddleware_AcceptsFormField(t *testing.T) {
	t.Parallel()

	s := testServer(t)
	auth := testAuth()

	called := false
	h := s.csrfMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	form := url.Values{"csrf_token": {s.csrfToken(auth.Token)}, "message": {"oi"}}
	r := httptest.NewRequest(http.MethodPost, "/chat/send", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r = withAuth(r, auth)

	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.True(t, called)
}

func TestCSRFMiddleware_HTMXFailureIsToast(t *testing.T) {
	t.Parallel()

	s := testServer(t)
	h := s.csrfMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("handler must not run")
	}))

	r := withAuth(httptest.NewRequest(http.MethodPost, "/chat/send", nil), testAuth())
	r.Header.Set("HX-Request", "true")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	// htmx discards non-2xx bodies, so the toast ships with a 200.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `hx-swap-oob="beforeend:#toasts"`)
	assert.Contains(t, rec.Body.String(), "Sessão expirada")
}

func TestCSRFMiddleware_APIFailureIsJSON(t *testing.T) {
	t.Parallel()

	s := testServer(t)
	h := s.csrfMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("handler must not run")
	}))

	r := withAuth(httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{}`)), testAuth())
	r.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"code":"csrf"`)
}

func testAuth() Auth {
	return Auth{Token: "visitor-token", Lang: i18n.LangPT}
}

func withAuth(r *http.Request, a Auth) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), authKey{}, a))
}
