package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/mentora-app/mentora/internal/chat"
	"github.com/mentora-app/mentora/internal/gamification"
	"github.com/mentora-app/mentora/internal/i18n"
	"github.com/mentora-app/mentora/internal/mindmap"
	"github.com/mentora-app/mentora/internal/resource"
	"github.com/mentora-app/mentora/internal/session"
	"github.com/mentora-app/mentora/internal/testutil"
)

// testServer builds a Server with just enough wiring for handler-level
// tests. Anything touching the database belongs in the integration
// suite.
func testServer(t *testing.T) *Server {
	t.Helper()
	return &Server{
		cfg: Config{
			CookieSecret: strings.Repeat("c", 32),
			CSRFSecret:   strings.Repeat("s", 32),
			Dev:          true,
		},
		logger:  testutil.DiscardLogger(),
		lang:    i18n.LangPT,
		limiter: newRateLimiter(5, 10),
	}
}

// validConfig satisfies validate without a live database. The zero
// service values are never invoked.
func validConfig() Config {
	return Config{
		Pool:         &pgxpool.Pool{},
		Chat:         &chat.Service{},
		Sessions:     &session.Store{},
		MindMaps:     &mindmap.Service{},
		Resources:    &resource.Service{},
		Points:       &gamification.Store{},
		CookieSecret: strings.Repeat("c", 32),
		CSRFSecret:   strings.Repeat("s", 32),
		Dev:          true,
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "complete", mutate: func(*Config) {}},
		{
			name:    "missing pool",
			mutate:  func(c *Config) { c.Pool = nil },
			wantErr: "pool is required",
		},
		{
			name:    "missing chat",
			mutate:  func(c *Config) { c.Chat = nil },
			wantErr: "chat service is required",
		},
		{
			name:    "missing sessions",
			mutate:  func(c *Config) { c.Sessions = nil },
			wantErr: "session store is required",
		},
		{
			name:    "missing mind maps",
			mutate:  func(c *Config) { c.MindMaps = nil },
			wantErr: "mind map service is required",
		},
		{
			name:    "missing resources",
			mutate:  func(c *Config) { c.Resources = nil },
			wantErr: "resource service is required",
		},
		{
			name:    "missing gamification",
			mutate:  func(c *Config) { c.Points = nil },
			wantErr: "gamification store is required",
		},
		{
			name:    "short cookie secret",
			mutate:  func(c *Config) { c.CookieSecret = "curta" },
			wantErr: "cookie secret",
		},
		{
			name:    "short csrf secret",
			mutate:  func(c *Config) { c.CSRFSecret = "curta" },
			wantErr: "csrf secret",
		},
		{
			name:    "identical secrets",
			mutate:  func(c *Config) { c.CSRFSecret = c.CookieSecret },
			wantErr: "must differ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewServer_Defaults(t *testing.T) {
	t.Parallel()

	s, err := NewServer(validConfig())
	require.NoError(t, err)

	assert.Equal(t, i18n.Default(), s.lang)
	assert.Equal(t, rate.Limit(defaultRatePerSec), s.limiter.perSec)
	assert.Equal(t, defaultRateBurst, s.limiter.burst)
	assert.NotNil(t, s.handler)
}

func TestNewServer_RejectsBadConfig(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.CSRFSecret = ""
	_, err := NewServer(cfg)
	assert.Error(t, err)
}

func TestServer_SecurityHeaders(t *testing.T) {
	t.Parallel()

	s, err := NewServer(validConfig())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	h := rec.Header()
	assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", h.Get("Referrer-Policy"))
	assert.Contains(t, h.Get("Content-Security-Policy"), "default-src 'self'")
	assert.Contains(t, h.Get("Content-Security-Policy"), "frame-ancestors 'none'")
	assert.Empty(t, h.Get("Strict-Transport-Security"), "no HSTS in dev")
}

func TestServer_HSTSInProduction(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Dev = false
	s, err := NewServer(cfg)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Contains(t, rec.Header().Get("Strict-Transport-Security"), "max-age=")
}

func TestServer_Healthz(t *testing.T) {
	t.Parallel()

	s, err := NewServer(validConfig())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_StaticAssets(t *testing.T) {
	t.Parallel()

	s, err := NewServer(validConfig())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/css/app.css", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
	assert.NotZero(t, rec.Body.Len())
}

func TestServer_StaticUnknownIs404(t *testing.T) {
	t.Parallel()

	s, err := NewServer(validConfig())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/css/missing.css", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
