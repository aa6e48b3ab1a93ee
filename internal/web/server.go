// Package web serves the Mentora UI: server-rendered pages progressively
// enhanced with htmx, a Server-Sent Events chat stream and a small JSON
// API under /api/v1. Visitors are identified by a signed anonymous
// cookie; there are no accounts.
package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mentora-app/mentora/internal/chat"
	"github.com/mentora-app/mentora/internal/gamification"
	"github.com/mentora-app/mentora/internal/i18n"
	"github.com/mentora-app/mentora/internal/mindmap"
	"github.com/mentora-app/mentora/internal/resource"
	"github.com/mentora-app/mentora/internal/session"
	"github.com/mentora-app/mentora/internal/web/static"
)

// Cookie names. All are scoped to the whole site.
const (
	uidCookie     = "mentora_uid"
	sidebarCookie = "mentora_sidebar"
	modeCookie    = "mentora_mode"
)

// cookieMaxAge keeps the anonymous identity alive across long pauses
// between study sessions.
const cookieMaxAge = 365 * 24 * time.Hour

// minSecretLen mirrors config.RequireSecrets. NewServer refuses shorter
// secrets so a misconfigured deployment never reaches the network.
const minSecretLen = 32

// Default request-rate settings for the AI-backed endpoints.
const (
	defaultRatePerSec = 5.0
	defaultRateBurst  = 10
)

// Config wires the web server. Every service is required.
type Config struct {
	Logger    *slog.Logger
	Pool      *pgxpool.Pool
	Chat      *chat.Service
	Sessions  *session.Store
	MindMaps  *mindmap.Service
	Resources *resource.Service
	Points    *gamification.Store

	// Lang is the interface language for visitors without a stored
	// locale preference.
	Lang i18n.Lang

	// CookieSecret signs the anonymous identity cookie; CSRFSecret
	// signs CSRF tokens. They must be distinct.
	CookieSecret string
	CSRFSecret   string

	// Dev disables the Secure cookie flag and HSTS for localhost use.
	Dev bool

	// TrustProxy enables client-IP extraction from X-Real-IP and
	// X-Forwarded-For. Only set it behind a proxy that strips them.
	TrustProxy bool

	// Tracing wraps requests in OpenTelemetry spans.
	Tracing bool

	RatePerSec float64
	RateBurst  int
}

func (cfg Config) validate() error {
	if cfg.Pool == nil {
		return errors.New("web: pool is required")
	}
	if cfg.Chat == nil {
		return errors.New("web: chat service is required")
	}
	if cfg.Sessions == nil {
		return errors.New("web: session store is required")
	}
	if cfg.MindMaps == nil {
		return errors.New("web: mind map service is required")
	}
	if cfg.Resources == nil {
		return errors.New("web: resource service is required")
	}
	if cfg.Points == nil {
		return errors.New("web: gamification store is required")
	}
	if len(cfg.CookieSecret) < minSecretLen {
		return fmt.Errorf("web: cookie secret must be at least %d bytes", minSecretLen)
	}
	if len(cfg.CSRFSecret) < minSecretLen {
		return fmt.Errorf("web: csrf secret must be at least %d bytes", minSecretLen)
	}
	if cfg.CookieSecret == cfg.CSRFSecret {
		return errors.New("web: cookie and csrf secrets must differ")
	}
	return nil
}

// Server is the HTTP handler for the whole UI.
type Server struct {
	cfg     Config
	logger  *slog.Logger
	lang    i18n.Lang
	limiter *rateLimiter
	handler http.Handler
}

// NewServer validates cfg and builds the route table.
func NewServer(cfg Config) (*Server, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	lang := cfg.Lang
	if lang == "" {
		lang = i18n.Default()
	}
	perSec := cfg.RatePerSec
	if perSec <= 0 {
		perSec = defaultRatePerSec
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = defaultRateBurst
	}

	s := &Server{
		cfg:     cfg,
		logger:  logger.With("component", "web"),
		lang:    lang,
		limiter: newRateLimiter(perSec, burst),
	}
	s.handler = s.routes()
	return s, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// HTML pages and htmx fragments.
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /chat", s.handleChatPage)
	mux.HandleFunc("GET /chat/{id}", s.handleChatPage)
	mux.HandleFunc("POST /chat/send", s.handleChatSend)
	mux.HandleFunc("GET /chat/stream", s.handleChatStream)
	mux.HandleFunc("PUT /sessions/{id}", s.handleSessionRename)
	mux.HandleFunc("POST /sessions/{id}/archive", s.handleSessionArchive)
	mux.HandleFunc("DELETE /sessions/{id}", s.handleSessionDelete)
	mux.HandleFunc("GET /mindmap", s.handleMindMapList)
	mux.HandleFunc("POST /mindmap", s.handleMindMapCreate)
	mux.HandleFunc("GET /mindmap/{id}", s.handleMindMapDetail)
	mux.HandleFunc("DELETE /mindmap/{id}", s.handleMindMapDelete)
	mux.HandleFunc("GET /resources", s.handleResourcesPage)
	mux.HandleFunc("POST /resources", s.handleResourceAdd)
	mux.HandleFunc("DELETE /resources/{id}", s.handleResourceDelete)
	mux.HandleFunc("GET /progress", s.handleProgressPage)
	mux.HandleFunc("POST /web/sidebar", s.handleSidebarToggle)
	mux.HandleFunc("POST /web/profile", s.handleProfileUpdate)

	// JSON API.
	mux.HandleFunc("GET /api/v1/csrf", s.handleAPICSRF)
	mux.HandleFunc("GET /api/v1/stats", s.handleAPIStats)
	mux.HandleFunc("GET /api/v1/sessions", s.handleAPISessions)
	mux.HandleFunc("GET /api/v1/sessions/{id}/messages", s.handleAPIMessages)
	mux.HandleFunc("POST /api/v1/chat", s.handleAPIChat)
	mux.HandleFunc("GET /api/v1/mindmaps", s.handleAPIMindMaps)
	mux.HandleFunc("POST /api/v1/mindmaps", s.handleAPIMindMapCreate)

	// Authenticated stack, outermost listed last.
	var stack http.Handler = mux
	stack = s.csrfMiddleware(stack)
	stack = s.identity(stack)
	stack = s.rateLimit(stack)
	stack = methodOverride(stack)
	stack = s.tracing(stack)
	stack = s.logging(stack)
	stack = requestIDMiddleware(stack)
	stack = s.recovery(stack)

	// Probes and assets bypass identity, CSRF and rate limiting.
	top := http.NewServeMux()
	top.HandleFunc("GET /healthz", s.handleHealthz)
	top.HandleFunc("GET /readyz", s.handleReadyz)
	top.Handle("GET /static/", http.StripPrefix("/static/", static.Handler()))
	top.Handle("/", stack)
	return top
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.securityHeaders(w)
	s.handler.ServeHTTP(w, r)
}

// securityHeaders are set on every response, assets included. The CSP
// allows unpkg.com for the pinned htmx scripts and inline styles for
// the progress-bar widths.
func (s *Server) securityHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Frame-Options", "DENY")
	h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
	h.Set("Content-Security-Policy",
		"default-src 'self'; script-src 'self' https://unpkg.com; "+
			"style-src 'self' 'unsafe-inline'; img-src 'self' data:; "+
			"connect-src 'self'; frame-ancestors 'none'")
	if !s.cfg.Dev {
		h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
	}
}
