package web

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/mentora-app/mentora/internal/i18n"
)

// Cleanup cadence for the per-IP limiter map.
const (
	limiterCleanupEvery = 5 * time.Minute
	limiterStaleAfter   = 10 * time.Minute
)

// rateLimiter hands out one token bucket per client IP and drops
// buckets that have gone quiet, so the map stays bounded without a
// background goroutine.
type rateLimiter struct {
	mu          sync.Mutex
	perSec      rate.Limit
	burst       int
	clients     map[string]*limiterEntry
	lastCleanup time.Time
}

type limiterEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

func newRateLimiter(perSec float64, burst int) *rateLimiter {
	return &rateLimiter{
		perSec:      rate.Limit(perSec),
		burst:       burst,
		clients:     make(map[string]*limiterEntry),
		lastCleanup: time.Now(),
	}
}

func (l *rateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastCleanup) > limiterCleanupEvery {
		for ip, e := range l.clients {
			if now.Sub(e.seen) > limiterStaleAfter {
				delete(l.clients, ip)
			}
		}
		l.lastCleanup = now
	}

	e, ok := l.clients[ip]
	if !ok {
		e = &limiterEntry{lim: rate.NewLimiter(l.perSec, l.burst)}
		l.clients[ip] = e
	}
	e.seen = now
	return e.lim.Allow()
}

// rateLimited reports whether the request is governed by the limiter:
// the JSON API plus every endpoint that reaches the AI or fetches
// remote pages. Page loads stay unmetered.
func rateLimited(r *http.Request) bool {
	p := r.URL.Path
	if strings.HasPrefix(p, "/api/") {
		return true
	}
	if p == "/chat/send" || p == "/chat/stream" {
		return true
	}
	return r.Method == http.MethodPost && (p == "/mindmap" || p == "/resources")
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rateLimited(r) && !s.limiter.allow(s.clientIP(r)) {
			w.Header().Set("Retry-After", "1")
			s.writeFailure(w, r, http.StatusTooManyRequests, "rate_limited",
				i18n.T(s.lang, "error.rate.limited"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the caller address. Proxy headers are honored only
// when TrustProxy is set, and only when they parse as addresses.
func (s *Server) clientIP(r *http.Request) string {
	if s.cfg.TrustProxy {
		if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" && net.ParseIP(ip) != nil {
			return ip
		}
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			first = strings.TrimSpace(first)
			if net.ParseIP(first) != nil {
				return first
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
