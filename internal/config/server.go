package config

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host string `mapstructure:"host" json:"host"`
	Port int    `mapstructure:"port" json:"port"`

	// CSRFSecret signs CSRF tokens; 32+ bytes. SENSITIVE: masked in MarshalJSON.
	CSRFSecret string `mapstructure:"csrf_secret" json:"csrf_secret"`
	// CookieSecret signs the anonymous identity cookie; 32+ bytes. SENSITIVE.
	CookieSecret string `mapstructure:"cookie_secret" json:"cookie_secret"`

	// Dev relaxes cookie Secure flags and CSP for local work.
	Dev bool `mapstructure:"dev" json:"dev"`
	// TrustProxy honors X-Forwarded-For when running behind a reverse proxy.
	TrustProxy bool `mapstructure:"trust_proxy" json:"trust_proxy"`
}

// Addr returns the host:port listen address.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RequireSecrets is called by the serve command; other commands run
// without the web secrets.
func (s *ServerConfig) RequireSecrets() error {
	if len(s.CSRFSecret) < 32 {
		return fmt.Errorf("%w: server.csrf_secret must be at least 32 bytes", ErrWeakSecret)
	}
	if len(s.CookieSecret) < 32 {
		return fmt.Errorf("%w: server.cookie_secret must be at least 32 bytes", ErrWeakSecret)
	}
	return nil
}

// MarshalJSON masks the signing secrets.
func (s ServerConfig) MarshalJSON() ([]byte, error) {
	type alias ServerConfig
	cp := alias(s)
	cp.CSRFSecret = maskSecret(s.CSRFSecret)
	cp.CookieSecret = maskSecret(s.CookieSecret)
	data, err := json.Marshal(cp)
	if err != nil {
		return nil, fmt.Errorf("marshal server config: %w", err)
	}
	return data, nil
}

// DatabaseConfig holds the PostgreSQL connection settings.
type DatabaseConfig struct {
	// URL is a pgx-compatible DSN. SENSITIVE: password masked in MarshalJSON.
	URL string `mapstructure:"url" json:"url"`
}

// MarshalJSON masks the password component of the DSN.
func (d DatabaseConfig) MarshalJSON() ([]byte, error) {
	type alias DatabaseConfig
	cp := alias(d)
	cp.URL = maskDatabaseURL(d.URL)
	data, err := json.Marshal(cp)
	if err != nil {
		return nil, fmt.Errorf("marshal database config: %w", err)
	}
	return data, nil
}

// maskDatabaseURL replaces the password in a postgres URL. Unparseable
// values are fully masked rather than risked.
func maskDatabaseURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return maskedValue
	}
	if _, has := u.User.Password(); has {
		u.User = url.UserPassword(u.User.Username(), maskedValue)
	}
	return u.String()
}

// LogConfig selects the slog handler built by internal/log.
type LogConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

// TelemetryConfig controls OTLP trace export.
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled" json:"enabled"`
	Endpoint    string `mapstructure:"endpoint" json:"endpoint"`
	ServiceName string `mapstructure:"service_name" json:"service_name"`
	Environment string `mapstructure:"environment" json:"environment"`
}
