package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidModel indicates an empty or malformed model name.
	ErrInvalidModel = errors.New("invalid model")

	// ErrInvalidTemperature indicates the temperature is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidMaxTokens indicates the max output tokens value is out of range.
	ErrInvalidMaxTokens = errors.New("invalid max output tokens")

	// ErrInvalidPort indicates the server port is out of range.
	ErrInvalidPort = errors.New("invalid port")

	// ErrInvalidDatabaseURL indicates the database DSN is unusable.
	ErrInvalidDatabaseURL = errors.New("invalid database url")

	// ErrNoAPIKeys indicates no generative-language credential is configured.
	ErrNoAPIKeys = errors.New("no API keys configured")

	// ErrWeakSecret indicates a signing secret below the minimum length.
	ErrWeakSecret = errors.New("weak secret")
)

// Validate checks value ranges. Presence of credentials and web secrets is
// checked by RequireKeys/RequireSecrets at the call sites that need them,
// so commands like migrate run with a minimal environment.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	if c.AI.Model == "" {
		return fmt.Errorf("%w: ai.model cannot be empty", ErrInvalidModel)
	}
	if c.AI.EmbeddingModel == "" {
		return fmt.Errorf("%w: ai.embedding_model cannot be empty", ErrInvalidModel)
	}

	// Temperature range per the Gemini API contract.
	if c.AI.Temperature < 0.0 || c.AI.Temperature > 2.0 {
		return fmt.Errorf("%w: must be between 0.0 and 2.0, got %.2f", ErrInvalidTemperature, c.AI.Temperature)
	}

	if c.AI.MaxOutputTokens < 1 || c.AI.MaxOutputTokens > 65536 {
		return fmt.Errorf("%w: must be between 1 and 65,536, got %d", ErrInvalidMaxTokens, c.AI.MaxOutputTokens)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: must be between 1 and 65535, got %d", ErrInvalidPort, c.Server.Port)
	}

	if c.Database.URL == "" {
		return fmt.Errorf("%w: database.url cannot be empty", ErrInvalidDatabaseURL)
	}
	if !strings.HasPrefix(c.Database.URL, "postgres://") && !strings.HasPrefix(c.Database.URL, "postgresql://") {
		return fmt.Errorf("%w: expected a postgres:// DSN", ErrInvalidDatabaseURL)
	}

	return nil
}
