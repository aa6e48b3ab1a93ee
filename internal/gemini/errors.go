package gemini

import "errors"

var (
	// ErrNoKeys indicates an empty credential list at construction time.
	ErrNoKeys = errors.New("no API keys configured")

	// ErrAllKeysFailed indicates every credential in the group failed for
	// one request. Callers translate this into the localized user message.
	ErrAllKeysFailed = errors.New("all API keys failed")

	// ErrEmptyResponse indicates the model answered with no text. The key
	// worked, so this does not trigger rotation.
	ErrEmptyResponse = errors.New("model returned an empty response")
)
