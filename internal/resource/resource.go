// Package resource collects study material from the web.
//
// A resource is a bookmarked page reduced to its readable core: title,
// site name and a short excerpt. Extraction runs go-readability first
// and falls back to a plain HTML walk when a page defeats it. The
// crawler imports whole documentation sites in one command, but never
// leaves the host it started on.
package resource

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Fetch and crawl limits. Pages are untrusted input.
const (
	// MaxBodyBytes caps how much of a page is read.
	MaxBodyBytes = 2 << 20

	// FetchTimeout bounds one page fetch.
	FetchTimeout = 15 * time.Second

	// MaxExcerptRunes caps the stored excerpt.
	MaxExcerptRunes = 300

	// UserAgent identifies the fetcher to remote sites.
	UserAgent = "Mentora/1.0 (+https://mentora.app)"
)

// Sentinel errors for fetching and storage.
var (
	// ErrInvalidURL indicates the URL is malformed or not http(s).
	ErrInvalidURL = errors.New("invalid resource URL")

	// ErrBlockedURL indicates the URL targets a private or internal
	// network address.
	ErrBlockedURL = errors.New("resource URL is not publicly reachable")

	// ErrNotHTML indicates the page is not an HTML document.
	ErrNotHTML = errors.New("resource is not an HTML page")

	// ErrDuplicate indicates the user already saved this URL.
	ErrDuplicate = errors.New("resource already saved")

	// ErrNotFound indicates the resource does not exist or belongs
	// to another user.
	ErrNotFound = errors.New("resource not found")
)

// Extract is the readable core of one fetched page.
type Extract struct {
	URL      string
	Title    string
	SiteName string
	Excerpt  string
	Text     string
}

// Resource is a stored bookmark.
type Resource struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	URL       string
	Title     string
	SiteName  string
	Excerpt   string
	CreatedAt time.Time
}
