// Package session provides study-session persistence with PostgreSQL.
//
// A session is one conversation between a student and the mentor,
// holding ordered user/model messages. The [Store] handles persistence;
// the chat service owns the conversation logic.
//
// The CLI keeps a pointer to the active session in a local state file,
// written atomically under a file lock (see [SaveState]).
package session

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound indicates the requested session does not exist or belongs
// to another user.
var ErrNotFound = errors.New("session not found")

// History limits for loading transcripts into model calls.
const (
	// DefaultHistoryLimit is the number of messages loaded when the
	// caller does not say otherwise.
	DefaultHistoryLimit int32 = 100

	// MaxHistoryLimit caps a single load to keep memory bounded.
	MaxHistoryLimit int32 = 1000
)

// MaxTitleLen bounds stored session titles.
const MaxTitleLen = 80

// Session is one conversation between a user and the mentor.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	Archived  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Message is a single stored conversation turn.
type Message struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	Role      string // "user" | "model"
	Content   string
	CreatedAt time.Time
}

// NormalizeHistoryLimit clamps limit into the allowed range, using the
// default for zero or negative values.
func NormalizeHistoryLimit(limit int32) int32 {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return limit
}

// DeriveTitle builds a session title from the first user message:
// first line, trimmed, cut at a word boundary near MaxTitleLen.
func DeriveTitle(text string) string {
	line := text
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}

	runes := []rune(line)
	if len(runes) <= MaxTitleLen {
		return line
	}

	cut := string(runes[:MaxTitleLen])
	if i := strings.LastIndexByte(cut, ' '); i > MaxTitleLen/2 {
		cut = cut[:i]
	}
	return cut + "…"
}
