// Package gamification tracks study activity as points, levels, streaks
// and badges.
//
// Every rewarded action appends a point event and updates the user's
// aggregated stats row in one transaction, so totals never drift from
// the ledger. Badge awards are idempotent inserts; recording the same
// milestone twice never duplicates an award.
package gamification

import (
	"time"

	"github.com/google/uuid"
)

// Kind is a rewarded activity.
type Kind string

const (
	KindChatMessage    Kind = "chat_message"
	KindSessionStarted Kind = "session_started"
	KindMindMapCreated Kind = "mindmap_created"
	KindResourceAdded  Kind = "resource_added"

	// KindStreakDay is awarded automatically on the first activity of a
	// calendar day; callers never record it directly.
	KindStreakDay Kind = "streak_day"
)

var kindPoints = map[Kind]int{
	KindChatMessage:    2,
	KindSessionStarted: 5,
	KindMindMapCreated: 10,
	KindResourceAdded:  3,
	KindStreakDay:      5,
}

// Points returns the score value of the kind, zero for unknown kinds.
func (k Kind) Points() int {
	return kindPoints[k]
}

// Valid reports whether k is a recordable kind.
func (k Kind) Valid() bool {
	_, ok := kindPoints[k]
	return ok && k != KindStreakDay
}

// Stats is the aggregated per-user view backing the sidebar and the
// progress page.
type Stats struct {
	UserID          uuid.UUID
	Points          int
	MessagesSent    int
	MindMapsCreated int
	SessionsStarted int
	ResourcesAdded  int
	CurrentStreak   int
	LongestStreak   int
	LastActiveOn    *time.Time // calendar date, UTC
	UpdatedAt       time.Time
}

// AwardedBadge is a badge the user has earned.
type AwardedBadge struct {
	ID        BadgeID
	AwardedAt time.Time
}

// Delta describes what one recorded event changed.
type Delta struct {
	Points      int // points granted, including any streak bonus
	Total       int
	LevelBefore Level
	LevelAfter  Level
	NewBadges   []BadgeID
	StreakDay   bool // first activity of the day
}

// LeveledUp reports whether the event crossed a level threshold.
func (d Delta) LeveledUp() bool {
	return d.LevelAfter.Index > d.LevelBefore.Index
}

// dateUTC truncates t to its UTC calendar date.
func dateUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
