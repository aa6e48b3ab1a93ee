package gamification

import (
	"fmt"

	"github.com/mentora-app/mentora/internal/i18n"
)

// BadgeID identifies a badge. Names and descriptions live in the i18n
// catalog under badge.<id>.name and badge.<id>.desc.
type BadgeID string

const (
	BadgeFirstChat    BadgeID = "first_chat"
	BadgeChatterbox   BadgeID = "chatterbox"
	BadgeFirstMap     BadgeID = "first_map"
	BadgeCartographer BadgeID = "cartographer"
	BadgeBookworm     BadgeID = "bookworm"
	BadgeWeekStreak   BadgeID = "week_streak"
	BadgeMarathoner   BadgeID = "marathoner"
	BadgeSelfStarter  BadgeID = "self_starter"
)

// Name resolves the localized badge name.
func (b BadgeID) Name(lang i18n.Lang) string {
	return i18n.T(lang, fmt.Sprintf("badge.%s.name", b))
}

// Description resolves the localized badge description.
func (b BadgeID) Description(lang i18n.Lang) string {
	return i18n.T(lang, fmt.Sprintf("badge.%s.desc", b))
}

// badgeRules maps each badge to its earning condition. Longest streak
// counts for streak badges, so losing a streak never loses the badge.
var badgeRules = []struct {
	id   BadgeID
	earn func(Stats) bool
}{
	{BadgeFirstChat, func(s Stats) bool { return s.MessagesSent >= 1 }},
	{BadgeChatterbox, func(s Stats) bool { return s.MessagesSent >= 100 }},
	{BadgeFirstMap, func(s Stats) bool { return s.MindMapsCreated >= 1 }},
	{BadgeCartographer, func(s Stats) bool { return s.MindMapsCreated >= 10 }},
	{BadgeBookworm, func(s Stats) bool { return s.ResourcesAdded >= 5 }},
	{BadgeWeekStreak, func(s Stats) bool { return s.LongestStreak >= 7 }},
	{BadgeMarathoner, func(s Stats) bool { return s.LongestStreak >= 30 }},
	{BadgeSelfStarter, func(s Stats) bool { return s.SessionsStarted >= 1 }},
}

// AllBadges lists every badge in display order.
func AllBadges() []BadgeID {
	out := make([]BadgeID, len(badgeRules))
	for i, r := range badgeRules {
		out[i] = r.id
	}
	return out
}

// ComputeBadges returns every badge the stats have earned.
func ComputeBadges(s Stats) []BadgeID {
	var earned []BadgeID
	for _, r := range badgeRules {
		if r.earn(s) {
			earned = append(earned, r.id)
		}
	}
	return earned
}
