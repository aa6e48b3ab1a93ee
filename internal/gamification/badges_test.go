package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mentora-app/mentora/internal/i18n"
)

func TestComputeBadges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		stats Stats
		want  []BadgeID
	}{
		{
			name:  "no activity",
			stats: Stats{},
			want:  nil,
		},
		{
			name:  "first message",
			stats: Stats{MessagesSent: 1},
			want:  []BadgeID{BadgeFirstChat},
		},
		{
			name:  "hundred messages",
			stats: Stats{MessagesSent: 100},
			want:  []BadgeID{BadgeFirstChat, BadgeChatterbox},
		},
		{
			name:  "first session only",
			stats: Stats{SessionsStarted: 1},
			want:  []BadgeID{BadgeSelfStarter},
		},
		{
			name:  "map milestones",
			stats: Stats{MindMapsCreated: 10},
			want:  []BadgeID{BadgeFirstMap, BadgeCartographer},
		},
		{
			name:  "streaks use the longest, not the current",
			stats: Stats{CurrentStreak: 1, LongestStreak: 7},
			want:  []BadgeID{BadgeWeekStreak},
		},
		{
			name: "everything",
			stats: Stats{
				MessagesSent:    150,
				MindMapsCreated: 12,
				SessionsStarted: 3,
				ResourcesAdded:  9,
				LongestStreak:   31,
			},
			want: []BadgeID{
				BadgeFirstChat, BadgeChatterbox, BadgeFirstMap, BadgeCartographer,
				BadgeBookworm, BadgeWeekStreak, BadgeMarathoner, BadgeSelfStarter,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ComputeBadges(tt.stats))
		})
	}
}

func TestAllBadges(t *testing.T) {
	t.Parallel()

	all := AllBadges()
	assert.Len(t, all, 8)

	seen := make(map[BadgeID]bool, len(all))
	for _, b := range all {
		assert.False(t, seen[b], "duplicate badge %q", b)
		seen[b] = true
	}
}

func TestBadgeLocalization(t *testing.T) {
	t.Parallel()

	for _, b := range AllBadges() {
		for _, lang := range []i18n.Lang{i18n.LangPT, i18n.LangEN} {
			assert.NotContains(t, b.Name(lang), "badge.", "badge %q missing name in %s", b, lang)
			assert.NotContains(t, b.Description(lang), "badge.", "badge %q missing description in %s", b, lang)
		}
	}
}

func TestKindPoints(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2, KindChatMessage.Points())
	assert.Equal(t, 5, KindSessionStarted.Points())
	assert.Equal(t, 10, KindMindMapCreated.Points())
	assert.Equal(t, 3, KindResourceAdded.Points())
	assert.Equal(t, 5, KindStreakDay.Points())
	assert.Equal(t, 0, Kind("bogus").Points())
}

func TestKindValid(t *testing.T) {
	t.Parallel()

	assert.True(t, KindChatMessage.Valid())
	assert.True(t, KindResourceAdded.Valid())
	assert.False(t, KindStreakDay.Valid(), "streak bonus is never recorded directly")
	assert.False(t, Kind("bogus").Valid())
}
