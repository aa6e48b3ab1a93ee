package component

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/mentora-app/mentora/internal/i18n"
)

// BadgeView is one badge in the grid, earned or still locked.
type BadgeView struct {
	ID        string
	Name      string
	Desc      string
	Earned    bool
	AwardedAt time.Time
}

// ActivityCounts are the lifetime counters under the progress block.
type ActivityCounts struct {
	Messages      int
	MindMaps      int
	Resources     int
	LongestStreak int
}

// ProgressData is the progress page body.
type ProgressData struct {
	Lang   i18n.Lang
	Stats  StatsSummary
	Counts ActivityCounts
	Badges []BadgeView
}

var badgeIcons = map[string]string{
	"first_chat":   "💬",
	"chatterbox":   "🗣️",
	"first_map":    "🗺️",
	"cartographer": "🧭",
	"bookworm":     "📚",
	"week_streak":  "🔥",
	"marathoner":   "🏃",
	"self_starter": "🌱",
}

// ProgressPage renders points, level progress and the badge grid.
func ProgressPage(d ProgressData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		lang := d.Lang

		var b strings.Builder
		b.WriteString(`<div class="page">`)
		fmt.Fprintf(&b, `<h1>%s</h1>`, esc(i18n.T(lang, "stats.title")))

		b.WriteString(`<div class="card">`)
		fmt.Fprintf(&b, `<div><span class="points">%d</span> %s · %s %s</div>`,
			d.Stats.Points, esc(i18n.T(lang, "stats.points")),
			esc(i18n.T(lang, "stats.level")), esc(d.Stats.LevelName))
		fmt.Fprintf(&b, `<div class="progress-track"><div class="progress-fill" style="width: %d%%"></div></div>`,
			clampPct(d.Stats.Progress))
		if d.Stats.Remaining > 0 {
			fmt.Fprintf(&b, `<div class="meta">%s</div>`,
				esc(i18n.Tf(lang, "stats.next.level", d.Stats.Remaining, d.Stats.NextName)))
		} else {
			fmt.Fprintf(&b, `<div class="meta">%s</div>`,
				esc(i18n.T(lang, "stats.max.level")))
		}
		if d.Stats.Streak > 0 {
			fmt.Fprintf(&b, `<div class="streak">🔥 %s</div>`,
				esc(i18n.Tf(lang, "stats.streak.days", d.Stats.Streak)))
		}

		fmt.Fprintf(&b, `<p class="meta">%s: %d · %s: %d · %s: %d</p>`,
			esc(i18n.T(lang, "nav.chat")), d.Counts.Messages,
			esc(i18n.T(lang, "nav.mindmap")), d.Counts.MindMaps,
			esc(i18n.T(lang, "nav.resources")), d.Counts.Resources)
		b.WriteString(`</div>`)

		fmt.Fprintf(&b, `<h2>%s</h2>`, esc(i18n.T(lang, "stats.badges")))
		if !anyEarned(d.Badges) {
			fmt.Fprintf(&b, `<p class="empty-state">%s</p>`,
				esc(i18n.T(lang, "stats.badges.empty")))
		}
		b.WriteString(`<div class="badge-grid">`)
		for _, badge := range d.Badges {
			writeBadgeCard(&b, badge)
		}
		b.WriteString(`</div></div>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeBadgeCard(b *strings.Builder, badge BadgeView) {
	cls := "badge-card"
	if !badge.Earned {
		cls += " locked"
	}
	icon := badgeIcons[badge.ID]
	if icon == "" {
		icon = "⭐"
	}
	fmt.Fprintf(b, `<div class="%s" id="badge-%s">`, cls, esc(badge.ID))
	fmt.Fprintf(b, `<div class="icon" aria-hidden="true">%s</div>`, icon)
	fmt.Fprintf(b, `<div class="name">%s</div>`, esc(badge.Name))
	fmt.Fprintf(b, `<div class="desc">%s</div>`, esc(badge.Desc))
	if badge.Earned && !badge.AwardedAt.IsZero() {
		fmt.Fprintf(b, `<div class="meta">%s</div>`, badge.AwardedAt.Format(dateLayout))
	}
	b.WriteString(`</div>`)
}

func anyEarned(badges []BadgeView) bool {
	for _, badge := range badges {
		if badge.Earned {
			return true
		}
	}
	return false
}
