package component

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/mentora-app/mentora/internal/i18n"
)

var navItems = []struct {
	key  string
	href string
	icon string
}{
	{"chat", "/chat", "💬"},
	{"mindmap", "/mindmap", "🗺️"},
	{"resources", "/resources", "📚"},
	{"progress", "/progress", "🏆"},
}

// Sidebar renders the navigation sidebar with the recent conversations,
// the progress block and the profile form.
func Sidebar(shell Shell) templ.Component {
	return sidebar(shell, false)
}

// SidebarOOB renders the sidebar as an htmx out-of-band replacement,
// used by the chat stream to refresh titles and points mid-page.
func SidebarOOB(shell Shell) templ.Component {
	return sidebar(shell, true)
}

func sidebar(shell Shell, oob bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		lang := shell.Lang

		class := "sidebar"
		if !shell.SidebarOpen {
			class += " collapsed"
		}
		var b strings.Builder
		fmt.Fprintf(&b, `<aside class="%s" id="sidebar"`, class)
		if oob {
			b.WriteString(` hx-swap-oob="outerHTML"`)
		}
		b.WriteString(`>`)

		b.WriteString(`<nav class="sidebar-nav">`)
		for _, it := range navItems {
			cls := "nav-link"
			if shell.Active == it.key {
				cls += " active"
			}
			fmt.Fprintf(&b, `<a class="%s" href="%s"><span aria-hidden="true">%s</span>%s</a>`,
				cls, it.href, it.icon, esc(i18n.T(lang, "nav."+it.key)))
		}
		b.WriteString(`</nav>`)

		b.WriteString(`<div class="sidebar-section">`)
		fmt.Fprintf(&b, `<a class="btn" href="/chat?new=1">%s</a>`,
			esc(i18n.T(lang, "sidebar.new")))
		fmt.Fprintf(&b, `<h3>%s</h3>`, esc(i18n.T(lang, "sidebar.recent")))
		if len(shell.Sessions) == 0 {
			fmt.Fprintf(&b, `<p class="empty-state">%s</p>`,
				esc(i18n.T(lang, "sidebar.empty")))
		} else {
			b.WriteString(`<ul class="session-list" id="session-list">`)
			for _, s := range shell.Sessions {
				title := s.Title
				if title == "" {
					title = i18n.T(lang, "chat.untitled")
				}
				cls := "session-item"
				if s.ID == shell.ActiveSession {
					cls += " active"
				}
				fmt.Fprintf(&b, `<li class="%s"><a href="/chat/%s" title="%s">%s</a></li>`,
					cls, esc(s.ID), esc(title), esc(title))
			}
			b.WriteString(`</ul>`)
		}
		b.WriteString(`</div>`)

		writeStatsBlock(&b, lang, shell.Stats)
		writeProfileBlock(&b, lang, shell.DisplayName)

		b.WriteString(`</aside>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeStatsBlock(b *strings.Builder, lang i18n.Lang, s StatsSummary) {
	b.WriteString(`<div class="stats-block" id="sidebar-stats">`)
	fmt.Fprintf(b, `<div><span class="points">%d</span> %s</div>`,
		s.Points, esc(i18n.T(lang, "stats.points")))
	fmt.Fprintf(b, `<div>%s %s</div>`,
		esc(i18n.T(lang, "stats.level")), esc(s.LevelName))
	fmt.Fprintf(b, `<div class="progress-track"><div class="progress-fill" style="width: %d%%"></div></div>`,
		clampPct(s.Progress))
	if s.Remaining > 0 {
		fmt.Fprintf(b, `<div class="meta">%s</div>`,
			esc(i18n.Tf(lang, "stats.next.level", s.Remaining, s.NextName)))
	} else {
		fmt.Fprintf(b, `<div class="meta">%s</div>`,
			esc(i18n.T(lang, "stats.max.level")))
	}
	if s.Streak > 0 {
		fmt.Fprintf(b, `<div class="streak">🔥 %s</div>`,
			esc(i18n.Tf(lang, "stats.streak.days", s.Streak)))
	}
	b.WriteString(`</div>`)
}

func writeProfileBlock(b *strings.Builder, lang i18n.Lang, name string) {
	display := name
	if display == "" {
		display = i18n.T(lang, "profile.guest")
	}
	b.WriteString(`<div class="profile-block">`)
	fmt.Fprintf(b, `<div class="msg-avatar" aria-hidden="true">%s</div>`, esc(initials(display)))
	fmt.Fprintf(b, `<form hx-post="/web/profile" hx-target="#sidebar" hx-swap="outerHTML">`+
		`<input class="field" name="display_name" value="%s" placeholder="%s" maxlength="60">`+
		`<button class="btn-ghost" type="submit">%s</button></form>`,
		esc(name), esc(i18n.T(lang, "profile.edit")), esc(i18n.T(lang, "profile.save")))
	b.WriteString(`</div>`)
}

func clampPct(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
