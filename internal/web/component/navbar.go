package component

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/mentora-app/mentora/internal/i18n"
)

// Navbar renders the top bar: sidebar toggle, brand and the level chip.
func Navbar(shell Shell) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		toggleLabel := i18n.T(shell.Lang, "sidebar.close")
		if !shell.SidebarOpen {
			toggleLabel = i18n.T(shell.Lang, "sidebar.open")
		}

		var b strings.Builder
		b.WriteString(`<header class="navbar">`)

		// The server flips the cookie, app.js flips the class; the two
		// agree again on the next full page load. No inline handler so
		// the CSP can stay strict.
		fmt.Fprintf(&b, `<button type="button" class="btn-ghost" aria-label="%s" `+
			`data-toggle="sidebar" hx-post="/web/sidebar" hx-swap="none">☰</button>`,
			esc(toggleLabel))

		fmt.Fprintf(&b, `<a class="brand" href="/">%s</a>`,
			esc(i18n.T(shell.Lang, "app.name")))

		fmt.Fprintf(&b, `<span class="level-chip" id="level-chip">%s · %d %s</span>`,
			esc(shell.Stats.LevelName),
			shell.Stats.Points,
			esc(i18n.T(shell.Lang, "stats.points")))

		b.WriteString(`</header>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}
