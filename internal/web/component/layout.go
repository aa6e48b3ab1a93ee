package component

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/mentora-app/mentora/internal/i18n"
)

// htmx and its SSE extension are pinned so the CSP can allow exactly
// this origin and the SRI-free CDN URL stays stable.
const (
	htmxSrc    = "https://unpkg.com/htmx.org@1.9.12/dist/htmx.min.js"
	htmxSSESrc = "https://unpkg.com/htmx.org@1.9.12/dist/ext/sse.js"
)

// Shell carries everything the page frame needs: the language, the
// CSRF token injected into every htmx request, and the sidebar state.
type Shell struct {
	Lang      i18n.Lang
	Title     string
	Active    string // nav key: chat, mindmap, resources, progress
	CSRFToken string

	SidebarOpen   bool
	DisplayName   string
	Sessions      []SessionItem
	ActiveSession string
	Stats         StatsSummary
}

// SessionItem is one entry in the recent-conversations list.
type SessionItem struct {
	ID    string
	Title string
}

// StatsSummary is the condensed progress block shown in the sidebar
// and the navbar chip.
type StatsSummary struct {
	Points    int
	LevelName string
	// Progress is the percentage toward the next level, 100 at the top.
	Progress int
	// Remaining is how many points the next level still needs, 0 at the top.
	Remaining int
	NextName  string
	Streak    int
}

// Layout renders the full HTML document around body.
func Layout(shell Shell, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		lang := shell.Lang
		if lang == "" {
			lang = i18n.Default()
		}

		title := i18n.T(lang, "app.name")
		if shell.Title != "" {
			title = shell.Title + " · " + title
		}

		var b strings.Builder
		b.WriteString("<!doctype html>\n")
		fmt.Fprintf(&b, `<html lang="%s">`, esc(string(lang)))
		b.WriteString(`<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		fmt.Fprintf(&b, `<title>%s</title>`, esc(title))
		b.WriteString(`<link rel="stylesheet" href="/static/css/app.css">`)
		fmt.Fprintf(&b, `<script src="%s" defer></script>`, htmxSrc)
		fmt.Fprintf(&b, `<script src="%s" defer></script>`, htmxSSESrc)
		b.WriteString(`<script src="/static/js/app.js" defer></script>`)
		b.WriteString(`</head>`)

		// Every htmx request inherits the CSRF header from the body tag.
		fmt.Fprintf(&b, `<body hx-headers="%s">`,
			esc(fmt.Sprintf(`{"X-CSRF-Token":%q}`, shell.CSRFToken)))

		if err := Navbar(shell).Render(ctx, &b); err != nil {
			return err
		}

		b.WriteString(`<div class="shell">`)
		if err := Sidebar(shell).Render(ctx, &b); err != nil {
			return err
		}
		b.WriteString(`<main class="main" id="main">`)
		if err := body.Render(ctx, &b); err != nil {
			return err
		}
		b.WriteString(`</main></div>`)
		b.WriteString(`<div id="toasts"></div>`)
		b.WriteString(`</body></html>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}
