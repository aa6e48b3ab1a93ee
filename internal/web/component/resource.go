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

// ResourceItem is one saved bookmark card.
type ResourceItem struct {
	ID        string
	URL       string
	Host      string
	Title     string
	Excerpt   string
	CreatedAt time.Time
}

// ResourcesData is the resources page body.
type ResourcesData struct {
	Lang      i18n.Lang
	Resources []ResourceItem
}

// ResourcesPage renders the add form and the saved resources.
func ResourcesPage(d ResourcesData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		lang := d.Lang

		var b strings.Builder
		b.WriteString(`<div class="page">`)
		fmt.Fprintf(&b, `<h1>%s</h1>`, esc(i18n.T(lang, "resources.title")))

		fmt.Fprintf(&b, `<form class="chat-form" hx-post="/resources" hx-target="#resources" hx-swap="afterbegin" hx-disabled-elt="find button">`+
			`<input class="field" type="url" name="url" placeholder="%s" required>`+
			`<button class="btn" type="submit">%s</button>`+
			`<span class="htmx-indicator">…</span></form>`,
			esc(i18n.T(lang, "resources.placeholder")),
			esc(i18n.T(lang, "resources.add")))

		b.WriteString(`<div class="card-grid" id="resources">`)
		if len(d.Resources) == 0 {
			fmt.Fprintf(&b, `<p class="empty-state">%s</p>`,
				esc(i18n.T(lang, "resources.empty")))
		}
		for _, r := range d.Resources {
			writeResourceCard(&b, lang, r)
		}
		b.WriteString(`</div></div>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

// ResourceCard renders a single bookmark card, also used as the
// fragment returned after saving a new resource.
func ResourceCard(lang i18n.Lang, r ResourceItem) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		writeResourceCard(&b, lang, r)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeResourceCard(b *strings.Builder, lang i18n.Lang, r ResourceItem) {
	title := r.Title
	if title == "" {
		title = r.Host
	}
	fmt.Fprintf(b, `<div class="card" id="resource-%s">`, esc(r.ID))
	fmt.Fprintf(b, `<h3>%s</h3>`, esc(title))
	fmt.Fprintf(b, `<div class="meta">%s · %s</div>`, esc(r.Host), r.CreatedAt.Format(dateLayout))
	if r.Excerpt != "" {
		fmt.Fprintf(b, `<p class="excerpt">%s</p>`, esc(r.Excerpt))
	}
	fmt.Fprintf(b, `<a href="%s" target="_blank" rel="noopener noreferrer">%s</a> `,
		esc(r.URL), esc(i18n.T(lang, "resources.open")))
	fmt.Fprintf(b, `<button type="button" class="btn-ghost" hx-delete="/resources/%s" `+
		`hx-target="closest .card" hx-swap="outerHTML" hx-confirm="%s?">%s</button>`,
		esc(r.ID), esc(i18n.T(lang, "resources.remove")), esc(i18n.T(lang, "resources.remove")))
	b.WriteString(`</div>`)
}
