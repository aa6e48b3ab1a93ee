package component

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/mentora-app/mentora/internal/i18n"
	"github.com/mentora-app/mentora/internal/mindmap"
)

// MindMapSummary is one card in the map list.
type MindMapSummary struct {
	ID        string
	Topic     string
	CreatedAt time.Time
}

// MindMapListData is the map list page body.
type MindMapListData struct {
	Lang i18n.Lang
	Maps []MindMapSummary
}

// MindMapDetailData is one rendered map.
type MindMapDetailData struct {
	Lang      i18n.Lang
	Topic     string
	CreatedAt time.Time
	Root      *mindmap.Node
}

const dateLayout = "02/01/2006"

// MindMapListPage renders the generate form and the saved maps.
func MindMapListPage(d MindMapListData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		lang := d.Lang

		var b strings.Builder
		b.WriteString(`<div class="page">`)
		fmt.Fprintf(&b, `<h1>%s</h1>`, esc(i18n.T(lang, "mindmap.title")))

		fmt.Fprintf(&b, `<form class="chat-form" hx-post="/mindmap" hx-target="#maps" hx-swap="afterbegin" hx-disabled-elt="find button">`+
			`<input class="field" name="topic" placeholder="%s" maxlength="%d" required>`+
			`<button class="btn" type="submit">%s</button>`+
			`<span class="htmx-indicator">%s</span></form>`,
			esc(i18n.T(lang, "mindmap.placeholder")), mindmap.MaxTopicLen,
			esc(i18n.T(lang, "mindmap.generate")),
			esc(i18n.T(lang, "mindmap.generating")))

		b.WriteString(`<div class="card-grid" id="maps">`)
		if len(d.Maps) == 0 {
			fmt.Fprintf(&b, `<p class="empty-state">%s</p>`,
				esc(i18n.T(lang, "mindmap.empty")))
		}
		for _, m := range d.Maps {
			writeMindMapCard(&b, lang, m)
		}
		b.WriteString(`</div></div>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

// MindMapCard renders a single map card, used by the list page and as
// the fragment returned after generating a new map.
func MindMapCard(lang i18n.Lang, m MindMapSummary) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		writeMindMapCard(&b, lang, m)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeMindMapCard(b *strings.Builder, lang i18n.Lang, m MindMapSummary) {
	fmt.Fprintf(b, `<div class="card" id="map-%s">`, esc(m.ID))
	fmt.Fprintf(b, `<h3><a href="/mindmap/%s">%s</a></h3>`, esc(m.ID), esc(m.Topic))
	fmt.Fprintf(b, `<div class="meta">%s</div>`, m.CreatedAt.Format(dateLayout))
	fmt.Fprintf(b, `<button type="button" class="btn-ghost" hx-delete="/mindmap/%s" `+
		`hx-target="closest .card" hx-swap="outerHTML" hx-confirm="%s?">%s</button>`,
		esc(m.ID), esc(i18n.T(lang, "session.delete")), esc(i18n.T(lang, "session.delete")))
	b.WriteString(`</div>`)
}

// MindMapDetailPage renders one map as a nested outline.
func MindMapDetailPage(d MindMapDetailData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="page">`)
		fmt.Fprintf(&b, `<p><a href="/mindmap">← %s</a></p>`,
			esc(i18n.T(d.Lang, "mindmap.title")))
		fmt.Fprintf(&b, `<h1>%s</h1>`, esc(d.Topic))
		fmt.Fprintf(&b, `<p class="meta">%s</p>`, d.CreatedAt.Format(dateLayout))
		writeOutline(&b, d.Root)
		b.WriteString(`</div>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeOutline(b *strings.Builder, root *mindmap.Node) {
	if root == nil {
		return
	}
	b.WriteString(`<ul class="mindmap"><li><span class="root">`)
	b.WriteString(esc(root.Label))
	b.WriteString(`</span>`)
	writeChildren(b, root.Children)
	b.WriteString(`</li></ul>`)
}

func writeChildren(b *strings.Builder, nodes []*mindmap.Node) {
	if len(nodes) == 0 {
		return
	}
	b.WriteString(`<ul>`)
	for _, n := range nodes {
		if n == nil {
			continue
		}
		b.WriteString(`<li>`)
		b.WriteString(esc(n.Label))
		writeChildren(b, n.Children)
		b.WriteString(`</li>`)
	}
	b.WriteString(`</ul>`)
}
