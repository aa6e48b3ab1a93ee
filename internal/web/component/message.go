package component

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/mentora-app/mentora/internal/i18n"
)

// Message is one rendered conversation turn.
type Message struct {
	ID   string
	Role string // "user" | "model"
	Text string
}

// ChatData is everything the chat page body needs.
type ChatData struct {
	Lang        i18n.Lang
	CSRFToken   string
	SessionID   string
	Title       string
	Archived    bool
	DisplayName string
	Messages    []Message
}

// ChatPage renders the conversation pane: header, transcript, composer.
func ChatPage(d ChatData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="chat-pane">`)
		if d.SessionID != "" {
			writeChatHeader(&b, d)
		}

		b.WriteString(`<div id="messages">`)
		if len(d.Messages) == 0 {
			welcome := Message{ID: "welcome", Role: "model", Text: i18n.T(d.Lang, "chat.welcome")}
			writeBubble(&b, "M", welcome, false)
		}
		for _, m := range d.Messages {
			writeBubble(&b, avatarFor(d, m), m, false)
		}
		b.WriteString(`</div>`)

		writeChatInput(&b, d.Lang, d.SessionID)
		b.WriteString(`</div>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

// MessageBubble renders one finished message.
func MessageBubble(d ChatData, m Message) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		writeBubble(&b, avatarFor(d, m), m, false)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// FinalBubbleOOB renders the finished mentor message as an out-of-band
// replacement for the streaming shell with the same id. Swapping the
// shell away removes its sse-connect element, which closes the stream.
func FinalBubbleOOB(m Message) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		writeBubble(&b, "M", m, true)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// ErrorBubbleOOB replaces the streaming shell with a localized error.
func ErrorBubbleOOB(msgID, text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div class="msg msg-model msg-error" id="msg-%s" hx-swap-oob="outerHTML">`+
				`<div class="msg-avatar" aria-hidden="true">!</div>`+
				`<div class="msg-content">%s</div></div>`,
			esc(msgID), esc(text))
		return err
	})
}

// StreamShell renders the assistant placeholder that connects to the
// SSE stream. Chunk events replace the typing indicator with the
// accumulated answer; the done event swaps the whole shell away.
func StreamShell(lang i18n.Lang, msgID, streamURL string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div class="msg msg-model" id="msg-%[1]s" hx-ext="sse" sse-connect="%[2]s" sse-close="done">`+
				`<div class="msg-avatar" aria-hidden="true">M</div>`+
				`<div class="msg-content" id="msg-content-%[1]s" sse-swap="chunk" hx-swap="innerHTML">`+
				`<span class="typing">%[3]s</span></div>`+
				`<span class="sse-sink" sse-swap="done,error" hx-swap="none" aria-hidden="true"></span>`+
				`</div>`,
			esc(msgID), esc(streamURL), esc(i18n.T(lang, "chat.thinking")))
		return err
	})
}

// SessionIDInputOOB retargets the composer at the session the stream
// just created, so the next message lands in the same conversation.
func SessionIDInputOOB(id string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<input type="hidden" id="chat-session-id" name="session_id" value="%s" hx-swap-oob="outerHTML">`,
			esc(id))
		return err
	})
}

func avatarFor(d ChatData, m Message) string {
	if m.Role != "user" {
		return "M"
	}
	name := d.DisplayName
	if name == "" {
		name = i18n.T(d.Lang, "profile.guest")
	}
	return initials(name)
}

func writeBubble(b *strings.Builder, avatar string, m Message, oob bool) {
	cls := "msg msg-model"
	if m.Role == "user" {
		cls = "msg msg-user"
	}
	fmt.Fprintf(b, `<div class="%s" id="msg-%s"`, cls, esc(m.ID))
	if oob {
		b.WriteString(` hx-swap-oob="outerHTML"`)
	}
	fmt.Fprintf(b, `><div class="msg-avatar" aria-hidden="true">%s</div>`, esc(avatar))
	fmt.Fprintf(b, `<div class="msg-content" id="msg-content-%s">%s</div></div>`,
		esc(m.ID), esc(m.Text))
}

func writeChatHeader(b *strings.Builder, d ChatData) {
	lang := d.Lang
	b.WriteString(`<div class="chat-header">`)

	// Plain form on purpose: rename works without htmx via the
	// method-override field.
	fmt.Fprintf(b, `<form class="inline-form" method="post" action="/sessions/%s">`+
		`<input type="hidden" name="_method" value="PUT">`+
		`<input type="hidden" name="csrf_token" value="%s">`+
		`<input class="field title-input" name="title" value="%s" maxlength="80" aria-label="%s">`+
		`<button class="btn-ghost" type="submit">%s</button></form>`,
		esc(d.SessionID), esc(d.CSRFToken), esc(d.Title),
		esc(i18n.T(lang, "session.rename")), esc(i18n.T(lang, "session.rename")))

	archived := "true"
	if d.Archived {
		archived = "false"
	}
	fmt.Fprintf(b, `<form class="inline-form" method="post" action="/sessions/%s/archive">`+
		`<input type="hidden" name="csrf_token" value="%s">`+
		`<input type="hidden" name="archived" value="%s">`+
		`<button class="btn-ghost" type="submit">%s</button></form>`,
		esc(d.SessionID), esc(d.CSRFToken), archived,
		esc(i18n.T(lang, "session.archive")))

	fmt.Fprintf(b, `<button type="button" class="btn-ghost" hx-delete="/sessions/%s" hx-confirm="%s?">%s</button>`,
		esc(d.SessionID), esc(i18n.T(lang, "session.delete")),
		esc(i18n.T(lang, "session.delete")))

	b.WriteString(`</div>`)
}

func writeChatInput(b *strings.Builder, lang i18n.Lang, sessionID string) {
	fmt.Fprintf(b, `<form class="chat-form" id="chat-form" hx-post="/chat/send" hx-target="#messages" hx-swap="beforeend">`+
		`<input type="hidden" id="chat-session-id" name="session_id" value="%s">`+
		`<textarea name="q" placeholder="%s" rows="1" required></textarea>`+
		`<button class="btn" type="submit">%s</button></form>`,
		esc(sessionID), esc(i18n.T(lang, "chat.placeholder")),
		esc(i18n.T(lang, "chat.send")))
}
