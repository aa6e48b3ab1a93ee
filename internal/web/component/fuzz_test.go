package component

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/mentora-app/mentora/internal/i18n"
)

// FuzzBubbleEscaping renders a message bubble with arbitrary text and
// checks the input never contributes raw markup. The oracle: every "<"
// in the output belongs to the bubble's own tags, so the count must not
// change with the input.
func FuzzBubbleEscaping(f *testing.F) {
	seeds := []string{
		"",
		"olá, mentora!",
		`<script>alert(1)</script>`,
		`<img src=x onerror=alert(1)>`,
		`"onmouseover="alert(1)`,
		"a < b && b > c",
		"linha um\nlinha dois",
		"crase ` e aspas ' \" misturadas",
		"emoji 🎓 e acentos çãõ",
		strings.Repeat("<", 500),
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	var empty bytes.Buffer
	d := ChatData{Lang: i18n.LangPT, DisplayName: "Ana"}
	if err := MessageBubble(d, Message{ID: "fuzz", Role: "user"}).Render(context.Background(), &empty); err != nil {
		f.Fatalf("render baseline: %v", err)
	}
	baseline := strings.Count(empty.String(), "<")

	f.Fuzz(func(t *testing.T, text string) {
		var buf bytes.Buffer
		err := MessageBubble(d, Message{ID: "fuzz", Role: "user", Text: text}).Render(context.Background(), &buf)
		if err != nil {
			t.Fatalf("render: %v", err)
		}

		html := buf.String()
		if got := strings.Count(html, "<"); got != baseline {
			t.Errorf("input %q leaked %d raw tag openers into the output", text, got-baseline)
		}
		if strings.Count(html, `"`) != strings.Count(empty.String(), `"`) {
			t.Errorf("input %q leaked raw quotes into an attribute context", text)
		}
	})
}

// FuzzInitials checks the avatar initials never panic and always yield
// at most two uppercase runes, with "?" for blank input.
func FuzzInitials(f *testing.F) {
	seeds := []string{
		"",
		"   ",
		"Ana",
		"Ana Souza",
		"joão pedro da silva",
		"世界",
		"émile zola",
		"🎉 Ana",
		"\t\n",
		strings.Repeat("a", 1000),
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, name string) {
		got := initials(name)
		if got == "" {
			t.Errorf("initials(%q) returned empty string", name)
		}

		runes := 0
		for range got {
			runes++
		}
		if runes > 2 {
			t.Errorf("initials(%q) = %q, more than two runes", name, got)
		}

		if strings.TrimSpace(name) == "" && got != "?" {
			t.Errorf("initials(%q) = %q, want ? for blank input", name, got)
		}
		if got != strings.ToUpper(got) {
			t.Errorf("initials(%q) = %q, not uppercase", name, got)
		}
	})
}
