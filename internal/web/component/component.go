// Package component holds the server-rendered views of the web UI.
//
// Every component implements templ.Component and escapes its dynamic
// content; strings coming from users or from the model are never
// written raw. Fragments meant for htmx out-of-band swaps carry their
// hx-swap-oob attribute here, so handlers only decide what to send.
package component

import (
	"strings"

	"github.com/a-h/templ"
)

func esc(s string) string { return templ.EscapeString(s) }

// initials returns up to two uppercase initials for the avatar circle.
func initials(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "?"
	}
	out := firstRune(fields[0])
	if len(fields) > 1 {
		out += firstRune(fields[len(fields)-1])
	}
	// Uppercasing can expand a rune (ß becomes SS), so clamp after.
	runes := []rune(strings.ToUpper(out))
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return string(runes)
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
