// Package i18n holds every user-facing string in the application.
//
// Mentora is Portuguese-first: pt-BR is the default and the fallback
// language. The web layer resolves a language per request (user profile,
// then Accept-Language); CLI surfaces use the process default set by Init.
package i18n

import (
	"fmt"
	"os"
	"strings"
)

// Lang identifies a supported UI language.
type Lang string

const (
	LangPT Lang = "pt-BR"
	LangEN Lang = "en"
)

// defaultLang is the process-wide language for CLI/TUI output.
var defaultLang = LangPT

var messages = map[Lang]map[string]string{
	LangPT: messagesPT,
	LangEN: messagesEN,
}

// Init sets the process default language. Empty input consults
// MENTORA_LANG and finally stays on pt-BR.
func Init(lang string) {
	if lang == "" {
		lang = os.Getenv("MENTORA_LANG")
	}
	defaultLang = Parse(lang)
}

// Default returns the process default language.
func Default() Lang {
	return defaultLang
}

// Parse normalizes a language tag. Unknown tags map to pt-BR.
func Parse(lang string) Lang {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "en", "en-us", "en-gb", "english":
		return LangEN
	case "pt", "pt-br", "pt_br", "portuguese", "português":
		return LangPT
	default:
		return LangPT
	}
}

// Supported lists the languages with full catalogs.
func Supported() []Lang {
	return []Lang{LangPT, LangEN}
}

// T returns the message for key in lang, falling back to pt-BR and
// finally to the key itself so a missing entry stays visible.
func T(lang Lang, key string) string {
	if msg, ok := messages[lang][key]; ok {
		return msg
	}
	if msg, ok := messages[LangPT][key]; ok {
		return msg
	}
	return key
}

// Tf formats the message for key with fmt.Sprintf.
func Tf(lang Lang, key string, args ...any) string {
	return fmt.Sprintf(T(lang, key), args...)
}
