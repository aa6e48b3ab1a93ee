package tui

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/mentora-app/mentora/internal/i18n"
)

// Brand colors, matching the web theme.
const (
	brandViolet = "#7c3aed"
	brandAmber  = "#f59e0b"
	brandGreen  = "#16a34a"
	brandRed    = "#dc2626"
)

// Mentora wordmark shown at the top of the transcript.
var bannerArt = []string{
	"███╗   ███╗███████╗███╗   ██╗████████╗ ██████╗ ██████╗  █████╗ ",
	"████╗ ████║██╔════╝████╗  ██║╚══██╔══╝██╔═══██╗██╔══██╗██╔══██╗",
	"██╔████╔██║█████╗  ██╔██╗ ██║   ██║   ██║   ██║██████╔╝███████║",
	"██║╚██╔╝██║██╔══╝  ██║╚██╗██║   ██║   ██║   ██║██╔══██╗██╔══██║",
	"██║ ╚═╝ ██║███████╗██║ ╚████║   ██║   ╚██████╔╝██║  ██║██║  ██║",
	"╚═╝     ╚═╝╚══════╝╚═╝  ╚═══╝   ╚═╝    ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝",
}

// Styles contains the lipgloss styles for the chat screen.
type Styles struct {
	Banner    lipgloss.Style
	User      lipgloss.Style
	Mentor    lipgloss.Style
	System    lipgloss.Style
	Tips      lipgloss.Style
	Error     lipgloss.Style
	Prompt    lipgloss.Style
	Separator lipgloss.Style
	Stats     lipgloss.Style
	StatusBar lipgloss.Style
}

// DefaultStyles returns the default style configuration.
func DefaultStyles() Styles {
	return Styles{
		Banner:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(brandViolet)),
		User:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(brandGreen)),
		Mentor:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(brandViolet)),
		System:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("240")),
		Tips:      lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color(brandRed)),
		Prompt:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(brandGreen)),
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Stats:     lipgloss.NewStyle().Foreground(lipgloss.Color(brandAmber)),
		StatusBar: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	}
}

// RenderBanner returns the styled wordmark.
func (s Styles) RenderBanner() string {
	var b strings.Builder
	for _, line := range bannerArt {
		_, _ = b.WriteString(s.Banner.Render(line))
		_, _ = b.WriteString("\n")
	}
	return b.String()
}

// Keys of the getting-started tips, in display order.
var tipKeys = []string{
	"tui.tips.title",
	"tui.tips.ask",
	"tui.tips.new",
	"tui.tips.history",
	"tui.tips.quit",
}

// RenderWelcomeTips returns the localized tips shown under the banner.
func (s Styles) RenderWelcomeTips(lang i18n.Lang) string {
	var b strings.Builder
	for _, key := range tipKeys {
		_, _ = b.WriteString(s.Tips.Render(i18n.T(lang, key)))
		_, _ = b.WriteString("\n")
	}
	return b.String()
}
