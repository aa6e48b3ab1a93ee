package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/mentora-app/mentora/internal/i18n"
)

// View implements tea.Model. The transcript scrolls in the viewport;
// everything below it is a fixed footer.
func (m *Model) View() tea.View {
	m.viewBuf.Reset()

	_, _ = m.viewBuf.WriteString(m.viewport.View())
	_, _ = m.viewBuf.WriteString("\n")

	_, _ = m.viewBuf.WriteString(m.renderSeparator())
	_, _ = m.viewBuf.WriteString("\n")

	// The prompt stays visible while the mentor answers so the next
	// question can be typed ahead.
	_, _ = m.viewBuf.WriteString(m.styles.Prompt.Render("> "))
	_, _ = m.viewBuf.WriteString(m.input.View())
	_, _ = m.viewBuf.WriteString("\n")

	_, _ = m.viewBuf.WriteString(m.renderSeparator())
	_, _ = m.viewBuf.WriteString("\n")

	_, _ = m.viewBuf.WriteString(m.styles.Stats.Render(m.statsLine))
	_, _ = m.viewBuf.WriteString("\n")

	_, _ = m.viewBuf.WriteString(m.renderStatusBar())

	v := tea.NewView(m.viewBuf.String())
	v.AltScreen = true
	return v
}

// rebuildViewportContent reconstructs the transcript from messages and
// the in-flight stream.
func (m *Model) rebuildViewportContent() {
	var b strings.Builder

	_, _ = b.WriteString(m.styles.RenderBanner())
	_, _ = b.WriteString("\n")
	_, _ = b.WriteString(m.styles.RenderWelcomeTips(m.lang))
	_, _ = b.WriteString("\n")

	youLabel := i18n.T(m.lang, "tui.you") + "> "
	mentorLabel := i18n.T(m.lang, "tui.mentor") + "> "

	for _, msg := range m.messages {
		switch msg.Role {
		case roleUser:
			_, _ = b.WriteString(m.styles.User.Render(youLabel))
			_, _ = b.WriteString(msg.Text)
		case roleMentor:
			_, _ = b.WriteString(m.styles.Mentor.Render(mentorLabel))
			_, _ = b.WriteString(m.markdown.Render(msg.Text))
		case roleSystem:
			_, _ = b.WriteString(m.styles.System.Render(msg.Text))
		case roleError:
			_, _ = b.WriteString(m.styles.Error.Render(msg.Text))
		}
		_, _ = b.WriteString("\n\n")
	}

	// Chunks render as plain text until the reply is complete; partial
	// Markdown looks worse than none.
	if m.state == stateStreaming && m.output.Len() > 0 {
		_, _ = b.WriteString(m.styles.Mentor.Render(mentorLabel))
		_, _ = b.WriteString(m.output.String())
		_, _ = b.WriteString("\n\n")
	}

	if m.state == stateThinking {
		_, _ = b.WriteString(m.spinner.View())
		_, _ = b.WriteString(" ")
		_, _ = b.WriteString(m.styles.System.Render(i18n.T(m.lang, "tui.thinking")))
		_, _ = b.WriteString("\n\n")
	}

	m.viewport.SetContent(b.String())
}

// renderStats formats the progress footer.
func (m *Model) renderStats(msg statsMsg) string {
	line := fmt.Sprintf("%d %s · %s %s",
		msg.points,
		i18n.T(m.lang, "stats.points"),
		i18n.T(m.lang, "stats.level"),
		msg.level.Name(m.lang),
	)
	if msg.streak > 0 {
		line += " · " + i18n.Tf(m.lang, "stats.streak.days", msg.streak)
	}
	return line
}

func (m *Model) renderSeparator() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	return m.styles.Separator.Render(strings.Repeat("─", width))
}

// renderStatusBar returns state-appropriate keyboard shortcut help.
func (m *Model) renderStatusBar() string {
	var bindings []key.Binding
	switch m.state {
	case stateInput:
		bindings = []key.Binding{m.keys.Send, m.keys.NewChat, m.keys.Scroll, m.keys.Esc}
	case stateThinking, stateStreaming:
		bindings = []key.Binding{m.keys.EscCancel, m.keys.Scroll, m.keys.Quit}
	}
	return m.help.ShortHelpView(bindings)
}
