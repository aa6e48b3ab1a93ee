package tui

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/mentora-app/mentora/internal/i18n"
)

// keyMap declares every binding the screen reacts to. Labels come from
// the message catalog so the help bar follows the configured language.
// Esc and EscCancel share a key; the help bar shows whichever fits the
// current state.
type keyMap struct {
	Send      key.Binding
	NewChat   key.Binding
	Esc       key.Binding
	EscCancel key.Binding
	Quit      key.Binding
	Scroll    key.Binding
	Prev      key.Binding
	Next      key.Binding
}

func newKeyMap(lang i18n.Lang) keyMap {
	return keyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", i18n.T(lang, "tui.help.send")),
		),
		NewChat: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", i18n.T(lang, "tui.help.new")),
		),
		Esc: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", i18n.T(lang, "tui.help.quit")),
		),
		EscCancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", i18n.T(lang, "tui.help.cancel")),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", i18n.T(lang, "tui.help.quit")),
		),
		Scroll: key.NewBinding(
			key.WithKeys("pgup", "pgdown"),
			key.WithHelp("pgup/pgdn", i18n.T(lang, "tui.help.scroll")),
		),
		Prev: key.NewBinding(key.WithKeys("up")),
		Next: key.NewBinding(key.WithKeys("down")),
	}
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Esc):
		if m.state != stateInput {
			return m.cancelStream()
		}
		return m.quit()

	case key.Matches(msg, m.keys.Send):
		if m.state != stateInput {
			return m, nil
		}
		return m.submit()

	case key.Matches(msg, m.keys.NewChat):
		if m.state != stateInput {
			return m, nil
		}
		return m.newConversation()

	case key.Matches(msg, m.keys.Scroll):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keys.Prev):
		if m.state == stateInput && m.input.Line() == 0 {
			m.navigateHistory(-1)
			return m, nil
		}

	case key.Matches(msg, m.keys.Next):
		if m.state == stateInput && m.input.Line() == m.input.LineCount()-1 {
			m.navigateHistory(1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	m.history = append(m.history, text)
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
	m.historyIdx = len(m.history)

	m.addMessage(Message{Role: roleUser, Text: text})
	m.input.Reset()
	m.state = stateThinking
	m.output.Reset()
	m.rebuildViewportContent()
	m.viewport.GotoBottom()

	return m, tea.Batch(m.spinner.Tick, m.startStream(text))
}

// newConversation drops the session pointer so the next message opens a
// fresh thread. The old conversation stays in the database.
func (m *Model) newConversation() (tea.Model, tea.Cmd) {
	m.sessionID = uuid.Nil
	m.messages = nil
	m.output.Reset()
	m.addMessage(Message{Role: roleSystem, Text: i18n.T(m.lang, "tui.session.new")})
	m.rebuildViewportContent()
	m.viewport.GotoBottom()
	return m, nil
}

// navigateHistory recalls earlier prompts with the arrow keys.
func (m *Model) navigateHistory(delta int) {
	if len(m.history) == 0 {
		return
	}
	idx := m.historyIdx + delta
	if idx < 0 || idx > len(m.history) {
		return
	}
	m.historyIdx = idx
	if idx == len(m.history) {
		m.input.Reset()
		return
	}
	m.input.SetValue(m.history[idx])
	m.input.CursorEnd()
}

// cancelStream abandons the in-flight exchange but keeps the screen.
func (m *Model) cancelStream() (tea.Model, tea.Cmd) {
	m.releaseStream()
	m.state = stateInput
	m.output.Reset()
	m.addMessage(Message{Role: roleSystem, Text: i18n.T(m.lang, "tui.canceled")})
	m.rebuildViewportContent()
	m.viewport.GotoBottom()
	return m, m.input.Focus()
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.releaseStream()
	m.ctxCancel()
	return m, tea.Quit
}
