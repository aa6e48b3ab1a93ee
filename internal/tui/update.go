package tui

import (
	"context"
	"errors"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/mentora-app/mentora/internal/gemini"
	"github.com/mentora-app/mentora/internal/i18n"
	"github.com/mentora-app/mentora/internal/session"
)

// Update implements tea.Model.
//
//nolint:gocognit,gocyclo // the message type switch is the event loop
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		inputHeight := m.input.Height() + promptLines
		fixedHeight := separatorLines + inputHeight + statsLines + helpLines
		vpHeight := max(msg.Height-fixedHeight, minViewport)

		m.viewport.SetWidth(msg.Width)
		m.viewport.SetHeight(vpHeight)
		m.input.SetWidth(msg.Width - 4) // room for the "> " prompt
		m.help.SetWidth(msg.Width)
		m.markdown.UpdateWidth(msg.Width)

		m.rebuildViewportContent()
		return m, nil

	case tea.MouseWheelMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.state == stateThinking {
			m.rebuildViewportContent()
		}
		return m, cmd

	case statsMsg:
		m.statsLine = m.renderStats(msg)
		if m.pendingLvl {
			m.pendingLvl = false
			m.addMessage(Message{
				Role: roleSystem,
				Text: i18n.Tf(m.lang, "stats.level.up", msg.level.Name(m.lang)),
			})
			m.rebuildViewportContent()
			m.viewport.GotoBottom()
		}
		return m, nil

	case statsFailedMsg:
		m.logger.Warn("loading stats for footer", "error", msg.err)
		if m.statsLine == i18n.T(m.lang, "tui.connecting") {
			m.statsLine = ""
		}
		return m, nil

	case historyMsg:
		restored := make([]Message, 0, len(msg.msgs))
		for _, sm := range msg.msgs {
			role := roleMentor
			if sm.Role == session.RoleUser {
				role = roleUser
			}
			restored = append(restored, Message{Role: role, Text: sm.Content})
		}
		// Prepend: anything typed before the history arrived stays.
		m.messages = append(restored, m.messages...)
		if len(m.messages) > maxMessages {
			m.messages = m.messages[len(m.messages)-maxMessages:]
		}
		m.rebuildViewportContent()
		m.viewport.GotoBottom()
		return m, nil

	case historyGoneMsg:
		m.sessionID = uuid.Nil
		m.rebuildViewportContent()
		return m, nil

	case streamStartedMsg:
		m.streamCancel = msg.cancel
		m.streamEventCh = msg.eventCh
		m.state = stateStreaming
		m.rebuildViewportContent()
		m.viewport.GotoBottom()
		return m, listenForStream(msg.eventCh)

	case streamTextMsg:
		if m.streamEventCh == nil {
			return m, nil
		}
		m.output.WriteString(msg.text)
		m.rebuildViewportContent()
		m.viewport.GotoBottom()
		return m, listenForStream(m.streamEventCh)

	case streamDoneMsg:
		if m.streamEventCh == nil {
			return m, nil
		}
		return m.finishStream(msg)

	case streamErrorMsg:
		// Stragglers after a cancel are dropped silently.
		if m.streamEventCh == nil {
			return m, nil
		}
		return m.failStream(msg.err)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// finishStream lands a completed exchange in the transcript and
// refreshes progress.
func (m *Model) finishStream(msg streamDoneMsg) (tea.Model, tea.Cmd) {
	m.state = stateInput
	m.releaseStream()

	reply := msg.reply

	// The service returns the complete text; accumulated chunks are
	// the fallback for models that only answer in the final payload.
	finalText := reply.Text
	if finalText == "" {
		finalText = m.output.String()
	}
	m.addMessage(Message{Role: roleMentor, Text: finalText})
	m.output.Reset()

	m.sessionID = reply.SessionID
	if m.onSession != nil {
		m.onSession(reply.SessionID)
	}

	for _, id := range reply.NewBadges {
		m.addMessage(Message{
			Role: roleSystem,
			Text: i18n.Tf(m.lang, "stats.badge.new", id.Name(m.lang)),
		})
	}
	if reply.LeveledUp {
		m.pendingLvl = true
	}

	m.rebuildViewportContent()
	m.viewport.GotoBottom()
	return m, tea.Batch(m.input.Focus(), m.loadStats())
}

// failStream reports a failed exchange without losing the screen.
func (m *Model) failStream(err error) (tea.Model, tea.Cmd) {
	m.state = stateInput
	m.releaseStream()

	switch {
	case errors.Is(err, context.Canceled):
		m.addMessage(Message{Role: roleSystem, Text: i18n.T(m.lang, "tui.canceled")})
	case errors.Is(err, context.DeadlineExceeded):
		m.addMessage(Message{Role: roleError, Text: i18n.T(m.lang, "tui.timeout")})
	case errors.Is(err, gemini.ErrAllKeysFailed):
		m.addMessage(Message{Role: roleError, Text: i18n.T(m.lang, "error.ai.unavailable")})
	default:
		m.addMessage(Message{Role: roleError, Text: err.Error()})
	}
	m.output.Reset()
	m.rebuildViewportContent()
	m.viewport.GotoBottom()
	return m, m.input.Focus()
}

// releaseStream cancels the in-flight context and detaches the event
// channel.
func (m *Model) releaseStream() {
	if m.streamCancel != nil {
		m.streamCancel()
		m.streamCancel = nil
	}
	m.streamEventCh = nil
}
