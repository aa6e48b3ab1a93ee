package tui

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/mentora-app/mentora/internal/chat"
)

// streamBufferSize absorbs render-delay bursts without backpressuring
// the model call.
const streamBufferSize = 100

// streamEvent is a discriminated union carried on a single channel;
// exactly one field is set per event. One channel keeps the listen
// command a plain receive instead of a multi-channel select.
type streamEvent struct {
	text  string      // reply chunk
	reply *chat.Reply // set when done
	err   error
	done  bool
}

type streamStartedMsg struct {
	eventCh <-chan streamEvent
	cancel  context.CancelFunc
}

type streamTextMsg struct{ text string }

type streamDoneMsg struct{ reply *chat.Reply }

type streamErrorMsg struct{ err error }

// startStream kicks off one exchange. The goroutine exits when the
// exchange finishes, errors, or the context is canceled; closing the
// event channel is its completion signal.
func (m *Model) startStream(text string) tea.Cmd {
	// Captured on the event loop; the closure below runs off it.
	svc, userID, sessionID, logger := m.chat, m.userID, m.sessionID, m.logger
	parent := m.ctx

	return func() tea.Msg {
		eventCh := make(chan streamEvent, streamBufferSize)
		ctx, cancel := context.WithTimeout(parent, streamTimeout)

		go func() {
			defer cancel()
			defer close(eventCh)

			defer func() {
				if r := recover(); r != nil {
					logger.Error("stream panic recovered", "panic", r)
					select {
					case eventCh <- streamEvent{err: fmt.Errorf("stream panic: %v", r)}:
					default:
					}
				}
			}()

			reply, err := svc.Stream(ctx, userID, sessionID, text,
				func(ctx context.Context, chunk string) error {
					select {
					case eventCh <- streamEvent{text: chunk}:
						return nil
					case <-ctx.Done():
						return ctx.Err()
					}
				})
			// Buffered sends so the outcome still lands when the
			// context is already canceled; the buffered event is
			// delivered before the close is observed.
			if err != nil {
				select {
				case eventCh <- streamEvent{err: err}:
				default:
				}
				return
			}

			select {
			case eventCh <- streamEvent{done: true, reply: reply}:
			default:
			}
		}()

		return streamStartedMsg{eventCh: eventCh, cancel: cancel}
	}
}

// listenForStream waits for the next stream event. Empty events loop
// instead of recursing.
func listenForStream(eventCh <-chan streamEvent) tea.Cmd {
	return func() tea.Msg {
		if eventCh == nil {
			return nil
		}
		for {
			event, ok := <-eventCh
			if !ok {
				return streamErrorMsg{err: fmt.Errorf("stream ended without completion signal")}
			}
			switch {
			case event.err != nil:
				return streamErrorMsg{err: event.err}
			case event.done:
				return streamDoneMsg{reply: event.reply}
			case event.text != "":
				return streamTextMsg{text: event.text}
			default:
				continue
			}
		}
	}
}
