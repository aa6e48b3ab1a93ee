package tui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/google/uuid"

	"github.com/mentora-app/mentora/internal/chat"
	"github.com/mentora-app/mentora/internal/gamification"
	"github.com/mentora-app/mentora/internal/i18n"
	"github.com/mentora-app/mentora/internal/session"
)

// screenState is where the conversation currently is.
type screenState int

const (
	stateInput     screenState = iota // waiting for the user
	stateThinking                     // request sent, nothing received yet
	stateStreaming                    // chunks arriving
)

// Transcript and history bounds.
const (
	maxMessages = 200 // display messages kept in memory
	maxHistory  = 100 // input history entries
)

// streamTimeout caps one exchange end to end.
const streamTimeout = 5 * time.Minute

// Display roles for transcript entries.
const (
	roleUser   = "user"
	roleMentor = "mentor"
	roleSystem = "system"
	roleError  = "error"
)

// Fixed rows around the viewport: two separators, the prompt row, the
// stats line and the help bar.
const (
	separatorLines = 2
	promptLines    = 1
	statsLines     = 1
	helpLines      = 1
	minViewport    = 3
)

// Message is one transcript entry for display.
type Message struct {
	Role string
	Text string
}

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	input      textarea.Model
	history    []string
	historyIdx int

	state      screenState
	spinner    spinner.Model
	output     strings.Builder // accumulated chunks of the reply in flight
	viewBuf    strings.Builder
	messages   []Message
	viewport   viewport.Model
	help       help.Model
	keys       keyMap
	styles     Styles
	markdown   *markdownRenderer
	statsLine  string
	pendingLvl bool // a level-up toast waits for the refreshed stats

	streamCancel  context.CancelFunc
	streamEventCh <-chan streamEvent

	chat      *chat.Service
	sessions  *session.Store
	points    *gamification.Store
	userID    uuid.UUID
	sessionID uuid.UUID
	lang      i18n.Lang
	logger    *slog.Logger
	onSession func(uuid.UUID)

	ctx       context.Context
	ctxCancel context.CancelFunc

	width  int
	height int
}

// New builds the model. ctx must be the same context handed to
// tea.WithContext so cancellation reaches in-flight streams.
func New(ctx context.Context, cfg Config) (*Model, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(ctx)

	ta := textarea.New()
	ta.Placeholder = i18n.T(cfg.Lang, "tui.placeholder")
	ta.SetHeight(1)
	ta.SetWidth(120)
	ta.MaxWidth = 0
	ta.ShowLineNumbers = false

	// Plain text input, no boxes. The gray placeholder is the only
	// decoration.
	plain := textarea.StyleState{
		Base:        lipgloss.NewStyle(),
		Text:        lipgloss.NewStyle(),
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Prompt:      lipgloss.NewStyle(),
	}
	ta.SetStyles(textarea.Styles{Focused: plain, Blurred: plain})
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	// Keys are routed explicitly in handleKey; the viewport scrolls
	// only on page keys and the mouse wheel.
	vp := viewport.New(viewport.WithWidth(80), viewport.WithHeight(20))
	vp.MouseWheelEnabled = true
	vp.SoftWrap = true
	vp.KeyMap = viewport.KeyMap{}

	m := &Model{
		chat:      cfg.Chat,
		sessions:  cfg.Sessions,
		points:    cfg.Points,
		userID:    cfg.UserID,
		sessionID: cfg.SessionID,
		lang:      cfg.Lang,
		logger:    logger,
		onSession: cfg.OnSession,
		ctx:       ctx,
		ctxCancel: cancel,
		input:     ta,
		spinner:   sp,
		viewport:  vp,
		help:      help.New(),
		keys:      newKeyMap(cfg.Lang),
		styles:    DefaultStyles(),
		history:   make([]string, 0, maxHistory),
		markdown:  newMarkdownRenderer(80),
		width:     80,
	}
	if cfg.Points != nil {
		m.statsLine = i18n.T(cfg.Lang, "tui.connecting")
	}
	m.rebuildViewportContent()
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textarea.Blink,
		m.spinner.Tick,
		m.input.Focus(),
		m.loadStats(),
	}
	if m.sessionID != uuid.Nil {
		cmds = append(cmds, m.loadHistory())
	}
	return tea.Batch(cmds...)
}

// addMessage appends a transcript entry, dropping the oldest past the
// bound.
func (m *Model) addMessage(msg Message) {
	m.messages = append(m.messages, msg)
	if len(m.messages) > maxMessages {
		m.messages = m.messages[len(m.messages)-maxMessages:]
	}
}
