// Package chat provides the conversation page of the TUI.
package chat

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"

	"budgetchat/internal/bridge"
	"budgetchat/internal/controller"
	"budgetchat/internal/debug"
	"budgetchat/internal/events"
	"budgetchat/internal/pubsub"
	"budgetchat/internal/speech"
	"budgetchat/internal/tui/styles"
)

const sidebarWidth = 30

// Model is the conversation page model.
type Model struct {
	ctrl *controller.Controller
	hub  *pubsub.Hub

	synth speech.Synthesizer
	recog speech.Recognizer
	// speechLang is the voice-input language.
	speechLang string

	sidebar  *Sidebar
	messages *MessageList
	input    *Input
	status   *StatusBar
	help     *Help

	recording    bool
	recordCancel context.CancelFunc
	width        int
	height       int
}

// New creates the conversation page.
func New(ctrl *controller.Controller, hub *pubsub.Hub, synth speech.Synthesizer, recog speech.Recognizer, speechLang string) *Model {
	m := &Model{
		ctrl:       ctrl,
		hub:        hub,
		synth:      synth,
		recog:      recog,
		speechLang: speechLang,
		sidebar:    NewSidebar(),
		messages:   NewMessageList(),
		input:      NewInput(),
		status:     NewStatusBar(),
		help:       NewHelp(),
	}
	m.status.SetLanguage(speechLang)
	return m
}

// Init loads the conversation list.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.input.Init(), m.loadCmd())
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseWheelMsg:
		var cmd tea.Cmd
		m.messages, cmd = m.messages.Update(msg)
		return m, cmd

	case bridge.ChatEventMsg:
		return m.handleChatEvent(msg.Event)

	case bridge.SpeechEventMsg:
		return m.handleSpeechEvent(msg.Event)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	if m.help.Visible() {
		switch msg.String() {
		case "?", "esc", "q", "ctrl+c":
			m.help.Toggle()
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "?":
		// Typing a literal ? belongs to the composer.
		if !m.sidebar.Focused() && m.input.Value() != "" {
			break
		}
		m.help.Toggle()
		return m, nil

	case "tab":
		m.setSidebarFocus(!m.sidebar.Focused())
		return m, nil

	case "enter":
		if m.sidebar.Focused() {
			if c := m.sidebar.Selected(); c != nil {
				m.setSidebarFocus(false)
				return m, m.selectCmd(c.ID)
			}
			return m, nil
		}
		return m, m.sendCmd()

	case "ctrl+n":
		m.ctrl.NewConversation()
		m.setSidebarFocus(false)
		return m, nil

	case "ctrl+x":
		id := m.deleteTarget()
		if id == "" {
			return m, nil
		}
		return m, m.deleteCmd(id)

	case "ctrl+y":
		return m, m.copyCmd()

	case "ctrl+s":
		return m, m.speakCmd()

	case "ctrl+r":
		return m, m.toggleRecording()

	case "up", "k":
		if m.sidebar.Focused() {
			m.sidebar.CursorUp()
			return m, nil
		}
	case "down", "j":
		if m.sidebar.Focused() {
			m.sidebar.CursorDown()
			return m, nil
		}
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.messages, cmd = m.messages.Update(msg)
		return m, cmd
	}

	if m.sidebar.Focused() {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) setSidebarFocus(focused bool) {
	m.sidebar.SetFocused(focused)
	if focused {
		m.input.Blur()
	} else {
		m.input.Focus()
	}
}

// deleteTarget picks the conversation a delete applies to: the sidebar
// selection when focused, the active conversation otherwise.
func (m *Model) deleteTarget() string {
	if m.sidebar.Focused() {
		if c := m.sidebar.Selected(); c != nil {
			return c.ID
		}
		return ""
	}
	return m.ctrl.Active()
}

func (m *Model) handleChatEvent(event pubsub.Event[events.ChatEvent]) (*Model, tea.Cmd) {
	payload := event.Payload

	switch payload.Type {
	case events.ChatEventNotice:
		m.status.SetNotice(payload.Notice)
	case events.ChatEventSendStarted:
		m.status.SetStatus(StatusSending)
		m.messages.SetSending(true)
		m.input.Disable()
	case events.ChatEventSendFinished:
		m.status.SetStatus(StatusReady)
		m.messages.SetSending(false)
		m.input.Enable()
		m.refresh()
		return m, m.input.Focus()
	default:
		m.refresh()
	}

	return m, nil
}

func (m *Model) handleSpeechEvent(event pubsub.Event[events.SpeechEvent]) (*Model, tea.Cmd) {
	payload := event.Payload

	switch payload.Type {
	case events.SpeechEventListening:
		m.status.SetStatus(StatusRecording)
	case events.SpeechEventTranscript:
		m.recording = false
		m.status.SetStatus(StatusReady)
		if payload.Transcript != "" {
			m.input.SetValue(payload.Transcript)
		}
		return m, m.input.Focus()
	case events.SpeechEventSpeaking:
		m.status.SetStatus(StatusSpeaking)
	case events.SpeechEventStopped:
		m.recording = false
		m.status.SetStatus(StatusReady)
	case events.SpeechEventError:
		m.recording = false
		m.status.SetNotice(payload.Err)
	}

	return m, nil
}

// refresh re-reads the controller's store into the view components.
func (m *Model) refresh() {
	st := m.ctrl.Store()

	m.sidebar.SetConversations(st.All())
	m.sidebar.SetActive(m.ctrl.Active())
	m.sidebar.SetLoading(st.LoadingList())
	m.messages.SetLoading(st.LoadingActive())

	if conv := m.ctrl.ActiveConversation(); conv != nil {
		m.messages.SetMessages(conv.Messages)
	} else {
		m.messages.SetMessages(nil)
	}
}

func (m *Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		_ = m.ctrl.LoadConversations(context.Background())
		if err := m.ctrl.SyncFromLocation(context.Background()); err != nil {
			debug.Error("tui", err, "syncing from location")
		}
		return nil
	}
}

func (m *Model) selectCmd(id string) tea.Cmd {
	return func() tea.Msg {
		_ = m.ctrl.Select(context.Background(), id)
		return nil
	}
}

func (m *Model) sendCmd() tea.Cmd {
	text := m.input.Value()
	if text == "" {
		return nil
	}
	m.input.Clear()
	return func() tea.Msg {
		_ = m.ctrl.Send(context.Background(), text)
		return nil
	}
}

func (m *Model) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		_ = m.ctrl.Delete(context.Background(), id)
		return nil
	}
}

func (m *Model) copyCmd() tea.Cmd {
	answer := m.messages.LastAnswer()
	if answer == "" {
		return nil
	}
	return func() tea.Msg {
		if err := clipboard.WriteAll(answer); err != nil {
			m.hub.Speech.Publish(pubsub.EventFailed, events.NewSpeechErrorEvent("Clipboard unavailable"))
			return nil
		}
		m.hub.Chat.Publish(pubsub.EventUpdated, events.NewChatNoticeEvent("Copied answer"))
		return nil
	}
}

func (m *Model) speakCmd() tea.Cmd {
	if !m.synth.Supported() {
		return nil
	}
	answer := m.messages.LastAnswer()
	if answer == "" {
		return nil
	}

	// Read-aloud follows the answer's language, not the configured
	// voice-input language.
	lang := speech.DetectLanguage(answer)

	return func() tea.Msg {
		m.hub.Speech.Publish(pubsub.EventStarted, events.SpeechEvent{Type: events.SpeechEventSpeaking, Language: lang})
		if err := m.synth.Speak(context.Background(), answer, lang); err != nil {
			debug.Error("tui", err, "speaking answer")
			m.hub.Speech.Publish(pubsub.EventFailed, events.NewSpeechErrorEvent("Speech failed"))
			return nil
		}
		m.hub.Speech.Publish(pubsub.EventFinished, events.SpeechEvent{Type: events.SpeechEventStopped})
		return nil
	}
}

func (m *Model) toggleRecording() tea.Cmd {
	if !m.recog.Supported() {
		return nil
	}

	if m.recording {
		// Second press stops the recorder; the transcript arrives as a
		// speech event.
		if m.recordCancel != nil {
			m.recordCancel()
		}
		return nil
	}

	m.recording = true
	ctx, cancel := context.WithCancel(context.Background())
	m.recordCancel = cancel

	lang := m.speechLang
	if lang == "" {
		lang = speech.DefaultLanguage
	}

	return func() tea.Msg {
		defer cancel()
		m.hub.Speech.Publish(pubsub.EventStarted, events.SpeechEvent{Type: events.SpeechEventListening, Language: lang})
		transcript, err := m.recog.Listen(ctx, lang)
		if err != nil {
			debug.Error("tui", err, "recording voice input")
			m.hub.Speech.Publish(pubsub.EventFailed, events.NewSpeechErrorEvent("Voice input failed"))
			return nil
		}
		m.hub.Speech.Publish(pubsub.EventFinished, events.NewSpeechTranscriptEvent(lang, transcript))
		return nil
	}
}

// View renders the page.
func (m *Model) View() string {
	if m.help.Visible() {
		m.help.SetSize(m.width, m.height)
		return m.help.View()
	}

	contentWidth := m.width - sidebarWidth

	m.sidebar.SetSize(sidebarWidth, m.height)
	m.messages.SetSize(contentWidth, m.messagesAreaHeight())
	m.input.SetWidth(contentWidth)
	m.status.SetWidth(contentWidth)

	t := styles.CurrentTheme()
	separator := lipgloss.NewStyle().
		Width(contentWidth).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		Render("")

	right := lipgloss.JoinVertical(lipgloss.Left,
		m.messages.View(),
		separator,
		m.input.View(),
		m.status.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), right)
}

// SetSize sets the page size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) messagesAreaHeight() int {
	h := m.height - m.input.Height() - 2 // separator and status bar
	if h < 1 {
		h = 1
	}
	return h
}

// Cursor returns the composer cursor position, shifted past the sidebar.
func (m *Model) Cursor() *tea.Cursor {
	c := m.input.Cursor()
	if c == nil {
		return nil
	}
	c.X += sidebarWidth
	c.Y += m.messagesAreaHeight() + 1
	return c
}
