package chat

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"budgetchat/internal/chat"
	"budgetchat/internal/tui/components/logo"
	"budgetchat/internal/tui/styles"
)

// MessageList displays the active conversation's messages.
type MessageList struct {
	messages []chat.Message
	width    int
	height   int
	offset   int // lines scrolled up from the bottom
	loading  bool
	sending  bool
}

// NewMessageList creates the message list component.
func NewMessageList() *MessageList {
	return &MessageList{}
}

// SetMessages replaces the displayed messages and snaps to the bottom.
func (m *MessageList) SetMessages(messages []chat.Message) {
	m.messages = messages
	m.offset = 0
}

// SetLoading marks the conversation detail as loading.
func (m *MessageList) SetLoading(loading bool) {
	m.loading = loading
}

// SetSending marks a message send as in flight.
func (m *MessageList) SetSending(sending bool) {
	m.sending = sending
}

// SetSize sets the component size.
func (m *MessageList) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles scroll events.
func (m *MessageList) Update(msg tea.Msg) (*MessageList, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseWheelMsg:
		switch msg.Button {
		case tea.MouseWheelUp:
			m.ScrollUp()
		case tea.MouseWheelDown:
			m.ScrollDown()
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "pgup":
			for range m.height / 2 {
				m.ScrollUp()
			}
		case "pgdown":
			for range m.height / 2 {
				m.ScrollDown()
			}
		}
	}
	return m, nil
}

// ScrollUp scrolls one line toward older messages.
func (m *MessageList) ScrollUp() {
	m.offset++
}

// ScrollDown scrolls one line toward the newest message.
func (m *MessageList) ScrollDown() {
	if m.offset > 0 {
		m.offset--
	}
}

// ScrollToBottom snaps to the newest message.
func (m *MessageList) ScrollToBottom() {
	m.offset = 0
}

// View renders the message list.
func (m *MessageList) View() string {
	t := styles.CurrentTheme()

	if m.loading {
		loading := t.S().Muted.Render("Loading conversation...")
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, loading)
	}

	if len(m.messages) == 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.emptyState())
	}

	var rendered []string
	for _, msg := range m.messages {
		rendered = append(rendered, m.renderMessage(msg))
	}
	if m.sending {
		rendered = append(rendered, t.S().Muted.Render("Thinking..."))
	}

	content := strings.Join(rendered, "\n\n")
	lines := strings.Split(content, "\n")

	// Render bottom-up: show the last height lines, shifted by offset.
	maxOffset := len(lines) - m.height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if m.offset > maxOffset {
		m.offset = maxOffset
	}
	end := len(lines) - m.offset
	start := end - m.height
	if start < 0 {
		start = 0
	}
	visible := strings.Join(lines[start:end], "\n")

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Padding(0, 1).
		Render(visible)
}

func (m *MessageList) emptyState() string {
	t := styles.CurrentTheme()

	mark := logo.RenderWithTagline()
	if m.width < logo.Width()+4 {
		mark = logo.RenderSmall()
	}

	lines := []string{
		mark,
		"",
		t.S().Muted.Render("Ask about allocations, taxes, and schemes."),
		t.S().Muted.Render("Answers cite the budget documents they come from."),
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *MessageList) renderMessage(msg chat.Message) string {
	contentWidth := m.width - 4 // Account for padding
	if msg.Role == chat.RoleUser {
		return m.renderUserMessage(msg, contentWidth)
	}
	return m.renderAssistantMessage(msg, contentWidth)
}

func (m *MessageList) renderUserMessage(msg chat.Message, width int) string {
	t := styles.CurrentTheme()

	header := t.S().Bold.Render("You")
	if msg.IsTemp() {
		header += t.S().Subtle.Render("  sending...")
	}
	content := t.S().Text.Width(width).Render(msg.Content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content)
}

func (m *MessageList) renderAssistantMessage(msg chat.Message, width int) string {
	t := styles.CurrentTheme()

	parts := []string{t.S().Primary.Bold(true).Render("Assistant")}

	if msg.Content != "" {
		parts = append(parts, renderMarkdown(msg.Content, width))
	}

	if len(msg.Sources) > 0 {
		parts = append(parts, m.renderSources(msg.Sources, width))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *MessageList) renderSources(sources []chat.Source, width int) string {
	t := styles.CurrentTheme()

	var refs []string
	for _, s := range sources {
		ref := s.DocName
		if s.PageNumber > 0 {
			ref = fmt.Sprintf("%s, p.%d", s.DocName, s.PageNumber)
		}
		refs = append(refs, ref)
	}

	label := t.S().Subtle.Render("Sources: ")
	return lipgloss.NewStyle().Width(width).Render(label + t.S().Muted.Render(strings.Join(refs, " · ")))
}

// LastAnswer returns the content of the newest assistant message, or "".
func (m *MessageList) LastAnswer() string {
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].Role == chat.RoleAssistant {
			return m.messages[i].Content
		}
	}
	return ""
}
