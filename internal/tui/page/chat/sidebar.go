package chat

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/rivo/uniseg"

	"budgetchat/internal/chat"
	"budgetchat/internal/tui/styles"
)

// Sidebar lists the conversations, newest first.
type Sidebar struct {
	conversations []*chat.Conversation
	activeID      string
	cursor        int
	focused       bool
	loading       bool
	width         int
	height        int
}

// NewSidebar creates the conversation sidebar.
func NewSidebar() *Sidebar {
	return &Sidebar{}
}

// SetConversations replaces the listed conversations, keeping the cursor
// on the active conversation when possible.
func (s *Sidebar) SetConversations(convs []*chat.Conversation) {
	s.conversations = convs
	s.clampCursor()
	for i, c := range convs {
		if c.ID == s.activeID {
			s.cursor = i
			break
		}
	}
}

// SetActive marks the active conversation.
func (s *Sidebar) SetActive(id string) {
	s.activeID = id
	for i, c := range s.conversations {
		if c.ID == id {
			s.cursor = i
			return
		}
	}
}

// SetLoading marks the list as loading.
func (s *Sidebar) SetLoading(loading bool) {
	s.loading = loading
}

// SetFocused sets keyboard focus on the sidebar.
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
}

// Focused reports whether the sidebar has keyboard focus.
func (s *Sidebar) Focused() bool {
	return s.focused
}

// SetSize sets the component size.
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// CursorUp moves the selection up.
func (s *Sidebar) CursorUp() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// CursorDown moves the selection down.
func (s *Sidebar) CursorDown() {
	if s.cursor < len(s.conversations)-1 {
		s.cursor++
	}
}

// Selected returns the conversation under the cursor, or nil.
func (s *Sidebar) Selected() *chat.Conversation {
	if s.cursor < 0 || s.cursor >= len(s.conversations) {
		return nil
	}
	return s.conversations[s.cursor]
}

func (s *Sidebar) clampCursor() {
	if s.cursor >= len(s.conversations) {
		s.cursor = len(s.conversations) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// View renders the sidebar.
func (s *Sidebar) View() string {
	t := styles.CurrentTheme()

	border := t.Border
	if s.focused {
		border = t.BorderFocus
	}
	frame := lipgloss.NewStyle().
		Width(s.width - 2).
		Height(s.height - 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)

	header := t.S().Title.Render("Conversations")

	var rows []string
	rows = append(rows, header, "")

	switch {
	case s.loading:
		rows = append(rows, t.S().Muted.Render("Loading..."))
	case len(s.conversations) == 0:
		rows = append(rows, t.S().Muted.Render("No conversations yet"))
	default:
		itemWidth := s.width - 6 // frame border and padding
		visible := s.height - 4  // frame plus header rows
		start := 0
		if s.cursor >= visible {
			start = s.cursor - visible + 1
		}
		for i := start; i < len(s.conversations) && i-start < visible; i++ {
			rows = append(rows, s.renderItem(s.conversations[i], i, itemWidth))
		}
	}

	return frame.Render(strings.Join(rows, "\n"))
}

func (s *Sidebar) renderItem(c *chat.Conversation, index, width int) string {
	t := styles.CurrentTheme()

	title := truncate(c.DisplayTitle(), width-2)

	style := t.S().Text
	prefix := "  "
	if c.ID == s.activeID {
		style = t.S().Primary
	}
	if s.focused && index == s.cursor {
		style = style.Bold(true)
		prefix = t.S().Primary.Render("> ")
	}

	return prefix + style.Render(title)
}

// truncate shortens a string to at most width cells, grapheme-aware, with
// an ellipsis when shortened.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(s) <= width {
		return s
	}

	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if used+w > width-1 {
			break
		}
		b.WriteString(g.Str())
		used += w
	}
	return b.String() + "…"
}
