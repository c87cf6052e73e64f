package chat

import (
	"charm.land/lipgloss/v2"

	"budgetchat/internal/speech"
	"budgetchat/internal/tui/styles"
)

// Status represents the current page status.
type Status int

// Page statuses.
const (
	StatusReady Status = iota
	StatusSending
	StatusSpeaking
	StatusRecording
	StatusNotice
)

// StatusBar displays the page status, the speech language, and key hints.
type StatusBar struct {
	status   Status
	notice   string
	language string
	width    int
}

// NewStatusBar creates a status bar.
func NewStatusBar() *StatusBar {
	return &StatusBar{status: StatusReady}
}

// SetStatus sets the current status.
func (s *StatusBar) SetStatus(status Status) {
	s.status = status
	if status != StatusNotice {
		s.notice = ""
	}
}

// SetNotice shows a transient user-visible notice.
func (s *StatusBar) SetNotice(text string) {
	s.status = StatusNotice
	s.notice = text
}

// SetLanguage sets the displayed speech language code.
func (s *StatusBar) SetLanguage(code string) {
	s.language = code
}

// SetWidth sets the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// View renders the status bar.
func (s *StatusBar) View() string {
	t := styles.CurrentTheme()

	var statusText string
	var statusStyle lipgloss.Style

	switch s.status {
	case StatusSending:
		statusText = "Sending..."
		statusStyle = t.S().Info
	case StatusSpeaking:
		statusText = "Speaking..."
		statusStyle = t.S().Info
	case StatusRecording:
		statusText = "Recording... press ctrl+r to stop"
		statusStyle = t.S().Warning
	case StatusNotice:
		statusText = s.notice
		statusStyle = t.S().Error
	default:
		statusText = "Ready"
		statusStyle = t.S().Success
	}

	left := statusStyle.Render(statusText)

	right := t.S().Muted.Render("? help · ctrl+c quit")
	if s.language != "" {
		right = t.S().Subtle.Render(speech.LanguageName(s.language)) +
			t.S().Muted.Render("  ·  ? help · ctrl+c quit")
	}

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Width(s.width).
		Padding(0, 1).
		Background(t.BgSubtle).
		Render(left + lipgloss.NewStyle().Width(gap).Render("") + right)
}
