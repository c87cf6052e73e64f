package chat

import (
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"budgetchat/internal/tui/styles"
)

const helpText = `# Budget Chat

Ask questions about the Union Budget. Answers cite the budget
documents they are based on.

## Keys

| Key | Action |
|-----|--------|
| enter | Send message / open selected conversation |
| tab | Switch focus between sidebar and composer |
| ctrl+n | Start a new conversation |
| ctrl+x | Delete the selected conversation |
| ctrl+y | Copy the last answer |
| ctrl+s | Read the last answer aloud |
| ctrl+r | Start or stop voice input |
| pgup / pgdn | Scroll messages |
| ? | Toggle this help |
| ctrl+c | Quit |

Voice input and read-aloud need a local speech engine; the keys do
nothing when none is available.
`

// Help is the help overlay, rendered with glamour.
type Help struct {
	visible  bool
	width    int
	height   int
	rendered string
	cachedAt int
}

// NewHelp creates the help overlay.
func NewHelp() *Help {
	return &Help{}
}

// Toggle flips overlay visibility.
func (h *Help) Toggle() {
	h.visible = !h.visible
}

// Visible reports whether the overlay is shown.
func (h *Help) Visible() bool {
	return h.visible
}

// SetSize sets the overlay size.
func (h *Help) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// View renders the overlay centered in the page.
func (h *Help) View() string {
	t := styles.CurrentTheme()

	contentWidth := h.width * 3 / 4
	if contentWidth > 70 {
		contentWidth = 70
	}

	if h.rendered == "" || h.cachedAt != contentWidth {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(glamourStyle(t)),
			glamour.WithWordWrap(contentWidth-4),
			glamour.WithColorProfile(termenv.TrueColor),
		)
		if err == nil {
			if out, rerr := r.Render(helpText); rerr == nil {
				h.rendered = out
				h.cachedAt = contentWidth
			}
		}
		if h.rendered == "" {
			h.rendered = helpText
		}
	}

	box := lipgloss.NewStyle().
		Width(contentWidth).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Padding(0, 1).
		Render(h.rendered)

	return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, box)
}

func glamourStyle(t *styles.Theme) string {
	if t.IsDark {
		return "dark"
	}
	return "light"
}
