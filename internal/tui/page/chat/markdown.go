package chat

import (
	"strings"

	"charm.land/lipgloss/v2"

	"budgetchat/internal/markdown"
	"budgetchat/internal/tui/styles"
)

// renderMarkdown renders assistant text through the lightweight markdown
// parser into themed terminal output wrapped to the given width.
func renderMarkdown(text string, width int) string {
	blocks := markdown.Parse(text)

	var lines []string
	for _, b := range blocks {
		switch b.Kind {
		case markdown.BlockSpacer:
			lines = append(lines, "")
		case markdown.BlockBullet:
			lines = append(lines, renderBullet(b, width, 0))
		case markdown.BlockNestedBullet:
			lines = append(lines, renderBullet(b, width, b.ClampedIndent()))
		default:
			lines = append(lines, wrapStyled(renderSpans(b.Spans), width, ""))
		}
	}

	return strings.Join(lines, "\n")
}

func renderBullet(b markdown.Block, width, indent int) string {
	t := styles.CurrentTheme()

	pad := strings.Repeat(" ", indent)
	prefix := pad + t.S().Primary.Render("•") + " "

	return wrapStyled(renderSpans(b.Spans), width-indent-2, prefix)
}

// renderSpans styles the inline runs of a block.
func renderSpans(spans []markdown.Span) string {
	t := styles.CurrentTheme()

	var sb strings.Builder
	for _, s := range spans {
		switch s.Kind {
		case markdown.SpanBold:
			sb.WriteString(t.S().Bold.Render(s.Text))
		case markdown.SpanCode:
			sb.WriteString(t.S().Code.Render(s.Text))
		default:
			sb.WriteString(t.S().Text.Render(s.Text))
		}
	}
	return sb.String()
}

// wrapStyled wraps already-styled content to width, prefixing the first
// line with prefix and continuation lines with matching indentation.
func wrapStyled(content string, width int, prefix string) string {
	if width < 10 {
		width = 10
	}

	wrapped := lipgloss.NewStyle().Width(width).Render(content)
	if prefix == "" {
		return wrapped
	}

	hang := strings.Repeat(" ", lipgloss.Width(prefix))
	lines := strings.Split(wrapped, "\n")
	for i, line := range lines {
		if i == 0 {
			lines[i] = prefix + line
		} else {
			lines[i] = hang + line
		}
	}
	return strings.Join(lines, "\n")
}
