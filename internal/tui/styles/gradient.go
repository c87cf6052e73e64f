package styles

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// ApplyForegroundGrad colors the input text with a left-to-right gradient
// between the two colors. Each line gets the full gradient.
func ApplyForegroundGrad(input string, from, to color.Color) string {
	start, _ := colorful.MakeColor(from)
	end, _ := colorful.MakeColor(to)

	lines := strings.Split(input, "\n")
	out := make([]string, len(lines))

	for li, line := range lines {
		runes := []rune(line)
		if len(runes) == 0 {
			continue
		}
		var b strings.Builder
		for ri, r := range runes {
			if r == ' ' {
				b.WriteRune(r)
				continue
			}
			var pos float64
			if len(runes) > 1 {
				pos = float64(ri) / float64(len(runes)-1)
			}
			c := start.BlendLuv(end, pos)
			b.WriteString(lipgloss.NewStyle().Foreground(c).Render(string(r)))
		}
		out[li] = b.String()
	}

	return strings.Join(out, "\n")
}
