// Package markdown parses the assistant's lightweight markdown into a
// block/span structure the presentation layer renders. It recognizes
// paragraphs, bullets (with indentation-derived nesting), blank-line
// spacers, and inline bold and code spans. No nested inline styles and
// no escaping: a literal ** inside code is not protected.
package markdown

import (
	"regexp"
	"sort"
	"strings"
)

// BlockKind identifies a block node.
type BlockKind int

// Block kinds.
const (
	BlockParagraph BlockKind = iota
	BlockBullet
	BlockNestedBullet
	BlockSpacer
)

// SpanKind identifies an inline run.
type SpanKind int

// Span kinds.
const (
	SpanText SpanKind = iota
	SpanBold
	SpanCode
)

// Span is an inline run of styled text.
type Span struct {
	Kind SpanKind
	Text string
}

// Block is a rendered unit: one paragraph, bullet, or spacer.
type Block struct {
	Kind   BlockKind
	Indent int // leading spaces for nested bullets
	Spans  []Span
}

// MaxBulletIndent caps how deep nested bullets render; deeper
// indentation is clamped rather than drifting off-screen.
const MaxBulletIndent = 4

var (
	nestedBulletRe = regexp.MustCompile(`^(\s+)([*-])\s+(.+)$`)
	bulletRe       = regexp.MustCompile(`^([*-])\s+(.+)$`)
	boldRe         = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	codeRe         = regexp.MustCompile("`([^`]+)`")
)

// Parse converts raw text into block nodes. Consecutive blank lines
// collapse to a single spacer; leading and trailing blank lines produce
// none.
func Parse(text string) []Block {
	lines := strings.Split(text, "\n")
	var blocks []Block

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			// Spacer only between content lines, and only after a
			// non-blank line so runs of blanks collapse to one.
			if i > 0 && i < len(lines)-1 && strings.TrimSpace(lines[i-1]) != "" {
				blocks = append(blocks, Block{Kind: BlockSpacer})
			}
			continue
		}

		if m := nestedBulletRe.FindStringSubmatch(line); m != nil {
			blocks = append(blocks, Block{
				Kind:   BlockNestedBullet,
				Indent: len(m[1]),
				Spans:  ParseInline(m[3]),
			})
			continue
		}
		if m := bulletRe.FindStringSubmatch(line); m != nil {
			blocks = append(blocks, Block{
				Kind:  BlockBullet,
				Spans: ParseInline(m[2]),
			})
			continue
		}

		blocks = append(blocks, Block{
			Kind:  BlockParagraph,
			Spans: ParseInline(strings.TrimSpace(line)),
		})
	}

	return blocks
}

type inlineMatch struct {
	kind       SpanKind
	start, end int
	content    string
}

// ParseInline splits a line into plain, bold, and code runs. The two
// patterns are scanned independently and merged by start offset, so run
// order is stable regardless of which pattern is scanned first.
func ParseInline(text string) []Span {
	var matches []inlineMatch

	for _, idx := range boldRe.FindAllStringSubmatchIndex(text, -1) {
		matches = append(matches, inlineMatch{
			kind:    SpanBold,
			start:   idx[0],
			end:     idx[1],
			content: text[idx[2]:idx[3]],
		})
	}
	for _, idx := range codeRe.FindAllStringSubmatchIndex(text, -1) {
		matches = append(matches, inlineMatch{
			kind:    SpanCode,
			start:   idx[0],
			end:     idx[1],
			content: text[idx[2]:idx[3]],
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].start < matches[j].start
	})

	var spans []Span
	last := 0
	for _, m := range matches {
		if m.start < last {
			// Overlapping match from the other pattern; first wins.
			continue
		}
		if m.start > last {
			spans = append(spans, Span{Kind: SpanText, Text: text[last:m.start]})
		}
		spans = append(spans, Span{Kind: m.kind, Text: m.content})
		last = m.end
	}
	if last < len(text) {
		spans = append(spans, Span{Kind: SpanText, Text: text[last:]})
	}

	if len(spans) == 0 {
		return []Span{{Kind: SpanText, Text: text}}
	}
	return spans
}

// PlainText flattens the spans of a block back into unstyled text.
func (b Block) PlainText() string {
	var sb strings.Builder
	for _, s := range b.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// ClampedIndent returns the nesting indent capped at MaxBulletIndent.
func (b Block) ClampedIndent() int {
	if b.Indent > MaxBulletIndent {
		return MaxBulletIndent
	}
	return b.Indent
}
