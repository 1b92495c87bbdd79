package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/qtext/pkg/domain"
)

// inlineMarkers maps inline styles to markdown delimiters, outermost first.
// Styles without a markdown form (underline, colors, fonts) render as plain text.
var inlineMarkers = []struct {
	key    string
	marker string
}{
	{"BOLD", "**"},
	{"ITALIC", "_"},
	{"STRIKETHROUGH", "~~"},
	{"CODE", "`"},
}

const (
	blockCode      = "code-block"
	blockQuote     = "blockquote"
	blockUnordered = "unordered-list-item"
	blockOrdered   = "ordered-list-item"
)

var headingPrefix = map[string]string{
	"header-one":   "# ",
	"header-two":   "## ",
	"header-three": "### ",
	"header-four":  "#### ",
	"header-five":  "##### ",
	"header-six":   "###### ",
}

// Markdown renders doc as markdown for terminal preview.
func Markdown(doc *domain.Document) string {
	var sb strings.Builder
	blocks := doc.Content.Blocks
	ordinal := 0

	for i, b := range blocks {
		prevType := ""
		if i > 0 {
			prevType = blocks[i-1].Type
		}
		nextType := ""
		if i+1 < len(blocks) {
			nextType = blocks[i+1].Type
		}

		if i > 0 {
			if (isList(b.Type) && b.Type == prevType) || (b.Type == blockCode && prevType == blockCode) {
				sb.WriteString("\n")
			} else {
				sb.WriteString("\n\n")
			}
		}
		if b.Type == blockOrdered {
			if prevType != b.Type {
				ordinal = 0
			}
			ordinal++
		}

		switch {
		case b.Type == blockCode:
			if prevType != blockCode {
				sb.WriteString("```\n")
			}
			sb.WriteString(b.Text)
			if nextType != blockCode {
				sb.WriteString("\n```")
			}
		case headingPrefix[b.Type] != "":
			sb.WriteString(headingPrefix[b.Type])
			sb.WriteString(inlineMarkdown(b))
		case b.Type == blockQuote:
			sb.WriteString("> ")
			sb.WriteString(inlineMarkdown(b))
		case b.Type == blockUnordered:
			sb.WriteString("- ")
			sb.WriteString(inlineMarkdown(b))
		case b.Type == blockOrdered:
			fmt.Fprintf(&sb, "%d. ", ordinal)
			sb.WriteString(inlineMarkdown(b))
		default:
			sb.WriteString(inlineMarkdown(b))
		}
	}
	return sb.String()
}

func isList(blockType string) bool {
	return blockType == blockUnordered || blockType == blockOrdered
}

// inlineMarkdown wraps each run of equally styled characters in its markers.
func inlineMarkdown(b domain.Block) string {
	runes := []rune(b.Text)
	var sb strings.Builder

	for start := 0; start < len(runes); {
		markers := markersAt(b, start)
		end := start + 1
		for end < len(runes) && markersAt(b, end) == markers {
			end++
		}
		run := string(runes[start:end])
		if markers == "" {
			sb.WriteString(run)
		} else {
			sb.WriteString(markers)
			sb.WriteString(run)
			sb.WriteString(reverseMarkers(b, start))
		}
		start = end
	}
	return sb.String()
}

func markersAt(b domain.Block, i int) string {
	styles := b.StyleAt(i)
	var out string
	for _, m := range inlineMarkers {
		if styles.Has(m.key) {
			out += m.marker
		}
	}
	return out
}

func reverseMarkers(b domain.Block, i int) string {
	styles := b.StyleAt(i)
	var out string
	for j := len(inlineMarkers) - 1; j >= 0; j-- {
		if styles.Has(inlineMarkers[j].key) {
			out += inlineMarkers[j].marker
		}
	}
	return out
}
