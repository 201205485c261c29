package ui

import (
	"html"
	"regexp"
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
	"github.com/microcosm-cc/bluemonday"
)

var (
	strict     = bluemonday.StrictPolicy()
	breakTags  = regexp.MustCompile(`(?i)<br\s*/?>|</p>|</div>|</li>`)
	blankLines = regexp.MustCompile(`\n{3,}`)
)

// PlainText reduces rich-text HTML to plain text. Paragraphs and line breaks
// become newlines.
func PlainText(s string) string {
	s = breakTags.ReplaceAllString(s, "\n")
	s = html.UnescapeString(strict.Sanitize(s))
	s = strings.ReplaceAll(s, "\u00a0", " ")
	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimSpace(ln)
	}
	s = blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(s)
}

// Inline is PlainText on a single line, cut to width cells.
func Inline(s string, width int) string {
	s = strings.Join(strings.Fields(PlainText(s)), " ")
	if width > 0 && xansi.StringWidth(s) > width {
		return xansi.Truncate(s, width, "…")
	}
	return s
}
