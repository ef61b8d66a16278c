// Package htmltext extracts plain text and structure from generated
// HTML bodies and Markdown-style outlines.
package htmltext

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var headingRe = regexp.MustCompile(`(?m)^#+\s+(.+)$`)

// PlainText strips markup from an HTML fragment and collapses whitespace.
// Invalid markup falls back to a tag-free best effort rather than failing.
func PlainText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.Join(strings.Fields(html), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// WordCount counts whitespace-separated words in the plain text of html.
func WordCount(html string) int {
	txt := PlainText(html)
	if txt == "" {
		return 0
	}
	return len(strings.Fields(txt))
}

// Headings returns, in order, the heading lines of a Markdown-style
// outline with their leading hash markers stripped.
func Headings(outline string) []string {
	matches := headingRe.FindAllStringSubmatch(outline, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return out
}
