// Package processing holds the plain-text transforms shared by the
// enrichment and repurposing stages.
package processing

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const trailingPunct = " ,.;:!?"

var (
	hashtagExpr = regexp.MustCompile(`(?:^|\s)#\w+`)
	mentionExpr = regexp.MustCompile(`(?:^|\s)@\w+`)

	quoteStripper = strings.NewReplacer(
		`"`, "",
		"'", "",
		"“", "", // curly double quotes
		"”", "",
		"‘", "", // curly single quotes
		"’", "",
	)

	markerStripper = strings.NewReplacer(
		"**", "",
		"__", "",
		"—", "-", // em dash
	)
)

// StripHTML turns markup into plain text: tags become word boundaries,
// entities are decoded, whitespace runs collapse to single spaces.
// Unparseable input degrades to a collapsed copy of itself.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return Collapse(s)
	}

	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			parts = append(parts, n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, node := range doc.Nodes {
		walk(node)
	}

	return Collapse(strings.Join(parts, " "))
}

// Collapse squeezes every whitespace run (Unicode-aware, NBSP included)
// to a single space and trims the ends.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SoftTrim bounds s to limit runes without splitting a word: collapse
// first, return as-is when already short enough, otherwise cut at the
// limit, back up to the last space and drop trailing punctuation. A cut
// with no space in it is returned raw. Idempotent for a fixed limit.
func SoftTrim(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	s = Collapse(s)
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	cut := string(runes[:limit])
	i := strings.LastIndex(cut, " ")
	if i < 0 {
		return cut
	}
	return strings.TrimRight(cut[:i], trailingPunct)
}

// Truncate is the plain rune cut used to cap prompt context.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// SanitizeField normalizes one model-generated short field: bold and
// italic markers removed, em dashes normalized, wrapping quotes and
// whitespace trimmed.
func SanitizeField(s string) string {
	if s == "" {
		return ""
	}
	s = strings.TrimSpace(markerStripper.Replace(s))
	return strings.TrimSpace(strings.Trim(s, `"`))
}

// SanitizeTweet normalizes a model-generated tweet: formatting markers
// and quote characters removed, hashtag and mention tokens dropped,
// whitespace collapsed.
func SanitizeTweet(s string) string {
	if s == "" {
		return ""
	}
	s = markerStripper.Replace(s)
	s = quoteStripper.Replace(s)
	s = hashtagExpr.ReplaceAllString(s, "")
	s = mentionExpr.ReplaceAllString(s, "")
	return Collapse(s)
}
