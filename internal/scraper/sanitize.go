package scraper

import (
	"strings"

	"golang.org/x/net/html"
)

// MaxDescriptionLen caps sanitized product descriptions, matching the
// column width of shop.products.description.
const MaxDescriptionLen = 4000

// CleanHTML converts rich-text product markup into plain text: tags
// and attributes are dropped, entities are decoded, whitespace runs
// (including CR/LF/TAB and non-breaking spaces) collapse to single
// spaces, and the result is trimmed and truncated to MaxDescriptionLen
// runes. Malformed markup never fails; worst case the result is empty
// or partial.
func CleanHTML(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}

	// html.Parse repairs arbitrary malformed input; it only errors on
	// reader failures, which strings.Reader cannot produce.
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return ""
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
			return
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	// strings.Fields splits on unicode whitespace, which covers the
	// NBSP runes produced by decoding &nbsp;.
	text := strings.Join(strings.Fields(b.String()), " ")

	runes := []rune(text)
	if len(runes) > MaxDescriptionLen {
		text = string(runes[:MaxDescriptionLen])
	}
	return text
}
