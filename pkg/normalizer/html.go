package normalizer

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	tableStartMarker = "\n\nTable: "
	tableEndMarker   = "\nEnd of table\n\n"
)

// skippableTags never carry statement text. Removed before traversal.
var skippableTags = strings.Join([]string{
	"img", "meta", "button", "input", "svg", "noscript", "iframe", "link",
	"head", "nav", "header", "footer", "object", "embed", "canvas", "map",
	"area", "param", "video", "audio", "track", "source", "select", "base",
	"br", "col", "hr", "wbr",
}, ",")

// processContent turns an HTML (or plain text) document into flat text.
func processContent(content string) string {
	if content == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}

	doc.Find(skippableTags).Remove()

	body := doc.Find("body")
	if body.Length() == 0 {
		return ""
	}

	var b strings.Builder
	extractFormattedText(&b, body.Get(0), false, false, false)

	return postprocess(b.String())
}

// extractFormattedText walks the tree depth first. The three flags are
// passed by value so a subtree never leaks state into its siblings.
func extractFormattedText(b *strings.Builder, n *html.Node, inScript, inStyle, inTable bool) {
	if n == nil {
		return
	}

	switch n.Type {
	case html.ElementNode:
		tag := strings.ToLower(n.Data)

		switch tag {
		case "script":
			inScript = true
		case "style":
			inStyle = true
		case "table":
			inTable = true
			b.WriteString(tableStartMarker)
		}

		if inTable {
			switch tag {
			case "tr":
				b.WriteString("\n")
			case "td", "th":
				b.WriteString("  ")
			}
		}

		if !inScript && !inStyle {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				extractFormattedText(b, c, inScript, inStyle, inTable)
			}
		}

		if tag == "table" {
			b.WriteString(tableEndMarker)
		}

	case html.TextNode:
		if inScript || inStyle {
			return
		}
		if text := strings.TrimFunc(n.Data, isTrimSpace); text != "" {
			b.WriteString(text)
			b.WriteString(" ")
		}
	}
}

func isTrimSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\ufeff'
}
