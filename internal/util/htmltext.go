package util

import (
	"strings"

	"golang.org/x/net/html"
)

// HTMLToText flattens an HTML fragment into plain text. Script and style
// contents are skipped; block-level boundaries collapse to single spaces.
// Input that is already plain text passes through unchanged apart from
// whitespace normalization.
func HTMLToText(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return normalizeSpace(fragment)
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		switch node.Type {
		case html.TextNode:
			buf.WriteString(node.Data)
			buf.WriteString(" ")
		case html.ElementNode:
			if node.Data == "script" || node.Data == "style" {
				return
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
		if node.Type == html.ElementNode && (node.Data == "p" || node.Data == "br" || node.Data == "div" || node.Data == "li") {
			buf.WriteString(" ")
		}
	}
	walk(doc)
	return normalizeSpace(buf.String())
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
