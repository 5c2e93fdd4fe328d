package ingest

import (
	"strings"

	"golang.org/x/net/html"
)

// VisibleText extracts the readable text of an HTML document, skipping
// scripts and styles. Block elements are separated by blank lines so
// the chunker sees paragraph boundaries.
func VisibleText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", &ExtractionError{Reason: "parse HTML", Err: err}
	}

	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && isBlockElement(n.Data) {
			buf.WriteString("\n\n")
		}
	}

	walk(doc)
	return buf.String(), nil
}

func isBlockElement(tag string) bool {
	switch tag {
	case "p", "div", "section", "article", "li", "blockquote", "pre",
		"h1", "h2", "h3", "h4", "h5", "h6", "table", "tr":
		return true
	}
	return false
}
