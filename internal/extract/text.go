// Package extract normalizes pasted input before analysis: markup is reduced
// to its visible text so the provider judges prose, not tags.
package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// Normalize trims the input and, when it looks like markup, reduces it to
// visible text. Plain text passes through unchanged apart from trimming.
func Normalize(input string) string {
	trimmed := strings.TrimSpace(input)
	if !looksLikeHTML(trimmed) {
		return trimmed
	}

	doc, err := html.Parse(strings.NewReader(trimmed))
	if err != nil {
		return trimmed
	}

	text := strings.TrimSpace(visibleText(doc))
	if text == "" {
		// Markup with no visible text; let input validation reject it.
		return text
	}
	return text
}

// looksLikeHTML is a cheap structural check: an opening tag near the start of
// the input. Stray angle brackets inside prose do not trigger it.
func looksLikeHTML(s string) bool {
	if !strings.HasPrefix(s, "<") {
		return false
	}
	end := strings.IndexByte(s, '>')
	if end < 1 {
		return false
	}
	tag := s[1:end]
	tag = strings.TrimPrefix(tag, "/")
	tag = strings.TrimPrefix(tag, "!")
	if tag == "" {
		return false
	}
	for _, r := range tag {
		if r == ' ' || r == '\t' || r == '\n' {
			break
		}
		if !isTagRune(r) {
			return false
		}
	}
	return true
}

func isTagRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
		return true
	}
	return false
}

// visibleText extracts text nodes from HTML, skipping scripts/styles.
func visibleText(n *html.Node) string {
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
	}

	walk(n)
	return strings.TrimSpace(buf.String())
}
