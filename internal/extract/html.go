package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// VisibleText returns the text content of an HTML fragment with markup
// removed and whitespace collapsed. Plain text passes through unchanged apart
// from entity decoding. Script and style contents are skipped.
func VisibleText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}

	var buf strings.Builder
	skip := 0

	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(buf.String()), " ")

		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if isHiddenElement(string(name)) {
				skip++
			}
			if isBlockElement(string(name)) {
				buf.WriteString(" ")
			}

		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if isHiddenElement(string(name)) && skip > 0 {
				skip--
			}
			if isBlockElement(string(name)) {
				buf.WriteString(" ")
			}

		case html.SelfClosingTagToken:
			buf.WriteString(" ")

		case html.TextToken:
			if skip == 0 {
				buf.Write(tokenizer.Text())
			}
		}
	}
}

func isHiddenElement(name string) bool {
	switch name {
	case "script", "style", "noscript", "iframe":
		return true
	}
	return false
}

func isBlockElement(name string) bool {
	switch name {
	case "p", "div", "br", "li", "ul", "ol", "tr", "td", "h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}
	return false
}
