package feed

import (
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

const (
	PreviewLimit  = 150
	PreviewSuffix = "..."
)

// PreviewText strips all markup from an HTML fragment and caps the result at
// PreviewLimit runes followed by PreviewSuffix. Input the tokenizer cannot
// read degrades to an empty string.
func PreviewText(fragment string) string {
	text, ok := stripTags(fragment)
	if !ok {
		return ""
	}
	return truncate(text, PreviewLimit)
}

// FirstImageURL returns the src of the first img element in document order.
func FirstImageURL(fragment string) (string, bool) {
	z := html.NewTokenizer(strings.NewReader(fragment))

	for {
		switch z.Next() {
		case html.ErrorToken:
			return "", false

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "img" {
				continue
			}
			// first img wins, even without a usable src
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) == "src" {
					src := strings.TrimSpace(string(val))
					return src, src != ""
				}
			}
			return "", false
		}
	}
}

func stripTags(fragment string) (string, bool) {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))

	depthSkip := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				return "", false
			}
			return norm.NFC.String(normalizeWS(b.String())), true

		case html.StartTagToken:
			name, _ := z.TagName()
			if skipTag(name) {
				depthSkip++
			} else if breaksText(name) {
				b.WriteByte(' ')
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			if skipTag(name) && depthSkip > 0 {
				depthSkip--
			} else if breaksText(name) {
				b.WriteByte(' ')
			}

		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			if breaksText(name) {
				b.WriteByte(' ')
			}

		case html.TextToken:
			if depthSkip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func skipTag(name []byte) bool {
	switch string(name) {
	case "script", "style", "noscript":
		return true
	default:
		return false
	}
}

// Block-level boundaries keep words from adjacent paragraphs apart.
func breaksText(name []byte) bool {
	switch string(name) {
	case "p", "br", "div", "li", "h1", "h2", "h3", "h4", "h5", "h6", "figure", "figcaption", "blockquote", "pre", "tr":
		return true
	default:
		return false
	}
}

func normalizeWS(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + PreviewSuffix
}
