package extract

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// MaxQueryRunes caps normalized queries to stay under provider query limits
const MaxQueryRunes = 60

// NormalizeQuery converts raw highlighted text into a bounded, search-safe
// query: letters, digits and single spaces only, at most MaxQueryRunes runes.
// It never fails; garbage input yields an empty string.
func NormalizeQuery(text string) string {
	if looksLikeMarkup(text) {
		text = PlainText(text)
	}

	// Compose first so accented letters written with combining marks survive
	text = norm.NFC.String(text)

	out := make([]rune, 0, MaxQueryRunes)
	pendingSpace := false
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSpace && len(out) > 0 {
				out = append(out, ' ')
			}
			pendingSpace = false
			out = append(out, r)
		case unicode.IsSpace(r):
			pendingSpace = true
		}
		if len(out) >= MaxQueryRunes {
			break
		}
	}

	if len(out) > MaxQueryRunes {
		out = out[:MaxQueryRunes]
	}
	return strings.TrimRight(string(out), " ")
}

// looksLikeMarkup reports whether text plausibly contains HTML tags
func looksLikeMarkup(text string) bool {
	open := strings.IndexByte(text, '<')
	return open >= 0 && strings.IndexByte(text[open:], '>') > 0
}

// PlainText returns the visible text of an HTML fragment, skipping script and
// style content. Input that is not markup is returned with tags removed and
// entities decoded.
func PlainText(markup string) string {
	var buf strings.Builder

	z := html.NewTokenizer(strings.NewReader(markup))
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(buf.String())
		case html.StartTagToken:
			if hidden(z) {
				skip++
			}
			buf.WriteByte(' ')
		case html.EndTagToken:
			if hidden(z) && skip > 0 {
				skip--
			}
			buf.WriteByte(' ')
		case html.SelfClosingTagToken:
			buf.WriteByte(' ')
		case html.TextToken:
			if skip == 0 {
				buf.Write(z.Text())
			}
		}
	}
}

// hidden reports whether the current tag holds non-visible content
func hidden(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	switch string(name) {
	case "script", "style", "noscript", "iframe":
		return true
	}
	return false
}
