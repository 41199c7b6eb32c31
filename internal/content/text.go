package content

import (
	"strings"
	"unicode"
)

// normalize collapses every run of whitespace into a single space.
func normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// sentences splits normalized text after '.', '!' or '?' when followed by a
// space or the end of input. The terminator stays with its sentence.
func sentences(text string) []string {
	var (
		out   []string
		start int
	)
	runes := []rune(text)
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			out = append(out, s)
		}
		start = i + 1
	}
	if start < len(runes) {
		if s := strings.TrimSpace(string(runes[start:])); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// words lowercases text and splits it into word tokens. Phrase boundaries
// (punctuation other than '-' and '\'') are reported as empty tokens.
func words(text string) []string {
	var (
		out []string
		cur strings.Builder
	)
	flush := func() {
		if w := strings.Trim(cur.String(), "-'"); w != "" {
			out = append(out, w)
		}
		cur.Reset()
	}
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r):
			cur.WriteRune(r)
		case (r == '-' || r == '\'') && cur.Len() > 0:
			cur.WriteRune(r)
		case unicode.IsSpace(r):
			flush()
		default:
			flush()
			out = append(out, "")
		}
	}
	flush()
	return out
}
