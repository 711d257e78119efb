package brief

import (
	"regexp"
	"strings"
	"unicode"
)

var titlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`Ad (?:.*?):\s*"([^"]+)"`),
	regexp.MustCompile(`Video Title:\s*"([^"]+)"`),
	regexp.MustCompile(`(?im)^[ \t]*title:[ \t]*"?([^"\n]*)"?`),
}

// ExtractTitle finds the brief title. The ad-line form wins over
// "Video Title:", which wins over a line-leading "Title:".
func ExtractTitle(text string) (string, bool) {
	for _, re := range titlePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if title := strings.TrimSpace(m[1]); title != "" {
			return title, true
		}
		return "", false
	}
	return "", false
}

// Sanitize turns a title into a filename stem. Letters, digits, spaces and
// -_()[] are kept; anything else separates words. Words are joined with '_'.
func Sanitize(title string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return r
		case strings.ContainsRune("-_()[]", r):
			return r
		}
		return ' '
	}, title)
	return strings.Join(strings.Fields(cleaned), "_")
}
