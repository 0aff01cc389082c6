package matchers

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kova98/harvest/enums"
)

// MatchKeyword reports whether text contains keyword under the given mode.
// Both sides are compared case-insensitively. An invalid mode never matches.
func MatchKeyword(mode enums.MatchMode, text, keyword string) bool {
	text = strings.ToLower(text)
	keyword = strings.ToLower(strings.TrimSpace(keyword))

	switch mode {
	case enums.MatchModeExact:
		return MatchesWholeWord(text, keyword)
	case enums.MatchModeBroad:
		return MatchesPartially(text, keyword)
	}
	return false
}

// MatchesWholeWord returns true if the keyword appears as a complete word in the text.
// Word boundaries are non-alphanumeric runes or the start/end of the string.
func MatchesWholeWord(text, keyword string) bool {
	if keyword == "" {
		return false
	}

	for idx := 0; idx < len(text); {
		pos := strings.Index(text[idx:], keyword)
		if pos == -1 {
			return false
		}
		pos += idx

		before, _ := utf8.DecodeLastRuneInString(text[:pos])
		leftOk := pos == 0 || !isWordChar(before)

		endPos := pos + len(keyword)
		after, _ := utf8.DecodeRuneInString(text[endPos:])
		rightOk := endPos == len(text) || !isWordChar(after)

		if leftOk && rightOk {
			return true
		}
		idx = pos + 1
	}
	return false
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func MatchesPartially(text, keyword string) bool {
	return strings.Contains(text, keyword)
}
