package enums

import "strings"

type MatchMode string

const (
	MatchModeInvalid MatchMode = ""

	// MatchModeBroad allows partial matches within words.
	// For example, the keyword "bike" will match "bike", "bikes", and "motorbike".
	MatchModeBroad MatchMode = "broad"

	// MatchModeExact requires an exact match of the whole word.
	// For example, the keyword "bike" will match "road bike" but not "motorbike".
	MatchModeExact MatchMode = "exact"
)

func ParseMatchMode(s string) MatchMode {
	switch MatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case MatchModeBroad:
		return MatchModeBroad
	case MatchModeExact:
		return MatchModeExact
	}
	return MatchModeInvalid
}
