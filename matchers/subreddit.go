package matchers

import (
	"strings"

	"github.com/kova98/harvest/models"
)

// MatchesSubreddit checks a subreddit against include/exclude filters. Names
// may be given with or without the "r/" prefix.
func MatchesSubreddit(f models.SubredditFilters, subreddit string) bool {
	name := bareSubreddit(subreddit)

	for _, excluded := range f.ExcludeSubreddits {
		if strings.EqualFold(bareSubreddit(excluded), name) {
			return false
		}
	}

	if len(f.Subreddits) == 0 {
		return true
	}

	for _, included := range f.Subreddits {
		if strings.EqualFold(bareSubreddit(included), name) {
			return true
		}
	}

	return false
}

func bareSubreddit(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "/")
	if len(s) > 2 && strings.EqualFold(s[:2], "r/") {
		return s[2:]
	}
	return s
}
