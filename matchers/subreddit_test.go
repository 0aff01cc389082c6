package matchers

import (
	"testing"

	"github.com/kova98/harvest/models"
	"github.com/stretchr/testify/assert"
)

func TestMatchesSubreddit_EmptyFilters(t *testing.T) {
	assert.True(t, MatchesSubreddit(models.SubredditFilters{}, "r/anything"))
}

func TestMatchesSubreddit_IncludeList(t *testing.T) {
	filters := models.SubredditFilters{
		Subreddits: []string{"golang", "r/programming"},
	}

	assert.True(t, MatchesSubreddit(filters, "r/golang"))
	assert.True(t, MatchesSubreddit(filters, "programming"))
	assert.False(t, MatchesSubreddit(filters, "r/funny"))
}

func TestMatchesSubreddit_ExcludeTakesPrecedence(t *testing.T) {
	filters := models.SubredditFilters{
		Subreddits:        []string{"golang", "rust"},
		ExcludeSubreddits: []string{"r/golang"},
	}

	assert.False(t, MatchesSubreddit(filters, "r/golang"), "excluded should override included")
	assert.True(t, MatchesSubreddit(filters, "r/rust"))
}

func TestMatchesSubreddit_CaseInsensitive(t *testing.T) {
	include := models.SubredditFilters{Subreddits: []string{"GoLang"}}
	exclude := models.SubredditFilters{ExcludeSubreddits: []string{"GOLANG"}}

	assert.True(t, MatchesSubreddit(include, "R/golang"))
	assert.False(t, MatchesSubreddit(exclude, "r/GoLang"))
}
