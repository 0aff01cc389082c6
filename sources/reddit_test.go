package sources

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/kova98/harvest/enums"
	"github.com/kova98/harvest/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReddit(f *fakeFetcher) *RedditSource {
	return NewRedditSource(testutil.NullLogger(), f, DefaultFetchSettings())
}

const threadJSON = `[
{"kind":"Listing","data":{"children":[{"kind":"t3","data":{"id":"abc","title":"Show me your desk","author":"alice","subreddit":"battlestations","num_comments":7,"permalink":"/r/battlestations/comments/abc/show/","selftext":"here it is","is_self":true,"thumbnail":"self"}}]}},
{"kind":"Listing","data":{"children":[
  {"kind":"t1","data":{"id":"c1","author":"alice","body":"op here","depth":0,"replies":{"kind":"Listing","data":{"children":[
    {"kind":"t1","data":{"id":"c2","author":"bob","body":"nice","depth":1,"replies":{"kind":"Listing","data":{"children":[
      {"kind":"more","data":{"count":4,"children":["x","y"]}}
    ]}}}}
  ]}}}},
  {"kind":"t1","data":{"id":"c3","author":"[deleted]","body":"[removed]","depth":0,"replies":""}},
  {"kind":"more","data":{"count":12,"children":["z"]}}
]}}
]`

func TestGetThread_MarksOP(t *testing.T) {
	f := respond(threadJSON)

	thread, err := newReddit(f).GetThread(context.Background(), "t3_abc", "")
	require.NoError(t, err)

	assert.Equal(t, "abc", thread.Post.ID)
	assert.Equal(t, "alice", thread.Post.Author)
	assert.Equal(t, "r/battlestations", thread.Post.Subreddit)
	assert.Equal(t, "https://www.reddit.com/r/battlestations/comments/abc/show/", thread.Post.Permalink)
	assert.Nil(t, thread.Post.Thumbnail)
	assert.Equal(t, 7, thread.TotalComments)

	require.Len(t, thread.Comments, 3)
	assert.Equal(t, "c1", thread.Comments[0].ID)
	assert.True(t, thread.Comments[0].IsOP)
	assert.Equal(t, 1, thread.Comments[0].RepliesCount)
	assert.Equal(t, "c2", thread.Comments[1].ID)
	assert.False(t, thread.Comments[1].IsOP)
	assert.Equal(t, 0, thread.Comments[1].RepliesCount)
	assert.Equal(t, "c3", thread.Comments[2].ID)
	assert.False(t, thread.Comments[2].IsOP)

	u, err := url.Parse(f.urls[0])
	require.NoError(t, err)
	assert.Equal(t, "/comments/abc.json", u.Path)
	assert.Equal(t, "confidence", u.Query().Get("sort"))
}

func TestGetThread_BadShape(t *testing.T) {
	for name, body := range map[string]string{
		"object":      `{"kind":"Listing","data":{"children":[]}}`,
		"one element": `[{"kind":"Listing","data":{"children":[]}}]`,
		"no post":     `[{"kind":"Listing","data":{"children":[]}},{"kind":"Listing","data":{"children":[]}}]`,
		"not json":    `<html>blocked</html>`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := newReddit(respond(body)).GetThread(context.Background(), "abc", enums.SortNew)

			var shapeErr *ShapeError
			require.ErrorAs(t, err, &shapeErr)
			assert.Equal(t, enums.PlatformReddit, shapeErr.Platform)
			assert.Equal(t, "thread", shapeErr.Operation)
			assert.Equal(t, "abc", shapeErr.Target)
		})
	}
}

func TestGetThread_FetchError(t *testing.T) {
	f := &fakeFetcher{resp: fakeResponse{status: http.StatusTooManyRequests}}

	_, err := newReddit(f).GetThread(context.Background(), "abc", "")

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 429, fetchErr.StatusCode)
	assert.Contains(t, fetchErr.Error(), "429")
}

const feedJSON = `{"kind":"Listing","data":{"children":[
{"kind":"t3","data":{"id":"p1","title":"First","subreddit":"golang","author":"gopher","score":120,"num_comments":30,"permalink":"/r/golang/comments/p1/first/","created_utc":1700000000,"link_flair_text":"news","thumbnail":"https://img/1.jpg"}},
{"kind":"t3","data":{"id":"p1","title":"First again","subreddit":"golang"}},
{"kind":"t1","data":{"id":"c9","body":"a comment"}},
{"kind":"t3","data":{"id":"p2","title":"Second","subreddit_name_prefixed":"r/rust","score":80}},
{"kind":"t3","data":{"id":"p3","title":"Third","subreddit":"python"}}
]}}`

func TestSearchPosts_DedupAndTotal(t *testing.T) {
	f := respond(feedJSON)

	result, err := newReddit(f).SearchPosts(context.Background(), PostSearchParams{Query: "lang", Scope: "programming"})
	require.NoError(t, err)

	require.Len(t, result.Results, 3)
	assert.Equal(t, 3, result.TotalResults)
	assert.Equal(t, []string{"p1", "p2", "p3"}, []string{result.Results[0].ID, result.Results[1].ID, result.Results[2].ID})

	first := result.Results[0]
	assert.Equal(t, "r/golang", first.Subreddit)
	require.NotNil(t, first.LinkFlairText)
	assert.Equal(t, "news", *first.LinkFlairText)
	require.NotNil(t, first.Thumbnail)
	assert.Equal(t, "[deleted]", result.Results[1].Author)

	u, err := url.Parse(f.urls[0])
	require.NoError(t, err)
	assert.Equal(t, "/r/programming/search.json", u.Path)
	assert.Equal(t, "relevance", u.Query().Get("sort"))
	assert.Equal(t, "all", u.Query().Get("t"))
	assert.Equal(t, "25", u.Query().Get("limit"))
}

func TestSearchPosts_Limit(t *testing.T) {
	result, err := newReddit(respond(feedJSON)).SearchPosts(context.Background(), PostSearchParams{Query: "x", Limit: 2})
	require.NoError(t, err)

	assert.Len(t, result.Results, 2)
	assert.Equal(t, 2, result.TotalResults)
}

func TestSearchPosts_AcceptsUnwrappedItems(t *testing.T) {
	body := `{"kind":"Listing","data":{"children":[{"id":"u1","title":"bare","subreddit":"go"}]}}`

	result, err := newReddit(respond(body)).SearchPosts(context.Background(), PostSearchParams{Query: "x"})
	require.NoError(t, err)

	require.Len(t, result.Results, 1)
	assert.Equal(t, "u1", result.Results[0].ID)
}

func TestGetTrending_RankIsFeedPosition(t *testing.T) {
	f := respond(feedJSON)

	topics, err := newReddit(f).GetTrending(context.Background(), "", 10)
	require.NoError(t, err)

	require.Len(t, topics, 3)
	assert.Equal(t, []int{1, 4, 5}, []int{topics[0].Rank, topics[1].Rank, topics[2].Rank})
	assert.Equal(t, "First", topics[0].Title)
	assert.Equal(t, "https://www.reddit.com/r/golang/comments/p1/first/", topics[0].URL)
	assert.Equal(t, int64(1700000000), topics[0].CreatedUTC)
	assert.Equal(t, "r/rust", topics[1].Subreddit)

	u, err := url.Parse(f.urls[0])
	require.NoError(t, err)
	assert.Equal(t, "US", u.Query().Get("geo_filter"))
}

func TestGetSubredditTop(t *testing.T) {
	f := respond(feedJSON)

	posts, err := newReddit(f).GetSubredditTop(context.Background(), "golang", "", 0)
	require.NoError(t, err)

	assert.Len(t, posts, 3)
	u, err := url.Parse(f.urls[0])
	require.NoError(t, err)
	assert.Equal(t, "/r/golang/top.json", u.Path)
	assert.Equal(t, "day", u.Query().Get("t"))
}

func TestGetSubredditTop_NotJSON(t *testing.T) {
	_, err := newReddit(respond("<html>login</html>")).GetSubredditTop(context.Background(), "golang", enums.TimeWeek, 5)

	var shapeErr *ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "subreddit_top", shapeErr.Operation)
}
