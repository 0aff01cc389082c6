package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/kova98/harvest/enums"
	"github.com/kova98/harvest/matchers"
	"github.com/kova98/harvest/models"
	"github.com/kova98/harvest/queries"
	"github.com/kova98/harvest/sources"
)

type RedditService interface {
	SearchPosts(ctx context.Context, p sources.PostSearchParams) (models.PostSearchResult, error)
	GetTrending(ctx context.Context, country string, limit int) ([]models.TrendingTopic, error)
	GetSubredditTop(ctx context.Context, subreddit string, t enums.RedditTime, limit int) ([]models.Post, error)
	GetThread(ctx context.Context, id string, sort enums.RedditSort) (models.Thread, error)
}

type RedditHandler struct {
	service RedditService
}

func NewRedditHandler(service RedditService) *RedditHandler {
	return &RedditHandler{service}
}

func (h *RedditHandler) SearchPosts(w http.ResponseWriter, r *http.Request) Result {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		return BadRequest("Query is required.")
	}

	sort := enums.RedditSort(r.URL.Query().Get("sort"))
	if sort == "" {
		sort = enums.SortRelevance
	}
	if !sort.ValidForSearch() {
		return BadRequest("Invalid sort.")
	}

	t, ok := redditTime(r, enums.TimeAll)
	if !ok {
		return BadRequest("Invalid time.")
	}

	limit, ok := queryLimit(r, sources.DefaultPostLimit)
	if !ok {
		return BadRequest(fmt.Sprintf("Limit must be between 1 and %d.", queries.MaxLimit))
	}

	res, err := h.service.SearchPosts(r.Context(), sources.PostSearchParams{
		Query: query,
		Scope: strings.TrimSpace(r.URL.Query().Get("scope")),
		Sort:  sort,
		Time:  t,
		Limit: limit,
	})
	if err != nil {
		return SourceError(err, "search posts: ")
	}

	return Ok(res)
}

// GetTrending optionally narrows the feed with include/exclude subreddit
// lists. Ranks keep their position in the unfiltered feed.
func (h *RedditHandler) GetTrending(w http.ResponseWriter, r *http.Request) Result {
	country := strings.TrimSpace(r.URL.Query().Get("country"))
	if country == "" {
		country = sources.DefaultCountry
	}

	limit, ok := queryLimit(r, sources.DefaultPostLimit)
	if !ok {
		return BadRequest(fmt.Sprintf("Limit must be between 1 and %d.", queries.MaxLimit))
	}

	topics, err := h.service.GetTrending(r.Context(), country, limit)
	if err != nil {
		return SourceError(err, "get trending: ")
	}

	filters := models.SubredditFilters{
		Subreddits:        queryList(r, "include"),
		ExcludeSubreddits: queryList(r, "exclude"),
	}
	filtered := make([]models.TrendingTopic, 0, len(topics))
	for _, topic := range topics {
		if matchers.MatchesSubreddit(filters, topic.Subreddit) {
			filtered = append(filtered, topic)
		}
	}

	return Ok(filtered)
}

func (h *RedditHandler) GetSubredditTop(w http.ResponseWriter, r *http.Request) Result {
	subreddit := strings.TrimSpace(r.PathValue("subreddit"))
	if subreddit == "" {
		return BadRequest("Subreddit is required.")
	}

	t, ok := redditTime(r, enums.TimeDay)
	if !ok {
		return BadRequest("Invalid time.")
	}

	limit, ok := queryLimit(r, sources.DefaultPostLimit)
	if !ok {
		return BadRequest(fmt.Sprintf("Limit must be between 1 and %d.", queries.MaxLimit))
	}

	posts, err := h.service.GetSubredditTop(r.Context(), subreddit, t, limit)
	if err != nil {
		return SourceError(err, "get subreddit top: ")
	}

	return Ok(posts)
}

func (h *RedditHandler) GetThread(w http.ResponseWriter, r *http.Request) Result {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		return BadRequest("Thread ID is required.")
	}

	sort := enums.RedditSort(r.URL.Query().Get("sort"))
	if sort == "" {
		sort = enums.SortConfidence
	}
	if !sort.ValidForThread() {
		return BadRequest("Invalid sort.")
	}

	thread, err := h.service.GetThread(r.Context(), id, sort)
	if err != nil {
		return SourceError(err, "get thread: ")
	}

	return Ok(thread)
}

func redditTime(r *http.Request, defaultValue enums.RedditTime) (enums.RedditTime, bool) {
	t := enums.RedditTime(r.URL.Query().Get("time"))
	if t == "" {
		return defaultValue, true
	}
	return t, t.Valid()
}
