package sources

import (
	"context"
	"log/slog"
	"strings"

	"github.com/kova98/harvest/enums"
	"github.com/kova98/harvest/models"
	"github.com/kova98/harvest/normalizers"
	"github.com/kova98/harvest/queries"
	"github.com/kova98/harvest/transport"
	"github.com/tidwall/gjson"
)

const (
	DefaultPostLimit = 25
	DefaultCountry   = "US"
)

type PostSearchParams struct {
	Query string
	Scope string
	Sort  enums.RedditSort
	Time  enums.RedditTime
	Limit int
}

// RedditSource assembles reddit results from the public .json endpoints.
type RedditSource struct {
	logger   *slog.Logger
	fetcher  transport.Fetcher
	settings FetchSettings
}

func NewRedditSource(logger *slog.Logger, fetcher transport.Fetcher, settings FetchSettings) *RedditSource {
	return &RedditSource{
		logger:   logger,
		fetcher:  fetcher,
		settings: settings,
	}
}

func (s *RedditSource) SearchPosts(ctx context.Context, p PostSearchParams) (models.PostSearchResult, error) {
	if p.Sort == "" {
		p.Sort = enums.SortRelevance
	}
	if p.Time == "" {
		p.Time = enums.TimeAll
	}
	limit := postLimit(p.Limit)

	root, err := s.fetchJSON(ctx, s.op("search", p.Query), queries.RedditSearch(queries.RedditSearchParams{
		Query: p.Query,
		Scope: p.Scope,
		Sort:  p.Sort,
		Time:  p.Time,
		Limit: limit,
	}))
	if err != nil {
		return models.PostSearchResult{}, err
	}

	posts := postsFrom(root, limit)
	return models.PostSearchResult{Results: posts, TotalResults: len(posts)}, nil
}

// GetTrending ranks the popular feed for a country. Rank is the 1-based
// position in the feed as reddit returned it, so skipped repeats and non-post
// entries leave gaps.
func (s *RedditSource) GetTrending(ctx context.Context, country string, limit int) ([]models.TrendingTopic, error) {
	if strings.TrimSpace(country) == "" {
		country = DefaultCountry
	}
	limit = postLimit(limit)

	root, err := s.fetchJSON(ctx, s.op("trending", country), queries.RedditTrending(country, limit))
	if err != nil {
		return nil, err
	}

	posts, positions := rankedPostsFrom(root, limit)
	topics := make([]models.TrendingTopic, 0, len(posts))
	for i, post := range posts {
		topics = append(topics, models.TrendingTopic{
			Title:       post.Title,
			Subreddit:   post.Subreddit,
			Rank:        positions[i],
			Score:       post.Score,
			NumComments: post.NumComments,
			URL:         post.Permalink,
			CreatedUTC:  post.CreatedUTC,
		})
	}
	return topics, nil
}

func (s *RedditSource) GetSubredditTop(ctx context.Context, subreddit string, t enums.RedditTime, limit int) ([]models.Post, error) {
	if t == "" {
		t = enums.TimeDay
	}
	limit = postLimit(limit)

	root, err := s.fetchJSON(ctx, s.op("subreddit_top", subreddit), queries.RedditSubredditTop(subreddit, t, limit))
	if err != nil {
		return nil, err
	}
	return postsFrom(root, limit), nil
}

// GetThread loads a post and its comments. The response must be the
// [post listing, comment listing] pair; anything else is a ShapeError.
func (s *RedditSource) GetThread(ctx context.Context, id string, sort enums.RedditSort) (models.Thread, error) {
	if sort == "" {
		sort = enums.SortConfidence
	}
	c := s.op("thread", id)

	root, err := s.fetchJSON(ctx, c, queries.RedditThread(id, sort))
	if err != nil {
		return models.Thread{}, err
	}

	pair := root.Array()
	if !root.IsArray() || len(pair) != 2 {
		return models.Thread{}, shapeError(c, "expected a two-element [post, comments] array")
	}

	postNodes := normalizers.Children(pair[0])
	if len(postNodes) == 0 {
		return models.Thread{}, shapeError(c, "post listing has no post")
	}
	post := normalizers.NormalizePost(postNodes[0])

	flattener := normalizers.NewFlattener(post.Author)
	flattener.Logger = s.logger
	comments := flattener.Flatten(normalizers.Children(pair[1]))

	s.logger.Debug("thread flattened", "id", id, "comments", len(comments), "reported", post.NumComments)

	return models.Thread{
		Post:          post,
		Comments:      comments,
		TotalComments: post.NumComments,
	}, nil
}

func (s *RedditSource) fetchJSON(ctx context.Context, c call, req queries.Request) (gjson.Result, error) {
	text, err := fetchText(ctx, s.fetcher, s.settings, c, req)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.Valid(text) {
		return gjson.Result{}, shapeError(c, "body is not valid json")
	}
	return gjson.Parse(text), nil
}

func postsFrom(root gjson.Result, limit int) []models.Post {
	posts, _ := rankedPostsFrom(root, limit)
	return posts
}

// rankedPostsFrom normalizes the post entries of a listing feed, skipping
// repeats and anything that is not a post. positions[i] is the 1-based index
// of posts[i] in the raw feed.
func rankedPostsFrom(root gjson.Result, limit int) (posts []models.Post, positions []int) {
	nodes := normalizers.Children(root)
	posts = make([]models.Post, 0, min(len(nodes), limit))
	positions = make([]int, 0, cap(posts))
	seen := make(map[string]bool, len(nodes))
	for i, node := range nodes {
		if len(posts) == limit {
			break
		}
		if node.Kind != "" && node.Kind != normalizers.KindPost {
			continue
		}
		post := normalizers.NormalizePost(node)
		if post.ID == "" || seen[post.ID] {
			continue
		}
		seen[post.ID] = true
		posts = append(posts, post)
		positions = append(positions, i+1)
	}
	return posts, positions
}

func (s *RedditSource) op(operation, target string) call {
	return call{platform: enums.PlatformReddit, operation: operation, target: target}
}

func shapeError(c call, reason string) *ShapeError {
	return &ShapeError{Platform: c.platform, Operation: c.operation, Target: c.target, Reason: reason}
}

func postLimit(limit int) int {
	if limit <= 0 {
		return DefaultPostLimit
	}
	return queries.ClampLimit(limit)
}
