package queries

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/kova98/harvest/enums"
)

const RedditBaseURL = "https://www.reddit.com"

// RedditHeaders is the mobile-browser identity used for the .json endpoints.
var RedditHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Mobile Safari/537.36",
	"Accept":          "application/json, text/plain, */*",
	"Accept-Language": "en-US,en;q=0.9",
}

type RedditSearchParams struct {
	Query string
	Scope string
	Sort  enums.RedditSort
	Time  enums.RedditTime
	Limit int
}

func RedditSearch(p RedditSearchParams) Request {
	scope := normalizeScope(p.Scope)

	q := url.Values{}
	q.Set("q", p.Query)
	q.Set("sort", string(p.Sort))
	q.Set("t", string(p.Time))
	q.Set("limit", strconv.Itoa(ClampLimit(p.Limit)))
	if scope != "all" {
		q.Set("restrict_sr", "1")
	}
	q.Set("raw_json", "1")

	return Request{
		URL:     fmt.Sprintf("%s/r/%s/search.json?%s", RedditBaseURL, url.PathEscape(scope), q.Encode()),
		Headers: copyHeaders(RedditHeaders),
	}
}

func RedditTrending(country string, limit int) Request {
	q := url.Values{}
	q.Set("geo_filter", strings.ToUpper(strings.TrimSpace(country)))
	q.Set("limit", strconv.Itoa(ClampLimit(limit)))
	q.Set("raw_json", "1")

	return Request{
		URL:     fmt.Sprintf("%s/r/popular.json?%s", RedditBaseURL, q.Encode()),
		Headers: copyHeaders(RedditHeaders),
	}
}

func RedditSubredditTop(subreddit string, t enums.RedditTime, limit int) Request {
	q := url.Values{}
	q.Set("t", string(t))
	q.Set("limit", strconv.Itoa(ClampLimit(limit)))
	q.Set("raw_json", "1")

	return Request{
		URL:     fmt.Sprintf("%s/r/%s/top.json?%s", RedditBaseURL, url.PathEscape(normalizeScope(subreddit)), q.Encode()),
		Headers: copyHeaders(RedditHeaders),
	}
}

func RedditThread(id string, sort enums.RedditSort) Request {
	q := url.Values{}
	q.Set("sort", string(sort))
	q.Set("raw_json", "1")

	return Request{
		URL:     fmt.Sprintf("%s/comments/%s.json?%s", RedditBaseURL, url.PathEscape(strings.TrimPrefix(id, "t3_")), q.Encode()),
		Headers: copyHeaders(RedditHeaders),
	}
}

// normalizeScope accepts "golang", "r/golang" or "/r/golang"; blank means all.
func normalizeScope(scope string) string {
	scope = strings.TrimSpace(scope)
	scope = strings.TrimPrefix(scope, "/")
	if len(scope) > 2 && strings.EqualFold(scope[:2], "r/") {
		scope = scope[2:]
	}
	scope = strings.TrimSuffix(scope, "/")
	if scope == "" || strings.EqualFold(scope, "all") {
		return "all"
	}
	return scope
}
