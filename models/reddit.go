package models

const DeletedAuthor = "[deleted]"

type Post struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Subreddit     string  `json:"subreddit"`
	Author        string  `json:"author"`
	Score         int     `json:"score"`
	NumComments   int     `json:"num_comments"`
	URL           string  `json:"url"`
	Permalink     string  `json:"permalink"`
	CreatedUTC    int64   `json:"created_utc"`
	BodyPreview   string  `json:"body_preview"`
	IsSelf        bool    `json:"is_self"`
	Thumbnail     *string `json:"thumbnail"`
	LinkFlairText *string `json:"link_flair_text"`
	UpvoteRatio   float64 `json:"upvote_ratio"`
	Awards        int     `json:"awards"`
}

type Comment struct {
	ID           string `json:"id"`
	Author       string `json:"author"`
	Body         string `json:"body"`
	Score        int    `json:"score"`
	CreatedUTC   int64  `json:"created_utc"`
	Depth        int    `json:"depth"`
	IsOP         bool   `json:"is_op"`
	Awards       int    `json:"awards"`
	RepliesCount int    `json:"replies_count"`
}

// Thread holds a post and its pre-order flattened comments. TotalComments is
// the post's reported comment count, not len(Comments).
type Thread struct {
	Post          Post      `json:"post"`
	Comments      []Comment `json:"comments"`
	TotalComments int       `json:"total_comments"`
}

type TrendingTopic struct {
	Title       string `json:"title"`
	Subreddit   string `json:"subreddit"`
	Rank        int    `json:"rank"`
	Score       int    `json:"score"`
	NumComments int    `json:"num_comments"`
	URL         string `json:"url"`
	CreatedUTC  int64  `json:"created_utc"`
}

type PostSearchResult struct {
	Results      []Post `json:"results"`
	TotalResults int    `json:"total_results"`
}

// SubredditFilters narrows a post collection by subreddit. Exclusions win over
// inclusions; an empty include list allows everything not excluded.
type SubredditFilters struct {
	Subreddits        []string `json:"subreddits"`
	ExcludeSubreddits []string `json:"excludeSubreddits"`
}
