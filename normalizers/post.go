package normalizers

import (
	"strings"

	"github.com/kova98/harvest/models"
	"github.com/tidwall/gjson"
)

const BaseURL = "https://www.reddit.com"

// thumbnail values reddit uses to mean "no image".
var thumbnailSentinels = map[string]bool{
	"self":    true,
	"default": true,
}

func NormalizePost(n Node) models.Post {
	d := n.Data

	post := models.Post{
		ID:          d.Get("id").String(),
		Title:       d.Get("title").String(),
		Subreddit:   canonicalSubreddit(d),
		Author:      author(d),
		Score:       int(d.Get("score").Int()),
		NumComments: int(d.Get("num_comments").Int()),
		URL:         d.Get("url").String(),
		Permalink:   AbsolutePermalink(d.Get("permalink").String()),
		CreatedUTC:  d.Get("created_utc").Int(),
		BodyPreview: Truncate(d.Get("selftext").String(), PreviewCap),
		IsSelf:      d.Get("is_self").Bool(),
		UpvoteRatio: d.Get("upvote_ratio").Float(),
		Awards:      int(d.Get("total_awards_received").Int()),
	}

	if thumb := d.Get("thumbnail").String(); thumb != "" && !thumbnailSentinels[thumb] {
		post.Thumbnail = &thumb
	}
	if flair := d.Get("link_flair_text"); flair.Type == gjson.String && flair.String() != "" {
		text := flair.String()
		post.LinkFlairText = &text
	}

	return post
}

// AbsolutePermalink prefixes a relative permalink with the reddit origin.
func AbsolutePermalink(permalink string) string {
	if permalink == "" {
		return ""
	}
	if strings.HasPrefix(permalink, "http://") || strings.HasPrefix(permalink, "https://") {
		return permalink
	}
	if !strings.HasPrefix(permalink, "/") {
		permalink = "/" + permalink
	}
	return BaseURL + permalink
}

func canonicalSubreddit(d gjson.Result) string {
	if prefixed := d.Get("subreddit_name_prefixed").String(); prefixed != "" {
		return prefixed
	}
	name := strings.TrimPrefix(d.Get("subreddit").String(), "r/")
	if name == "" {
		return ""
	}
	return "r/" + name
}

func author(d gjson.Result) string {
	if a := d.Get("author").String(); a != "" {
		return a
	}
	return models.DeletedAuthor
}
