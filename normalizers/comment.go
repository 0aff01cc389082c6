package normalizers

import "github.com/kova98/harvest/models"

// NormalizeComment projects a comment node. threadAuthor is the post's author;
// it decides IsOP. Deleted authors are never OP.
func NormalizeComment(n Node, threadAuthor string) models.Comment {
	d := n.Data
	a := author(d)

	return models.Comment{
		ID:           d.Get("id").String(),
		Author:       a,
		Body:         Truncate(d.Get("body").String(), CommentBodyCap),
		Score:        int(d.Get("score").Int()),
		CreatedUTC:   d.Get("created_utc").Int(),
		Depth:        int(d.Get("depth").Int()),
		IsOP:         a != models.DeletedAuthor && a == threadAuthor,
		Awards:       int(d.Get("total_awards_received").Int()),
		RepliesCount: countLoaded(Children(d.Get("replies"))),
	}
}

func countLoaded(children []Node) int {
	count := 0
	for _, c := range children {
		if !c.IsMore() {
			count++
		}
	}
	return count
}
