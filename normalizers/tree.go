package normalizers

import (
	"log/slog"

	"github.com/kova98/harvest/models"
)

const (
	DefaultMaxDepth = 3

	// DefaultDepthCeiling bounds recursion on hostile input. It counts nesting
	// levels actually walked, independent of the source's depth field.
	DefaultDepthCeiling = 64
)

// Flattener turns a reply tree into a pre-order list. Inclusion is bounded by
// MaxDepth, traversal is not: nodes deeper than MaxDepth are still walked so
// their descendants are visited, up to DepthCeiling nesting levels.
type Flattener struct {
	MaxDepth     int
	DepthCeiling int
	ThreadAuthor string
	Logger       *slog.Logger

	// OnVisit, if set, sees every normalized node and whether it was emitted.
	OnVisit func(c models.Comment, included bool)
}

func NewFlattener(threadAuthor string) *Flattener {
	return &Flattener{
		MaxDepth:     DefaultMaxDepth,
		DepthCeiling: DefaultDepthCeiling,
		ThreadAuthor: threadAuthor,
	}
}

func (f *Flattener) Flatten(nodes []Node) []models.Comment {
	out := make([]models.Comment, 0, len(nodes))
	return f.walk(nodes, 0, out)
}

func (f *Flattener) walk(nodes []Node, level int, out []models.Comment) []models.Comment {
	ceiling := f.DepthCeiling
	if ceiling <= 0 {
		ceiling = DefaultDepthCeiling
	}
	if level >= ceiling {
		if f.Logger != nil {
			f.Logger.Warn("comment tree exceeds traversal ceiling", "ceiling", ceiling, "skipped", len(nodes))
		}
		return out
	}

	for _, node := range nodes {
		if node.IsMore() {
			continue
		}

		comment := NormalizeComment(node, f.ThreadAuthor)
		included := comment.Depth <= f.MaxDepth
		if included {
			out = append(out, comment)
		}
		if f.OnVisit != nil {
			f.OnVisit(comment, included)
		}

		out = f.walk(Children(node.Data.Get("replies")), level+1, out)
	}
	return out
}
