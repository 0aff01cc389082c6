package normalizers

import "github.com/tidwall/gjson"

const (
	KindComment = "t1"
	KindPost    = "t3"
	KindListing = "Listing"
	KindMore    = "more"
)

// Node is a reddit "thing" after unwrapping. Kind is empty when the input was
// an already-unwrapped data payload.
type Node struct {
	Kind string
	Data gjson.Result
}

// Unwrap accepts either {kind, data} or a bare data object.
func Unwrap(raw gjson.Result) Node {
	kind := raw.Get("kind")
	data := raw.Get("data")
	if kind.Type == gjson.String && data.IsObject() {
		return Node{Kind: kind.String(), Data: data}
	}
	return Node{Data: raw}
}

// IsMore reports whether the node is a continuation marker: no content, only
// a pointer to replies that were not loaded.
func (n Node) IsMore() bool {
	if n.Kind != "" {
		return n.Kind == KindMore
	}
	return !n.Data.Get("body").Exists() &&
		!n.Data.Get("author").Exists() &&
		n.Data.Get("count").Exists() &&
		n.Data.Get("children").IsArray()
}

// Children returns the loaded child nodes of a listing. It accepts a wrapped
// Listing, its bare data object, a bare array of things, or the empty string
// reddit sends for "no replies".
func Children(raw gjson.Result) []Node {
	if raw.IsArray() {
		return unwrapAll(raw.Array())
	}
	if !raw.IsObject() {
		return nil
	}
	listing := Unwrap(raw)
	return unwrapAll(listing.Data.Get("children").Array())
}

func unwrapAll(items []gjson.Result) []Node {
	nodes := make([]Node, 0, len(items))
	for _, item := range items {
		if !item.IsObject() {
			continue
		}
		nodes = append(nodes, Unwrap(item))
	}
	return nodes
}
