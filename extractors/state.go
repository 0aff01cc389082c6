package extractors

import (
	"regexp"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

type Strategy string

const (
	StrategyRelay  Strategy = "relay"
	StrategyScript Strategy = "script"
	StrategyTuples Strategy = "tuples"
)

const (
	searchKey    = "marketplace_search"
	listingsPath = "marketplace_search.feed_units.edges.#.node.listing"
	maxFindDepth = 64
)

// State is the structured search state recovered from a page, always rooted
// at {"marketplace_search": ...}.
type State struct {
	Strategy Strategy
	Root     gjson.Result
}

// Listings returns the listing nodes in source order.
func (s *State) Listings() []gjson.Result {
	if s == nil {
		return nil
	}
	return s.Root.Get(listingsPath).Array()
}

type strategy struct {
	name    Strategy
	extract func(html string) (gjson.Result, bool)
}

var cascade = []strategy{
	{StrategyRelay, relayState},
	{StrategyScript, scriptState},
	{StrategyTuples, tupleState},
}

// ExtractState tries each strategy in priority order and returns the first
// structured state found, or nil. It never fails: a strategy whose payload
// does not parse simply yields to the next one.
func ExtractState(html string) *State {
	for _, s := range cascade {
		if root, ok := s.extract(html); ok {
			return &State{Strategy: s.name, Root: root}
		}
	}
	return nil
}

var relayPattern = regexp.MustCompile(`(?s)"marketplace_search"\s*:\s*(\{.*?\})\s*\}\s*,\s*"extensions"`)

func relayState(html string) (gjson.Result, bool) {
	m := relayPattern.FindStringSubmatch(html)
	if m == nil || !gjson.Valid(m[1]) {
		return gjson.Result{}, false
	}
	return wrapSearch(m[1])
}

var scriptPattern = regexp.MustCompile(`(?is)<script\b([^>]*)>(.*?)</script>`)
var jsonScriptAttrs = regexp.MustCompile(`(?i)type\s*=\s*["']application/json["']`)
var hydrationAttr = regexp.MustCompile(`(?i)\bdata-sjs\b`)

func scriptState(html string) (gjson.Result, bool) {
	for _, m := range scriptPattern.FindAllStringSubmatch(html, -1) {
		attrs, body := m[1], m[2]
		if !jsonScriptAttrs.MatchString(attrs) || !hydrationAttr.MatchString(attrs) {
			continue
		}
		if !gjson.Valid(body) {
			continue
		}
		if found, ok := findKey(gjson.Parse(body), searchKey, 0); ok {
			return wrapSearch(found.Raw)
		}
	}
	return gjson.Result{}, false
}

var tuplePattern = regexp.MustCompile(
	`"id"\s*:\s*"(\d+)"\s*,\s*"marketplace_listing_title"\s*:\s*"((?:[^"\\]|\\.)*)"\s*,\s*"listing_price"\s*:\s*\{\s*"amount"\s*:\s*"(\d+(?:\.\d+)?)"\s*,\s*"currency"\s*:\s*"([A-Z]{3})"`)

func tupleState(html string) (gjson.Result, bool) {
	matches := tuplePattern.FindAllStringSubmatch(html, -1)
	if len(matches) == 0 {
		return gjson.Result{}, false
	}

	state := `{"marketplace_search":{"feed_units":{"edges":[]}}}`
	for _, m := range matches {
		listing := map[string]any{
			"id":                        m[1],
			"marketplace_listing_title": unescapeJSON(m[2]),
			"listing_price": map[string]string{
				"amount":   m[3],
				"currency": m[4],
			},
		}
		next, err := sjson.Set(state, "marketplace_search.feed_units.edges.-1.node.listing", listing)
		if err != nil {
			continue
		}
		state = next
	}
	return gjson.Parse(state), true
}

func wrapSearch(raw string) (gjson.Result, bool) {
	if !gjson.Parse(raw).IsObject() {
		return gjson.Result{}, false
	}
	state, err := sjson.SetRaw(`{}`, searchKey, raw)
	if err != nil {
		return gjson.Result{}, false
	}
	return gjson.Parse(state), true
}

// findKey does a depth-first search for an object-valued key.
func findKey(r gjson.Result, key string, depth int) (gjson.Result, bool) {
	if depth > maxFindDepth {
		return gjson.Result{}, false
	}

	var found gjson.Result
	ok := false
	r.ForEach(func(k, v gjson.Result) bool {
		if k.Type == gjson.String && k.String() == key && v.IsObject() {
			found, ok = v, true
			return false
		}
		if v.IsObject() || v.IsArray() {
			found, ok = findKey(v, key, depth+1)
			return !ok
		}
		return true
	})
	return found, ok
}

func unescapeJSON(s string) string {
	r := gjson.Parse(`"` + s + `"`)
	if r.Type != gjson.String {
		return s
	}
	return r.String()
}
