package extractors

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var itemLinkPattern = regexp.MustCompile(`(?:\\?/)marketplace(?:\\?/)item(?:\\?/)(\d+)`)

// ItemLinkIDs returns the id of every item link in the document, in order,
// repeats included. Callers dedup.
func ItemLinkIDs(html string) []string {
	matches := itemLinkPattern.FindAllStringSubmatch(html, -1)
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m[1])
	}
	return ids
}

type CategoryLink struct {
	Slug string
	Name string
}

var categoryHrefPattern = regexp.MustCompile(`/marketplace/(?:[\w-]+/)?category/([\w-]+)`)

// CategoryLinks returns every category anchor in document order, repeats
// included. The name falls back to aria-label, then to the slug.
func CategoryLinks(html string) []CategoryLink {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	links := make([]CategoryLink, 0)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		m := categoryHrefPattern.FindStringSubmatch(href)
		if m == nil {
			return
		}

		name := strings.Join(strings.Fields(s.Text()), " ")
		if name == "" {
			name, _ = s.Attr("aria-label")
			name = strings.TrimSpace(name)
		}
		if name == "" {
			name = humanizeSlug(m[1])
		}

		links = append(links, CategoryLink{Slug: strings.ToLower(m[1]), Name: name})
	})
	return links
}

func humanizeSlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
