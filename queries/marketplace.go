package queries

import (
	"fmt"
	"net/url"
)

const MarketplaceBaseURL = "https://www.facebook.com"

// MarketplaceHeaders is the mobile-browser identity the marketplace pages are
// requested with. The relay state layout depends on it.
var MarketplaceHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
	"Sec-Fetch-Mode":  "navigate",
}

type MarketplaceSearchParams struct {
	Query    string
	Location string
	MinPrice *float64
	MaxPrice *float64
	Radius   string
}

func MarketplaceSearch(p MarketplaceSearchParams) Request {
	q := url.Values{}
	q.Set("query", p.Query)
	if p.MinPrice != nil {
		if cents, ok := ToMinorUnits(*p.MinPrice); ok {
			q.Set("minPrice", formatCents(cents))
		}
	}
	if p.MaxPrice != nil {
		if cents, ok := ToMinorUnits(*p.MaxPrice); ok {
			q.Set("maxPrice", formatCents(cents))
		}
	}
	if radius := StripRadiusUnit(p.Radius); radius != "" {
		q.Set("radius", radius)
	}
	q.Set("exact", "false")

	return Request{
		URL:     marketplacePath(p.Location, "search") + "?" + q.Encode(),
		Headers: copyHeaders(MarketplaceHeaders),
	}
}

// MarketplaceNewListings searches with a recency window and newest-first sort.
func MarketplaceNewListings(query string, sinceHours float64) Request {
	q := url.Values{}
	q.Set("query", query)
	q.Set("daysSinceListed", fmt.Sprint(DaysSince(sinceHours)))
	q.Set("sortBy", "creation_time_descend")
	q.Set("exact", "false")

	return Request{
		URL:     marketplacePath("", "search") + "?" + q.Encode(),
		Headers: copyHeaders(MarketplaceHeaders),
	}
}

func MarketplaceListing(id string) Request {
	return Request{
		URL:     MarketplaceItemURL(id),
		Headers: copyHeaders(MarketplaceHeaders),
	}
}

func MarketplaceCategories(location string) Request {
	return Request{
		URL:     marketplacePath(location, "categories") + "/",
		Headers: copyHeaders(MarketplaceHeaders),
	}
}

func MarketplaceItemURL(id string) string {
	return fmt.Sprintf("%s/marketplace/item/%s/", MarketplaceBaseURL, url.PathEscape(id))
}

func MarketplaceCategoryURL(slug string) string {
	return fmt.Sprintf("%s/marketplace/category/%s/", MarketplaceBaseURL, url.PathEscape(slug))
}

func marketplacePath(location, page string) string {
	if slug := locationSlug(location); slug != "" {
		return fmt.Sprintf("%s/marketplace/%s/%s", MarketplaceBaseURL, slug, page)
	}
	return fmt.Sprintf("%s/marketplace/%s", MarketplaceBaseURL, page)
}
