package extractors

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/kova98/harvest/models"
)

const (
	MaxImages = 10

	// PostedAtLayout matches a millisecond-precision UTC ISO-8601 timestamp.
	PostedAtLayout = "2006-01-02T15:04:05.000Z"

	profileURLPrefix = "https://www.facebook.com/marketplace/profile/"
)

// UnavailableMarkers are the literal strings a page shows once a listing is gone.
var UnavailableMarkers = []string{
	"listing is no longer available",
	"listing no longer available",
}

const jsonString = `"((?:[^"\\]|\\.)*)"`

var (
	itemPathPattern   = regexp.MustCompile(`/marketplace/item/(\d+)`)
	longDigitsPattern = regexp.MustCompile(`\d{10,}`)
	brandSuffix       = regexp.MustCompile(`(?i)\s*[|\-–]\s*(?:facebook marketplace|marketplace|facebook)\s*$`)
	amountPattern     = regexp.MustCompile(`"amount"\s*:\s*"?(\d+(?:\.\d+)?)"?`)
	currencyPattern   = regexp.MustCompile(`"currency"\s*:\s*"([A-Z]{3})"`)
	descPattern       = regexp.MustCompile(`"redacted_description"\s*:\s*\{\s*"text"\s*:\s*` + jsonString)
	cityPattern       = regexp.MustCompile(`"reverse_geocode"\s*:\s*\{[^{}]*?"city"\s*:\s*` + jsonString)
	conditionPattern  = regexp.MustCompile(`"condition"\s*:\s*` + jsonString)
	sellerNamePattern = regexp.MustCompile(`"marketplace_listing_seller"\s*:\s*\{[^{}]*?"name"\s*:\s*` + jsonString)
	sellerIDPattern   = regexp.MustCompile(`"marketplace_listing_seller"\s*:\s*\{[^{}]*?"id"\s*:\s*"(\d+)"`)
	createdPattern    = regexp.MustCompile(`"creation_time"\s*:\s*(\d+)`)
	categoryPattern   = regexp.MustCompile(`"marketplace_listing_category_name"\s*:\s*` + jsonString)
	imagePattern      = regexp.MustCompile(`https?:(?:\\?/){2}[^"'\s<>]*?(?:\\?/)t45\.5328-4(?:\\?/)[^"'\s<>]*`)
)

// ExtractListing scrapes a listing detail page field by field. A field that
// cannot be found keeps its default; nothing here fails the record.
func ExtractListing(html, requestURL string) models.Listing {
	listing := models.NewListing()

	listing.ID = ListingIDFromURL(requestURL)
	listing.URL = requestURL
	listing.Title = pageTitle(html)

	if m := amountPattern.FindStringSubmatch(html); m != nil {
		if price, err := strconv.ParseFloat(m[1], 64); err == nil && price >= 0 {
			listing.Price = price
		}
	}
	if m := currencyPattern.FindStringSubmatch(html); m != nil {
		listing.Currency = m[1]
	}

	listing.Description = firstString(descPattern, html)
	listing.Location = firstString(cityPattern, html)
	listing.Condition = optionalString(conditionPattern, html)
	listing.Category = optionalString(categoryPattern, html)

	listing.Seller.Name = firstString(sellerNamePattern, html)
	if m := sellerIDPattern.FindStringSubmatch(html); m != nil {
		profile := profileURLPrefix + m[1] + "/"
		listing.Seller.ProfileURL = &profile
	}

	if m := createdPattern.FindStringSubmatch(html); m != nil {
		listing.PostedAt = FormatEpoch(m[1])
	}

	listing.Images = ExtractImages(html)
	listing.IsAvailable = !hasUnavailableMarker(html)

	return listing
}

// ListingIDFromURL prefers the item path segment, then any run of 10+ digits.
func ListingIDFromURL(rawURL string) string {
	if m := itemPathPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	return longDigitsPattern.FindString(rawURL)
}

// maxEpochSeconds is 9999-12-31T23:59:59Z, the last instant the layout can render.
const maxEpochSeconds = 253402300799

// FormatEpoch renders epoch seconds as ISO-8601 with milliseconds, or "" when
// the input is not a number or falls outside years 1970 to 9999.
func FormatEpoch(seconds string) string {
	secs, err := strconv.ParseInt(seconds, 10, 64)
	if err != nil || secs < 0 || secs > maxEpochSeconds {
		return ""
	}
	return time.UnixMilli(secs * 1000).UTC().Format(PostedAtLayout)
}

// ExtractImages collects marketplace photo URLs in document order, without
// duplicates, up to MaxImages.
func ExtractImages(page string) []string {
	images := make([]string, 0, MaxImages)
	seen := make(map[string]bool)

	for _, raw := range imagePattern.FindAllString(page, -1) {
		uri := strings.TrimRight(raw, `\`)
		if strings.Contains(uri, `\`) {
			uri = unescapeJSON(uri)
		} else {
			// Attribute values carry HTML entities such as &amp;.
			uri = html.UnescapeString(uri)
		}
		uri = strings.ReplaceAll(uri, `\/`, "/")
		if seen[uri] {
			continue
		}
		seen[uri] = true
		images = append(images, uri)
		if len(images) == MaxImages {
			break
		}
	}
	return images
}

func pageTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	for {
		stripped := strings.TrimSpace(brandSuffix.ReplaceAllString(title, ""))
		if stripped == title {
			return title
		}
		title = stripped
	}
}

func firstString(p *regexp.Regexp, html string) string {
	m := p.FindStringSubmatch(html)
	if m == nil {
		return ""
	}
	return unescapeJSON(m[1])
}

func optionalString(p *regexp.Regexp, html string) *string {
	m := p.FindStringSubmatch(html)
	if m == nil {
		return nil
	}
	s := unescapeJSON(m[1])
	if s == "" {
		return nil
	}
	return &s
}

func hasUnavailableMarker(html string) bool {
	lower := strings.ToLower(html)
	for _, marker := range UnavailableMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
