package sources

import (
	"context"
	"log/slog"
	"time"

	"github.com/kova98/harvest/enums"
	"github.com/kova98/harvest/extractors"
	"github.com/kova98/harvest/models"
	"github.com/kova98/harvest/queries"
	"github.com/kova98/harvest/transport"
	"github.com/tidwall/gjson"
)

const (
	DefaultListingLimit = 20
	DefaultSinceHours   = 1
)

type SearchParams struct {
	Query    string
	Location string
	MinPrice *float64
	MaxPrice *float64
	Radius   string
	Limit    int
}

type NewListingsParams struct {
	Query      string
	SinceHours float64
	Limit      int
}

// MarketplaceSource assembles marketplace results. It holds no per-call state
// and is safe for concurrent use.
type MarketplaceSource struct {
	logger   *slog.Logger
	fetcher  transport.Fetcher
	metrics  *transport.Metrics
	settings FetchSettings
	now      func() time.Time
}

func NewMarketplaceSource(logger *slog.Logger, fetcher transport.Fetcher, metrics *transport.Metrics, settings FetchSettings) *MarketplaceSource {
	return &MarketplaceSource{
		logger:   logger,
		fetcher:  fetcher,
		metrics:  metrics,
		settings: settings,
		now:      time.Now,
	}
}

func (s *MarketplaceSource) Search(ctx context.Context, p SearchParams) (models.ListingSearchResult, error) {
	limit := listingLimit(p.Limit)
	req := queries.MarketplaceSearch(queries.MarketplaceSearchParams{
		Query:    p.Query,
		Location: p.Location,
		MinPrice: p.MinPrice,
		MaxPrice: p.MaxPrice,
		Radius:   p.Radius,
	})

	html, err := fetchText(ctx, s.fetcher, s.settings, s.op("search", p.Query), req)
	if err != nil {
		return models.ListingSearchResult{}, err
	}

	results := s.collect(html, p.Location, limit)
	return models.ListingSearchResult{Results: results, TotalResults: len(results)}, nil
}

// GetNewListings searches newest-first within a whole-day window covering
// SinceHours. Since is the wall-clock cutoff the caller asked for.
func (s *MarketplaceSource) GetNewListings(ctx context.Context, p NewListingsParams) (models.NewListingsResult, error) {
	limit := listingLimit(p.Limit)
	hours := p.SinceHours
	if hours <= 0 {
		hours = DefaultSinceHours
	}
	since := s.now().UTC().Add(-time.Duration(hours * float64(time.Hour)))

	html, err := fetchText(ctx, s.fetcher, s.settings, s.op("new_listings", p.Query), queries.MarketplaceNewListings(p.Query, hours))
	if err != nil {
		return models.NewListingsResult{}, err
	}

	return models.NewListingsResult{
		Results: s.collect(html, "", limit),
		Since:   since.Format(extractors.PostedAtLayout),
	}, nil
}

func (s *MarketplaceSource) GetListingDetails(ctx context.Context, id string) (models.Listing, error) {
	req := queries.MarketplaceListing(id)

	html, err := fetchText(ctx, s.fetcher, s.settings, s.op("listing", id), req)
	if err != nil {
		return models.Listing{}, err
	}

	listing := extractors.ExtractListing(html, req.URL)
	if listing.ID == "" {
		listing.ID = id
	}
	return listing, nil
}

// GetCategories returns every category linked from the page, first-seen
// order, one per slug.
func (s *MarketplaceSource) GetCategories(ctx context.Context, location string) ([]models.Category, error) {
	html, err := fetchText(ctx, s.fetcher, s.settings, s.op("categories", location), queries.MarketplaceCategories(location))
	if err != nil {
		return nil, err
	}

	links := extractors.CategoryLinks(html)
	categories := make([]models.Category, 0, len(links))
	seen := make(map[string]bool, len(links))
	for _, link := range links {
		if seen[link.Slug] {
			continue
		}
		seen[link.Slug] = true
		categories = append(categories, models.Category{
			ID:   link.Slug,
			Name: link.Name,
			URL:  queries.MarketplaceCategoryURL(link.Slug),
		})
	}
	return categories, nil
}

// collect maps embedded state into partial listings, or falls back to item
// links when the page carries no state. Never more than limit, no repeated ids.
func (s *MarketplaceSource) collect(html, location string, limit int) []models.Listing {
	state := extractors.ExtractState(html)
	if state == nil {
		s.metrics.ObserveStrategy("none")
		s.logger.Debug("no embedded state, scanning item links")
		return fromItemLinks(html, location, limit)
	}

	s.metrics.ObserveStrategy(string(state.Strategy))
	s.logger.Debug("embedded state found", "strategy", state.Strategy)

	results := make([]models.Listing, 0, limit)
	seen := make(map[string]bool)
	for _, node := range state.Listings() {
		if len(results) == limit {
			break
		}
		listing, ok := fromStateNode(node, location)
		if !ok || seen[listing.ID] {
			continue
		}
		seen[listing.ID] = true
		results = append(results, listing)
	}
	return results
}

func fromStateNode(node gjson.Result, location string) (models.Listing, bool) {
	id := node.Get("id").String()
	if id == "" {
		return models.Listing{}, false
	}

	listing := models.NewListing()
	listing.ID = id
	listing.URL = queries.MarketplaceItemURL(id)
	listing.Title = node.Get("marketplace_listing_title").String()
	if price := node.Get("listing_price.amount"); price.Exists() && price.Float() >= 0 {
		listing.Price = price.Float()
	}
	if currency := node.Get("listing_price.currency").String(); currency != "" {
		listing.Currency = currency
	}

	listing.Location = location
	if listing.Location == "" {
		listing.Location = node.Get("location.reverse_geocode.city").String()
	}
	return listing, true
}

func fromItemLinks(html, location string, limit int) []models.Listing {
	results := make([]models.Listing, 0, limit)
	seen := make(map[string]bool)
	for _, id := range extractors.ItemLinkIDs(html) {
		if len(results) == limit {
			break
		}
		if seen[id] {
			continue
		}
		seen[id] = true

		listing := models.NewListing()
		listing.ID = id
		listing.URL = queries.MarketplaceItemURL(id)
		listing.Location = location
		results = append(results, listing)
	}
	return results
}

func (s *MarketplaceSource) op(operation, target string) call {
	return call{platform: enums.PlatformMarketplace, operation: operation, target: target}
}

func listingLimit(limit int) int {
	if limit <= 0 {
		return DefaultListingLimit
	}
	return limit
}
