package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/kova98/harvest/models"
	"github.com/kova98/harvest/queries"
	"github.com/kova98/harvest/sources"
)

type MarketplaceService interface {
	Search(ctx context.Context, p sources.SearchParams) (models.ListingSearchResult, error)
	GetListingDetails(ctx context.Context, id string) (models.Listing, error)
	GetCategories(ctx context.Context, location string) ([]models.Category, error)
	GetNewListings(ctx context.Context, p sources.NewListingsParams) (models.NewListingsResult, error)
}

type MarketplaceHandler struct {
	service MarketplaceService
}

func NewMarketplaceHandler(service MarketplaceService) *MarketplaceHandler {
	return &MarketplaceHandler{service}
}

func (h *MarketplaceHandler) Search(w http.ResponseWriter, r *http.Request) Result {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		return BadRequest("Query is required.")
	}

	minPrice, ok := queryFloat(r, "minPrice")
	if !ok || (minPrice != nil && *minPrice < 0) {
		return BadRequest("Invalid minPrice.")
	}
	maxPrice, ok := queryFloat(r, "maxPrice")
	if !ok || (maxPrice != nil && *maxPrice < 0) {
		return BadRequest("Invalid maxPrice.")
	}
	if minPrice != nil && maxPrice != nil && *minPrice > *maxPrice {
		return BadRequest("minPrice must not exceed maxPrice.")
	}

	radius := strings.TrimSpace(r.URL.Query().Get("radius"))
	if radius != "" && queries.StripRadiusUnit(radius) == "" {
		return BadRequest("Invalid radius.")
	}

	limit, ok := queryLimit(r, sources.DefaultListingLimit)
	if !ok {
		return BadRequest(fmt.Sprintf("Limit must be between 1 and %d.", queries.MaxLimit))
	}

	res, err := h.service.Search(r.Context(), sources.SearchParams{
		Query:    query,
		Location: strings.TrimSpace(r.URL.Query().Get("location")),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Radius:   radius,
		Limit:    limit,
	})
	if err != nil {
		return SourceError(err, "search listings: ")
	}

	return Ok(res)
}

func (h *MarketplaceHandler) GetListing(w http.ResponseWriter, r *http.Request) Result {
	id := r.PathValue("id")
	if !isDigits(id) {
		return BadRequest("Invalid listing ID.")
	}

	listing, err := h.service.GetListingDetails(r.Context(), id)
	if err != nil {
		return SourceError(err, "get listing: ")
	}

	return Ok(listing)
}

func (h *MarketplaceHandler) GetCategories(w http.ResponseWriter, r *http.Request) Result {
	categories, err := h.service.GetCategories(r.Context(), strings.TrimSpace(r.URL.Query().Get("location")))
	if err != nil {
		return SourceError(err, "get categories: ")
	}

	return Ok(categories)
}

func (h *MarketplaceHandler) GetNewListings(w http.ResponseWriter, r *http.Request) Result {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		return BadRequest("Query is required.")
	}

	sinceHours := float64(sources.DefaultSinceHours)
	if raw, ok := queryFloat(r, "sinceHours"); !ok || (raw != nil && *raw <= 0) {
		return BadRequest("sinceHours must be a positive number.")
	} else if raw != nil {
		sinceHours = *raw
	}

	limit, ok := queryLimit(r, sources.DefaultListingLimit)
	if !ok {
		return BadRequest(fmt.Sprintf("Limit must be between 1 and %d.", queries.MaxLimit))
	}

	res, err := h.service.GetNewListings(r.Context(), sources.NewListingsParams{
		Query:      query,
		SinceHours: sinceHours,
		Limit:      limit,
	})
	if err != nil {
		return SourceError(err, "get new listings: ")
	}

	return Ok(res)
}
