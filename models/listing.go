package models

import "time"

const DefaultCurrency = "USD"

type Seller struct {
	Name       string     `json:"name"`
	Joined     *time.Time `json:"joined"`
	Rating     *string    `json:"rating"`
	ProfileURL *string    `json:"profile_url"`
}

// Listing is a marketplace item. Fields the source does not carry keep their
// zero value, except Currency ("USD") and IsAvailable (true).
type Listing struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	Location    string   `json:"location"`
	Seller      Seller   `json:"seller"`
	Condition   *string  `json:"condition"`
	PostedAt    string   `json:"posted_at"`
	Images      []string `json:"images"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Category    *string  `json:"category"`
	IsAvailable bool     `json:"is_available"`
}

// NewListing returns a listing with every field at its default.
func NewListing() Listing {
	return Listing{
		Currency:    DefaultCurrency,
		Images:      []string{},
		IsAvailable: true,
	}
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type ListingSearchResult struct {
	Results      []Listing `json:"results"`
	TotalResults int       `json:"total_results"`
}

type NewListingsResult struct {
	Results []Listing `json:"results"`
	Since   string    `json:"since"`
}
