package catalog

import "context"

// Product is the discovery-time shape of a catalog item. The same shape is
// used for search hits and single-product detail views.
type Product struct {
	ID           string   `json:"id" yaml:"id" validate:"required"`
	Name         string   `json:"name" yaml:"name" validate:"required"`
	Price        float64  `json:"price" yaml:"price" validate:"gte=0"`
	Image        string   `json:"image" yaml:"image"`
	Category     string   `json:"category" yaml:"category" validate:"required"`
	Rating       float64  `json:"rating" yaml:"rating" validate:"gte=0,lte=5"`
	Specs        []string `json:"specs" yaml:"specs"`
	Description  string   `json:"description,omitempty" yaml:"description"`
	Availability string   `json:"availability,omitempty" yaml:"availability"`
	Warranty     string   `json:"warranty,omitempty" yaml:"warranty"`
}

// Filter narrows GetFilteredProducts. Empty fields do not filter.
type Filter struct {
	Category string `json:"category"`
	Budget   string `json:"budget"`
	Usage    string `json:"usage"`
}

// Reader is the read side of the catalog consumed by the conversation.
type Reader interface {
	GetProductByID(ctx context.Context, id string) (*Product, error)
	GetFilteredProducts(ctx context.Context, f Filter) ([]Product, error)
}

// MaxResults caps every filtered listing.
const MaxResults = 3

// PriceRange is a half-open [Min, Max) interval. Max of zero means unbounded.
type PriceRange struct {
	Min float64
	Max float64
}

// Contains reports whether price falls inside the range.
func (r PriceRange) Contains(price float64) bool {
	if price < r.Min {
		return false
	}
	return r.Max == 0 || price < r.Max
}

// BudgetRanges maps budget tokens to price buckets.
var BudgetRanges = map[string]PriceRange{
	"under-500": {Min: 0, Max: 500},
	"500-1000":  {Min: 500, Max: 1000},
	"1000-1500": {Min: 1000, Max: 1500},
	"over-1500": {Min: 1500},
}

// UsageKeywords maps usage tokens to name fragments matched case-insensitively.
var UsageKeywords = map[string][]string{
	"student": {"Student", "Budget", "Air"},
	"office":  {"Pro", "Elite", "WorkStation", "Ultra"},
	"gaming":  {"Game", "Force", "Max"},
	"daily":   {"Budget", "Pixel", "OnePlus"},
}
