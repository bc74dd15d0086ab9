package cart

import "errors"

var (
	// ErrProductNotFound is returned when adding a product the catalog does not know.
	ErrProductNotFound = errors.New("product not found")
	// ErrItemNotFound is returned when a line item is not in the session's cart.
	ErrItemNotFound = errors.New("cart item not found")
)

// ProductSnapshot is the subset of product fields joined onto a line item.
type ProductSnapshot struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
}

// Item is one cart line. Quantity is always positive.
type Item struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Product   ProductSnapshot `json:"product"`
}

// LineTotal is price times quantity.
func (i Item) LineTotal() float64 {
	return i.Product.Price * float64(i.Quantity)
}

// Summary is a session's cart with derived totals.
type Summary struct {
	Items    []Item  `json:"items"`
	Count    int     `json:"count"`
	Subtotal float64 `json:"subtotal"`
}

func summarize(items []Item) *Summary {
	s := &Summary{Items: items}
	if s.Items == nil {
		s.Items = []Item{}
	}
	for _, it := range items {
		s.Count += it.Quantity
		s.Subtotal += it.LineTotal()
	}
	return s
}
