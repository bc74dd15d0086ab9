package orders

import "context"

// Status values used by seeded shipments. Other strings are stored as-is.
const (
	StatusProcessing     = "processing"
	StatusShipped        = "shipped"
	StatusInTransit      = "in-transit"
	StatusOutForDelivery = "out-for-delivery"
	StatusDelivered      = "delivered"
)

// Order is a shipment record looked up by its human-facing order id.
type Order struct {
	ID                string   `json:"id" yaml:"id"`
	OrderID           string   `json:"order_id" yaml:"order_id" validate:"required"`
	Status            string   `json:"status" yaml:"status" validate:"required"`
	EstimatedDelivery string   `json:"estimated_delivery,omitempty" yaml:"estimated_delivery"`
	LastUpdate        string   `json:"last_update,omitempty" yaml:"last_update"`
	Location          string   `json:"location,omitempty" yaml:"location"`
	TotalAmount       *float64 `json:"total_amount,omitempty" yaml:"total_amount"`
}

// Lookup resolves order ids typed by shoppers.
type Lookup interface {
	GetOrderByOrderID(ctx context.Context, orderID string) (*Order, error)
}
