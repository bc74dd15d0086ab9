package orders

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ziadkadry99/shopassist/internal/db"
)

// Store provides order persistence backed by SQLite.
type Store struct {
	db *db.DB
}

// NewStore creates a new order store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Normalize trims and upper-cases an order id the way it is stored.
func Normalize(orderID string) string {
	return strings.ToUpper(strings.TrimSpace(orderID))
}

// UpsertOrder inserts an order or refreshes its tracking fields.
func (s *Store) UpsertOrder(ctx context.Context, o Order) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	var total sql.NullFloat64
	if o.TotalAmount != nil {
		total = sql.NullFloat64{Float64: *o.TotalAmount, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO orders (id, order_id, status, estimated_delivery, last_update, location, total_amount)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(order_id) DO UPDATE SET
		   status = excluded.status, estimated_delivery = excluded.estimated_delivery,
		   last_update = excluded.last_update, location = excluded.location,
		   total_amount = excluded.total_amount`,
		o.ID, Normalize(o.OrderID), o.Status, o.EstimatedDelivery, o.LastUpdate, o.Location, total,
	)
	if err != nil {
		return fmt.Errorf("upserting order %s: %w", o.OrderID, err)
	}
	return nil
}

// GetOrderByOrderID returns the order matching the normalized id, or nil.
func (s *Store) GetOrderByOrderID(ctx context.Context, orderID string) (*Order, error) {
	var o Order
	var total sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, order_id, status, estimated_delivery, last_update, location, total_amount
		 FROM orders WHERE order_id = ?`, Normalize(orderID),
	).Scan(&o.ID, &o.OrderID, &o.Status, &o.EstimatedDelivery, &o.LastUpdate, &o.Location, &total)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting order: %w", err)
	}
	if total.Valid {
		o.TotalAmount = &total.Float64
	}
	return &o, nil
}
