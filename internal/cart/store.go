package cart

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/shopassist/internal/db"
	"github.com/ziadkadry99/shopassist/internal/session"
)

// Store keeps per-session cart lines in SQLite. Every mutation returns the
// cart as re-read after the write.
type Store struct {
	db *db.DB
}

// NewStore creates a new cart store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Fetch returns the session's cart lines in the order they were added.
func (s *Store) Fetch(ctx context.Context, sid session.ID) (*Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.product_id, c.quantity, p.id, p.name, p.price, p.image, p.category
		 FROM cart_items c JOIN products p ON p.id = c.product_id
		 WHERE c.session_id = ?
		 ORDER BY c.created_at, c.rowid`, string(sid))
	if err != nil {
		return nil, fmt.Errorf("querying cart: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Quantity,
			&it.Product.ID, &it.Product.Name, &it.Product.Price, &it.Product.Image, &it.Product.Category); err != nil {
			return nil, fmt.Errorf("scanning cart item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summarize(items), nil
}

// Add puts one unit of the product in the cart, incrementing an existing
// line rather than creating a second one.
func (s *Store) Add(ctx context.Context, sid session.ID, productID string) (*Summary, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM products WHERE id = ?`, productID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	if err != nil {
		return nil, fmt.Errorf("checking product: %w", err)
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO cart_items (id, session_id, product_id, quantity, created_at, updated_at)
		 VALUES (?, ?, ?, 1, ?, ?)
		 ON CONFLICT(session_id, product_id) DO UPDATE SET
		   quantity = cart_items.quantity + 1, updated_at = excluded.updated_at`,
		uuid.New().String(), string(sid), productID, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("adding to cart: %w", err)
	}
	return s.Fetch(ctx, sid)
}

// Remove deletes a line item belonging to the session.
func (s *Store) Remove(ctx context.Context, sid session.ID, itemID string) (*Summary, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE id = ? AND session_id = ?`, itemID, string(sid))
	if err != nil {
		return nil, fmt.Errorf("removing cart item: %w", err)
	}
	if err := requireRow(res, itemID); err != nil {
		return nil, err
	}
	return s.Fetch(ctx, sid)
}

// UpdateQuantity sets a line's quantity. Zero or negative removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, sid session.ID, itemID string, quantity int) (*Summary, error) {
	if quantity <= 0 {
		return s.Remove(ctx, sid, itemID)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE cart_items SET quantity = ?, updated_at = ? WHERE id = ? AND session_id = ?`,
		quantity, time.Now().UTC(), itemID, string(sid))
	if err != nil {
		return nil, fmt.Errorf("updating cart item: %w", err)
	}
	if err := requireRow(res, itemID); err != nil {
		return nil, err
	}
	return s.Fetch(ctx, sid)
}

// Clear deletes every line in the session's cart.
func (s *Store) Clear(ctx context.Context, sid session.ID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cart_items WHERE session_id = ?`, string(sid)); err != nil {
		return fmt.Errorf("clearing cart: %w", err)
	}
	return nil
}

func requireRow(res sql.Result, itemID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	return nil
}
