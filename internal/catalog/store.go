package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ziadkadry99/shopassist/internal/db"
)

// Store provides product persistence backed by SQLite.
type Store struct {
	db *db.DB
}

// NewStore creates a new catalog store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

const productColumns = `id, name, price, image, category, rating, specs, description, availability, warranty`

// UpsertProduct inserts or replaces a product, keeping its original position
// in category listings.
func (s *Store) UpsertProduct(ctx context.Context, p Product) error {
	specs, err := json.Marshal(nonNil(p.Specs))
	if err != nil {
		return fmt.Errorf("marshalling specs: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO products (`+productColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, price = excluded.price, image = excluded.image,
		   category = excluded.category, rating = excluded.rating, specs = excluded.specs,
		   description = excluded.description, availability = excluded.availability,
		   warranty = excluded.warranty`,
		p.ID, p.Name, p.Price, p.Image, strings.ToLower(p.Category), p.Rating, string(specs),
		p.Description, p.Availability, p.Warranty,
	)
	if err != nil {
		return fmt.Errorf("upserting product %s: %w", p.ID, err)
	}
	return nil
}

// GetProductByID returns the product with the given id, or nil if absent.
func (s *Store) GetProductByID(ctx context.Context, id string) (*Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting product: %w", err)
	}
	return p, nil
}

// GetFilteredProducts returns at most MaxResults products. Category is
// matched exactly in SQL; budget and usage are applied afterwards and fall
// back to the category set when nothing survives them.
func (s *Store) GetFilteredProducts(ctx context.Context, f Filter) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	var args []interface{}
	if f.Category != "" {
		query += ` WHERE category = ?`
		args = append(args, strings.ToLower(f.Category))
	}
	query += ` ORDER BY rowid`

	byCategory, err := s.queryProducts(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return applyFilter(byCategory, f), nil
}

// ListProducts returns every product ordered by name.
func (s *Store) ListProducts(ctx context.Context) ([]Product, error) {
	return s.queryProducts(ctx, `SELECT `+productColumns+` FROM products ORDER BY name`)
}

func (s *Store) queryProducts(ctx context.Context, query string, args ...interface{}) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row scanner) (*Product, error) {
	var p Product
	var specs string
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Image, &p.Category, &p.Rating, &specs,
		&p.Description, &p.Availability, &p.Warranty); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(specs), &p.Specs); err != nil {
		return nil, fmt.Errorf("decoding specs for %s: %w", p.ID, err)
	}
	return &p, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
