// Package seed loads catalog products and orders from YAML files into the
// relational stores.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/ziadkadry99/shopassist/internal/catalog"
	"github.com/ziadkadry99/shopassist/internal/orders"
	"github.com/ziadkadry99/shopassist/internal/progress"
	"github.com/ziadkadry99/shopassist/internal/validation"
)

// DefaultPattern is used when no patterns are given.
const DefaultPattern = "seed/**/*.yaml"

// ErrNoFiles is returned when no pattern matches a file.
var ErrNoFiles = errors.New("no seed files matched")

// Document is the on-disk shape of one seed file.
type Document struct {
	Products []catalog.Product `yaml:"products"`
	Orders   []orders.Order    `yaml:"orders"`
}

// ProductWriter persists catalog products.
type ProductWriter interface {
	UpsertProduct(ctx context.Context, p catalog.Product) error
}

// OrderWriter persists orders.
type OrderWriter interface {
	UpsertOrder(ctx context.Context, o orders.Order) error
}

// Invalidator drops a cached product after it was rewritten.
type Invalidator interface {
	Invalidate(ctx context.Context, id string) error
}

// Stores are the destinations for seeded records. Cache is optional.
type Stores struct {
	Products ProductWriter
	Orders   OrderWriter
	Cache    Invalidator
}

// Result counts what a run wrote.
type Result struct {
	Files    []string
	Products int
	Orders   int
}

// Expand resolves glob patterns to a sorted, de-duplicated file list.
func Expand(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{DefaultPattern}
	}
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePathPattern(pattern) {
			return nil, fmt.Errorf("invalid pattern %q", pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	sort.Strings(files)
	return files, nil
}

// Parse decodes one seed document, rejecting unknown fields.
func Parse(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &doc, nil
		}
		return nil, err
	}
	return &doc, nil
}

// Validate checks every record and reports the first invalid one.
func (d *Document) Validate() error {
	for i, p := range d.Products {
		if err := validation.Struct(p); err != nil {
			return fmt.Errorf("product %d (%s): %w", i, p.ID, err)
		}
	}
	for i, o := range d.Orders {
		if err := validation.Struct(o); err != nil {
			return fmt.Errorf("order %d (%s): %w", i, o.OrderID, err)
		}
	}
	return nil
}

// Load reads, parses and validates every file, merging them in order.
func Load(files []string) (*Document, error) {
	merged := &Document{}
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		doc, err := Parse(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		if err := doc.Validate(); err != nil {
			return nil, fmt.Errorf("validating %s: %w", path, err)
		}
		merged.Products = append(merged.Products, doc.Products...)
		merged.Orders = append(merged.Orders, doc.Orders...)
	}
	return merged, nil
}

// Run expands patterns, loads every file and upserts the records. Nothing
// is written unless every file parses and validates.
func Run(ctx context.Context, patterns []string, stores Stores, rep progress.Reporter) (*Result, error) {
	if rep == nil {
		rep = progress.Nop{}
	}
	files, err := Expand(patterns)
	if err != nil {
		return nil, err
	}
	doc, err := Load(files)
	if err != nil {
		return nil, err
	}

	res := &Result{Files: files}
	rep.Start(len(doc.Products) + len(doc.Orders))
	defer rep.Finish()

	step := 0
	for _, p := range doc.Products {
		if err := stores.Products.UpsertProduct(ctx, p); err != nil {
			return res, err
		}
		if stores.Cache != nil {
			if err := stores.Cache.Invalidate(ctx, p.ID); err != nil {
				return res, fmt.Errorf("invalidating cached product %s: %w", p.ID, err)
			}
		}
		res.Products++
		step++
		rep.Update(step, "product "+p.ID)
	}
	for _, o := range doc.Orders {
		if err := stores.Orders.UpsertOrder(ctx, o); err != nil {
			return res, err
		}
		res.Orders++
		step++
		rep.Update(step, "order "+orders.Normalize(o.OrderID))
	}
	return res, nil
}
