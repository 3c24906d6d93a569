// Package importer loads menu items from a YAML catalog file.
package importer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"canteen-ordering/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type MenuWriter interface {
	Upsert(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error)
}

// catalog is the file layout:
//
//	items:
//	  - id: masala-dosa
//	    category: Breakfast
//	    name: Masala Dosa
//	    price: "60.00"
type catalog struct {
	Items []itemRow `yaml:"items"`
}

type itemRow struct {
	ID          string  `yaml:"id"`
	Category    string  `yaml:"category"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Price       string  `yaml:"price"`
	Available   *bool   `yaml:"available"`
	Rating      *string `yaml:"rating"`
}

// YAMLImporter reads a menu catalog and upserts every item it contains.
type YAMLImporter struct {
	reader io.Reader
	repo   MenuWriter
}

func NewYAMLImporter(r io.Reader, repo MenuWriter) *YAMLImporter {
	return &YAMLImporter{reader: r, repo: repo}
}

// Run validates the whole file before writing, so a bad row imports nothing.
func (i *YAMLImporter) Run(ctx context.Context) (int, error) {
	var c catalog
	if err := yaml.NewDecoder(i.reader).Decode(&c); err != nil {
		return 0, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Items) == 0 {
		return 0, fmt.Errorf("catalog has no items")
	}

	items := make([]domain.MenuItem, 0, len(c.Items))
	seen := make(map[string]bool, len(c.Items))
	for n, row := range c.Items {
		item, err := row.toItem()
		if err != nil {
			return 0, fmt.Errorf("item %d: %w", n+1, err)
		}
		if seen[item.ID] {
			return 0, fmt.Errorf("item %d: duplicate id %q", n+1, item.ID)
		}
		seen[item.ID] = true
		items = append(items, item)
	}

	imported := 0
	for _, item := range items {
		if _, err := i.repo.Upsert(ctx, item); err != nil {
			return imported, fmt.Errorf("upsert item %q: %w", item.ID, err)
		}
		imported++
	}
	return imported, nil
}

func (r itemRow) toItem() (domain.MenuItem, error) {
	id := strings.TrimSpace(r.ID)
	name := strings.TrimSpace(r.Name)
	category := strings.TrimSpace(r.Category)
	if id == "" || name == "" || category == "" || strings.TrimSpace(r.Price) == "" {
		return domain.MenuItem{}, fmt.Errorf("id, name, category and price are required (id %q)", id)
	}

	price, err := decimal.NewFromString(strings.TrimSpace(r.Price))
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("%s: invalid price %q", id, r.Price)
	}
	if price.IsNegative() {
		return domain.MenuItem{}, fmt.Errorf("%s: price must not be negative", id)
	}

	item := domain.MenuItem{
		ID:          id,
		Category:    category,
		Name:        name,
		Description: strings.TrimSpace(r.Description),
		Price:       price.Round(2),
		Available:   true,
	}
	if r.Available != nil {
		item.Available = *r.Available
	}
	if r.Rating != nil {
		rating, err := decimal.NewFromString(strings.TrimSpace(*r.Rating))
		if err != nil || rating.LessThan(decimal.Zero) || rating.GreaterThan(decimal.NewFromInt(5)) {
			return domain.MenuItem{}, fmt.Errorf("%s: rating must be between 0 and 5", id)
		}
		item.Rating = &rating
	}
	return item, nil
}
