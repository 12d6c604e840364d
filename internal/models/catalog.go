package models

import (
	"fmt"
	"iter"

	"github.com/shopspring/decimal"
)

// SeedEntry is one row of catalog seed data
type SeedEntry struct {
	Category string          `yaml:"category" validate:"required,max=50"`
	Name     string          `yaml:"name" validate:"required,max=50"`
	Price    decimal.Decimal `yaml:"price"`
	Stock    int             `yaml:"stock" validate:"gte=0"`
}

// Catalog maps category names to categories and remembers insertion order
type Catalog struct {
	order      []string
	categories map[string]*Category
}

// DefaultSeed returns the reference menu
func DefaultSeed() []SeedEntry {
	return []SeedEntry{
		{Category: "Beverages", Name: "Coffee", Price: decimal.RequireFromString("2.50"), Stock: 50},
		{Category: "Beverages", Name: "Tea", Price: decimal.RequireFromString("2.00"), Stock: 50},
		{Category: "Snacks", Name: "Sandwich", Price: decimal.RequireFromString("5.00"), Stock: 30},
		{Category: "Snacks", Name: "Cake", Price: decimal.RequireFromString("3.50"), Stock: 20},
		{Category: "Fast Food", Name: "Burger", Price: decimal.RequireFromString("7.00"), Stock: 25},
		{Category: "Fast Food", Name: "Pizza", Price: decimal.RequireFromString("8.00"), Stock: 15},
	}
}

// NewCatalog builds a catalog from seed entries. Categories appear in the
// order they are first seen.
func NewCatalog(entries []SeedEntry) (*Catalog, error) {
	c := &Catalog{categories: make(map[string]*Category)}
	for _, entry := range entries {
		item, err := NewItem(entry.Name, entry.Price, entry.Stock)
		if err != nil {
			return nil, fmt.Errorf("failed to build catalog: %w", err)
		}
		category, ok := c.categories[entry.Category]
		if !ok {
			category = NewCategory(entry.Category)
			c.categories[entry.Category] = category
			c.order = append(c.order, entry.Category)
		}
		category.AddItem(item)
	}
	return c, nil
}

// HasCategory reports whether name is a known category (case-sensitive)
func (c *Catalog) HasCategory(name string) bool {
	_, ok := c.categories[name]
	return ok
}

// Category looks up a category by name
func (c *Catalog) Category(name string) (*Category, error) {
	category, ok := c.categories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	return category, nil
}

// ItemAt returns the item at a zero-based index within a category
func (c *Catalog) ItemAt(categoryName string, index int) (*Item, error) {
	category, err := c.Category(categoryName)
	if err != nil {
		return nil, err
	}
	return category.ItemAt(index)
}

// AllCategories yields every category in insertion order
func (c *Catalog) AllCategories() iter.Seq2[string, *Category] {
	return func(yield func(string, *Category) bool) {
		for _, name := range c.order {
			if !yield(name, c.categories[name]) {
				return
			}
		}
	}
}
