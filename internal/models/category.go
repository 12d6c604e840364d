package models

import (
	"fmt"
	"iter"
)

// Category is a named, ordered group of menu items
type Category struct {
	name  string
	items []*Item
}

// NewCategory creates an empty category
func NewCategory(name string) *Category {
	return &Category{name: name}
}

func (c *Category) Name() string { return c.name }
func (c *Category) Size() int    { return len(c.items) }

// AddItem appends an item. Only used while the catalog is being built.
func (c *Category) AddItem(item *Item) {
	c.items = append(c.items, item)
}

// ItemAt returns the item at a zero-based position
func (c *Category) ItemAt(index int) (*Item, error) {
	if index < 0 || index >= len(c.items) {
		return nil, fmt.Errorf("%w: %s has %d items, got index %d", ErrIndexOutOfRange, c.name, len(c.items), index)
	}
	return c.items[index], nil
}

// Items yields the items with their 1-based display number, in insertion order.
func (c *Category) Items() iter.Seq2[int, *Item] {
	return func(yield func(int, *Item) bool) {
		for i, item := range c.items {
			if !yield(i+1, item) {
				return
			}
		}
	}
}
