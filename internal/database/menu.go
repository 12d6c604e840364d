package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"cafe-system/internal/models"
)

// menuRow mirrors one row of GetMenuItemsSQL
type menuRow struct {
	Category string
	Name     string
	Price    string
	Stock    int
}

// LoadMenu reads the catalog seed from the menu_items table
func (db *DB) LoadMenu(ctx context.Context) ([]models.SeedEntry, error) {
	rows, err := db.Query(ctx, GetMenuItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}

	collected, err := pgx.CollectRows(rows, pgx.RowToStructByPos[menuRow])
	if err != nil {
		return nil, fmt.Errorf("failed to read menu items: %w", err)
	}

	return toSeedEntries(collected)
}

func toSeedEntries(rows []menuRow) ([]models.SeedEntry, error) {
	entries := make([]models.SeedEntry, 0, len(rows))
	for _, row := range rows {
		price, err := decimal.NewFromString(row.Price)
		if err != nil {
			return nil, fmt.Errorf("invalid price %q for %s: %w", row.Price, row.Name, err)
		}
		entries = append(entries, models.SeedEntry{
			Category: row.Category,
			Name:     row.Name,
			Price:    price,
			Stock:    row.Stock,
		})
	}
	return entries, nil
}
