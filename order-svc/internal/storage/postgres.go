package storage

import (
	"context"
	"database/sql"
	"fmt"

	"bakery-preorder/order-svc/internal/domain"
)

type PostgresCatalog struct {
	DB *sql.DB
}

func NewPostgresCatalog(db *sql.DB) *PostgresCatalog {
	return &PostgresCatalog{DB: db}
}

func (r *PostgresCatalog) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS menu_items (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			description TEXT,
			price NUMERIC(10, 2) NOT NULL CHECK (price >= 0),
			vegan BOOLEAN NOT NULL DEFAULT FALSE,
			gluten_free BOOLEAN NOT NULL DEFAULT FALSE,
			dairy_free BOOLEAN NOT NULL DEFAULT FALSE,
			nut_free BOOLEAN NOT NULL DEFAULT FALSE,
			available BOOLEAN NOT NULL DEFAULT TRUE,
			stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
			made_to_order BOOLEAN NOT NULL DEFAULT FALSE,
			sort_order INTEGER NOT NULL DEFAULT 0
		)`,
		"ALTER TABLE IF EXISTS menu_items ADD COLUMN IF NOT EXISTS sort_order INTEGER NOT NULL DEFAULT 0",
	}

	for _, stmt := range statements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", stmt, err)
		}
	}
	return nil
}

func (r *PostgresCatalog) LoadMenu(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, category, COALESCE(description, ''), price,
		       vegan, gluten_free, dairy_free, nut_free,
		       available, stock, made_to_order
		FROM menu_items
		ORDER BY sort_order, category, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		var item domain.MenuItem
		d := &item.DietaryInfo
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.Description, &item.Price,
			&d.Vegan, &d.GlutenFree, &d.DairyFree, &d.NutFree,
			&item.Available, &item.Stock, &item.MadeToOrder); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
