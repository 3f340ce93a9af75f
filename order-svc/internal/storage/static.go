package storage

import (
	"context"

	"bakery-preorder/order-svc/internal/domain"

	"github.com/shopspring/decimal"
)

// StaticCatalog serves the built-in menu.
type StaticCatalog struct{}

func (StaticCatalog) LoadMenu(context.Context) ([]domain.MenuItem, error) {
	return DefaultMenu(), nil
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DefaultMenu returns a fresh copy of the bakery's standing menu. Breads are
// baked to order; pastries and cakes come from the day's stock.
func DefaultMenu() []domain.MenuItem {
	return []domain.MenuItem{
		{
			ID:          "sourdough-bread",
			Name:        "Classic Sourdough",
			Category:    "Breads",
			Description: "Our signature sourdough bread with a crispy crust and tender, airy crumb.",
			Price:       price("8.50"),
			DietaryInfo: domain.DietaryInfo{Vegan: true, DairyFree: true},
			Available:   true,
			MadeToOrder: true,
		},
		{
			ID:          "french-onion-sourdough",
			Name:        "French Onion Sourdough",
			Category:    "Breads",
			Description: "Sourdough folded with slow-caramelized onions and gruyere.",
			Price:       price("12.00"),
			Available:   true,
			MadeToOrder: true,
		},
		{
			ID:          "country-loaf",
			Name:        "Country Loaf",
			Category:    "Breads",
			Description: "Rustic loaf with a mix of white and whole wheat flours.",
			Price:       price("7.50"),
			DietaryInfo: domain.DietaryInfo{Vegan: true, DairyFree: true},
			Available:   true,
			MadeToOrder: true,
		},
		{
			ID:          "cinnamon-raisin",
			Name:        "Cinnamon Raisin Bread",
			Category:    "Breads",
			Description: "Soft, slightly sweet bread packed with raisins and swirled with cinnamon.",
			Price:       price("9.00"),
			DietaryInfo: domain.DietaryInfo{DairyFree: true},
			Available:   true,
			MadeToOrder: true,
		},
		{
			ID:          "focaccia",
			Name:        "Rosemary Focaccia",
			Category:    "Breads",
			Description: "Italian-style focaccia with olive oil, fresh rosemary and sea salt.",
			Price:       price("8.00"),
			DietaryInfo: domain.DietaryInfo{Vegan: true, DairyFree: true},
			Available:   true,
			MadeToOrder: true,
		},
		{
			ID:          "chocolate-chip-cookies",
			Name:        "Chocolate Chip Cookies",
			Category:    "Pastries",
			Description: "Classic cookies with premium chocolate chunks and a hint of sea salt.",
			Price:       price("3.50"),
			Available:   true,
			Stock:       24,
		},
		{
			ID:          "blueberry-muffins",
			Name:        "Blueberry Muffins",
			Category:    "Pastries",
			Description: "Tender muffins bursting with fresh blueberries under a crunchy streusel.",
			Price:       price("3.50"),
			Available:   true,
			Stock:       12,
		},
		{
			ID:          "almond-croissant",
			Name:        "Almond Croissant",
			Category:    "Pastries",
			Description: "Flaky croissant filled with almond cream and topped with sliced almonds.",
			Price:       price("4.50"),
			Available:   true,
			Stock:       8,
		},
		{
			ID:          "cinnamon-roll",
			Name:        "Cinnamon Roll",
			Category:    "Pastries",
			Description: "Soft swirled rolls topped with cream cheese frosting.",
			Price:       price("4.00"),
			Available:   true,
			Stock:       0,
		},
		{
			ID:          "banana-bread",
			Name:        "Banana Bread",
			Category:    "Cakes",
			Description: "Moist banana bread made with ripe bananas and a hint of cinnamon.",
			Price:       price("6.00"),
			Available:   true,
			Stock:       2,
		},
		{
			ID:          "carrot-cake",
			Name:        "Carrot Cake",
			Category:    "Cakes",
			Description: "Spiced carrot cake with cream cheese frosting and chopped walnuts.",
			Price:       price("5.50"),
			Available:   true,
			Stock:       6,
		},
		{
			ID:          "lemon-tart",
			Name:        "Lemon Tart",
			Category:    "Cakes",
			Description: "Tangy lemon curd in a buttery shortbread crust.",
			Price:       price("5.00"),
			DietaryInfo: domain.DietaryInfo{NutFree: true},
			Available:   true,
			Stock:       6,
		},
		{
			ID:          "vegan-choc-cake",
			Name:        "Vegan Chocolate Cake",
			Category:    "Cakes",
			Description: "Rich chocolate cake made without animal products.",
			Price:       price("6.50"),
			DietaryInfo: domain.DietaryInfo{Vegan: true, DairyFree: true},
			Available:   true,
			Stock:       4,
		},
	}
}
