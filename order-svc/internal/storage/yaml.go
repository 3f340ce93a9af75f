package storage

import (
	"context"
	"fmt"
	"os"

	"bakery-preorder/order-svc/internal/domain"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type yamlMenu struct {
	Items []yamlItem `yaml:"items"`
}

type yamlItem struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Category    string   `yaml:"category"`
	Description string   `yaml:"description"`
	Price       string   `yaml:"price"`
	Dietary     []string `yaml:"dietary"`
	Available   *bool    `yaml:"available"`
	Stock       int      `yaml:"stock"`
	MadeToOrder bool     `yaml:"made_to_order"`
}

// YAMLCatalog reads the menu from a file such as:
//
//	items:
//	  - id: banana-bread
//	    name: Banana Bread
//	    category: Cakes
//	    price: "6.00"
//	    dietary: [nut_free]
//	    stock: 2
type YAMLCatalog struct {
	Path string
}

func NewYAMLCatalog(path string) *YAMLCatalog {
	return &YAMLCatalog{Path: path}
}

func (c *YAMLCatalog) LoadMenu(context.Context) ([]domain.MenuItem, error) {
	raw, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", c.Path, err)
	}
	return ParseYAMLMenu(raw)
}

func ParseYAMLMenu(raw []byte) ([]domain.MenuItem, error) {
	var menu yamlMenu
	if err := yaml.Unmarshal(raw, &menu); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	items := make([]domain.MenuItem, 0, len(menu.Items))
	for _, y := range menu.Items {
		p, err := decimal.NewFromString(y.Price)
		if err != nil {
			return nil, fmt.Errorf("item %s: invalid price %q: %w", y.ID, y.Price, err)
		}
		item := domain.MenuItem{
			ID:          y.ID,
			Name:        y.Name,
			Category:    y.Category,
			Description: y.Description,
			Price:       p,
			Available:   y.Available == nil || *y.Available,
			Stock:       y.Stock,
			MadeToOrder: y.MadeToOrder,
		}
		for _, tag := range y.Dietary {
			switch tag {
			case "vegan":
				item.DietaryInfo.Vegan = true
			case "gluten_free":
				item.DietaryInfo.GlutenFree = true
			case "dairy_free":
				item.DietaryInfo.DairyFree = true
			case "nut_free":
				item.DietaryInfo.NutFree = true
			default:
				return nil, fmt.Errorf("item %s: unknown dietary tag %q", y.ID, tag)
			}
		}
		items = append(items, item)
	}
	return items, nil
}
