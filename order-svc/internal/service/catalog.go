package service

import (
	"context"
	"fmt"
	"strings"

	"bakery-preorder/order-svc/internal/domain"
)

type CatalogFilter struct {
	Category           string
	Vegan              bool
	GlutenFree         bool
	DairyFree          bool
	NutFree            bool
	IncludeUnavailable bool
}

func (f CatalogFilter) matches(item domain.MenuItem) bool {
	if !f.IncludeUnavailable && !item.Available {
		return false
	}
	if f.Category != "" && !strings.EqualFold(f.Category, item.Category) {
		return false
	}
	d := item.DietaryInfo
	return (!f.Vegan || d.Vegan) &&
		(!f.GlutenFree || d.GlutenFree) &&
		(!f.DairyFree || d.DairyFree) &&
		(!f.NutFree || d.NutFree)
}

// CatalogService is read-only once constructed.
type CatalogService struct {
	items      []domain.MenuItem
	byID       map[string]domain.MenuItem
	categories []string
}

func NewCatalogService(ctx context.Context, source CatalogSource) (*CatalogService, error) {
	items, err := source.LoadMenu(ctx)
	if err != nil {
		return nil, fmt.Errorf("load menu: %w", err)
	}
	return NewCatalogServiceFromItems(items)
}

func NewCatalogServiceFromItems(items []domain.MenuItem) (*CatalogService, error) {
	s := &CatalogService{byID: make(map[string]domain.MenuItem, len(items))}
	seen := make(map[string]bool)

	for _, item := range items {
		switch {
		case item.ID == "":
			return nil, fmt.Errorf("%w: item %q has no id", ErrInvalidCatalog, item.Name)
		case item.Price.IsNegative():
			return nil, fmt.Errorf("%w: item %s has negative price", ErrInvalidCatalog, item.ID)
		case item.Stock < 0:
			return nil, fmt.Errorf("%w: item %s has negative stock", ErrInvalidCatalog, item.ID)
		}
		if _, dup := s.byID[item.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate item id %s", ErrInvalidCatalog, item.ID)
		}

		s.items = append(s.items, item)
		s.byID[item.ID] = item
		if !seen[item.Category] {
			seen[item.Category] = true
			s.categories = append(s.categories, item.Category)
		}
	}
	return s, nil
}

func (s *CatalogService) List(filter CatalogFilter) []domain.MenuItem {
	out := []domain.MenuItem{}
	for _, item := range s.items {
		if filter.matches(item) {
			out = append(out, item)
		}
	}
	return out
}

func (s *CatalogService) Get(id string) (domain.MenuItem, error) {
	item, ok := s.byID[id]
	if !ok {
		return domain.MenuItem{}, ErrItemNotFound
	}
	return item, nil
}

func (s *CatalogService) Lookup(id string) (domain.MenuItem, bool) {
	item, ok := s.byID[id]
	return item, ok
}

// Categories are returned in the order they first appear in the menu.
func (s *CatalogService) Categories() []string {
	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out
}
