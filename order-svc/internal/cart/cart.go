package cart

import (
	"errors"
	"fmt"

	"bakery-preorder/order-svc/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	ErrOutOfStock  = errors.New("item is out of stock")
	ErrStockLimit  = errors.New("stock limit reached")
	ErrUnavailable = errors.New("item is not available for order")
	ErrNotInCart   = errors.New("item is not in the cart")
)

// Catalog resolves cart lines back to menu items.
type Catalog interface {
	Lookup(id string) (domain.MenuItem, bool)
}

type Partition struct {
	InStock     []domain.CartLine
	MadeToOrder []domain.CartLine
}

func (p Partition) Empty() bool {
	return len(p.InStock) == 0 && len(p.MadeToOrder) == 0
}

// Cart holds at most one line per item. For stock-constrained items the
// line quantity never exceeds the item's stock.
type Cart struct {
	catalog Catalog
	lines   []domain.CartLine
}

func New(catalog Catalog, lines []domain.CartLine) *Cart {
	c := &Cart{catalog: catalog}
	c.lines = append(c.lines, lines...)
	return c
}

func (c *Cart) Lines() []domain.CartLine {
	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) Quantity(itemID string) int {
	if i := c.index(itemID); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

func (c *Cart) AddItem(item domain.MenuItem) (domain.Notice, error) {
	if !item.Available {
		return warning("Item unavailable", fmt.Sprintf("%s is not available for pre-order right now.", item.Name)), ErrUnavailable
	}
	if !item.MadeToOrder && item.Stock <= 0 {
		return warning("Out of stock", fmt.Sprintf("%s is currently out of stock.", item.Name)), ErrOutOfStock
	}

	if i := c.index(item.ID); i >= 0 {
		next := c.lines[i].Quantity + 1
		if !item.MadeToOrder && next > item.Stock {
			return stockLimit(item), ErrStockLimit
		}
		c.lines[i].Quantity = next
	} else {
		c.lines = append(c.lines, domain.CartLine{
			ItemID:   item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: 1,
		})
	}

	return domain.Notice{
		Level:   domain.NoticeSuccess,
		Title:   "Item added to cart",
		Message: fmt.Sprintf("%s has been added to your order.", item.Name),
	}, nil
}

func (c *Cart) RemoveItem(itemID string) {
	i := c.index(itemID)
	if i < 0 {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

func (c *Cart) SetQuantity(itemID string, quantity int) (domain.Notice, error) {
	if quantity < 1 {
		c.RemoveItem(itemID)
		return domain.Notice{}, nil
	}

	i := c.index(itemID)
	if i < 0 {
		return warning("Not in cart", "That item is no longer in your cart."), ErrNotInCart
	}

	if item, ok := c.catalog.Lookup(itemID); ok && !item.MadeToOrder && quantity > item.Stock {
		return stockLimit(item), ErrStockLimit
	}

	c.lines[i].Quantity = quantity
	return domain.Notice{}, nil
}

// Total sums price*quantity over lines that still resolve in the catalog.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		if _, ok := c.catalog.Lookup(line.ItemID); !ok {
			continue
		}
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// Partition splits lines by fulfillment mode. Lines whose item cannot be
// resolved land in neither half.
func (c *Cart) Partition() Partition {
	var p Partition
	for _, line := range c.lines {
		item, ok := c.catalog.Lookup(line.ItemID)
		if !ok {
			continue
		}
		if item.MadeToOrder {
			p.MadeToOrder = append(p.MadeToOrder, line)
		} else {
			p.InStock = append(p.InStock, line)
		}
	}
	return p
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) index(itemID string) int {
	for i, line := range c.lines {
		if line.ItemID == itemID {
			return i
		}
	}
	return -1
}

func warning(title, message string) domain.Notice {
	return domain.Notice{Level: domain.NoticeWarning, Title: title, Message: message}
}

func stockLimit(item domain.MenuItem) domain.Notice {
	return warning("Stock limit reached", fmt.Sprintf("Only %d %s available.", item.Stock, item.Name))
}
