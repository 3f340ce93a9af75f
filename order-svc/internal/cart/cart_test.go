package cart

import (
	"testing"

	"bakery-preorder/order-svc/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCatalog map[string]domain.MenuItem

func (m mapCatalog) Lookup(id string) (domain.MenuItem, bool) {
	item, ok := m[id]
	return item, ok
}

var (
	cookies = domain.MenuItem{
		ID: "chocolate-chip-cookies", Name: "Chocolate Chip Cookies", Category: "Cookies",
		Price: decimal.RequireFromString("3.50"), Available: true, Stock: 24,
	}
	sourdough = domain.MenuItem{
		ID: "french-onion-sourdough", Name: "French Onion Sourdough", Category: "Breads",
		Price: decimal.RequireFromString("12.00"), Available: true, MadeToOrder: true,
	}
	bananaBread = domain.MenuItem{
		ID: "banana-bread", Name: "Banana Bread", Category: "Breads",
		Price: decimal.RequireFromString("9.00"), Available: true, Stock: 2,
	}
	soldOut = domain.MenuItem{
		ID: "lemon-bars", Name: "Lemon Bars", Category: "Bars",
		Price: decimal.RequireFromString("4.00"), Available: true, Stock: 0,
	}
	retired = domain.MenuItem{
		ID: "seasonal-pie", Name: "Seasonal Pie", Category: "Pies",
		Price: decimal.RequireFromString("20.00"), Available: false, MadeToOrder: true,
	}
)

func testCatalog() mapCatalog {
	return mapCatalog{
		cookies.ID:     cookies,
		sourdough.ID:   sourdough,
		bananaBread.ID: bananaBread,
		soldOut.ID:     soldOut,
		retired.ID:     retired,
	}
}

func TestAddItem(t *testing.T) {
	tests := []struct {
		name      string
		adds      []domain.MenuItem
		wantQty   map[string]int
		wantErr   error
		wantLevel string
	}{
		{
			name:      "new item starts at one",
			adds:      []domain.MenuItem{cookies},
			wantQty:   map[string]int{cookies.ID: 1},
			wantLevel: domain.NoticeSuccess,
		},
		{
			name:      "repeat add increments",
			adds:      []domain.MenuItem{cookies, cookies, cookies},
			wantQty:   map[string]int{cookies.ID: 3},
			wantLevel: domain.NoticeSuccess,
		},
		{
			name:      "stock limit caps quantity",
			adds:      []domain.MenuItem{bananaBread, bananaBread, bananaBread},
			wantQty:   map[string]int{bananaBread.ID: 2},
			wantErr:   ErrStockLimit,
			wantLevel: domain.NoticeWarning,
		},
		{
			name:      "made to order ignores stock",
			adds:      []domain.MenuItem{sourdough, sourdough, sourdough, sourdough},
			wantQty:   map[string]int{sourdough.ID: 4},
			wantLevel: domain.NoticeSuccess,
		},
		{
			name:      "out of stock leaves cart untouched",
			adds:      []domain.MenuItem{soldOut},
			wantQty:   map[string]int{},
			wantErr:   ErrOutOfStock,
			wantLevel: domain.NoticeWarning,
		},
		{
			name:      "unavailable item is rejected",
			adds:      []domain.MenuItem{retired},
			wantQty:   map[string]int{},
			wantErr:   ErrUnavailable,
			wantLevel: domain.NoticeWarning,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			c := New(testCatalog(), nil)

			var (
				notice domain.Notice
				err    error
			)
			for _, item := range testCase.adds {
				notice, err = c.AddItem(item)
			}

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, testCase.wantLevel, notice.Level)
			assert.Equal(t, len(testCase.wantQty), c.Len())
			for id, qty := range testCase.wantQty {
				assert.Equal(t, qty, c.Quantity(id))
			}
		})
	}
}

func TestAddItemSnapshotsNameAndPrice(t *testing.T) {
	c := New(testCatalog(), nil)
	_, err := c.AddItem(cookies)
	require.NoError(t, err)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "Chocolate Chip Cookies", lines[0].Name)
	assert.True(t, decimal.RequireFromString("3.50").Equal(lines[0].Price))
}

func TestSetQuantity(t *testing.T) {
	tests := []struct {
		name    string
		itemID  string
		qty     int
		wantQty int
		wantLen int
		wantErr error
	}{
		{name: "within stock", itemID: cookies.ID, qty: 5, wantQty: 5, wantLen: 2},
		{name: "zero removes line", itemID: cookies.ID, qty: 0, wantQty: 0, wantLen: 1},
		{name: "negative removes line", itemID: cookies.ID, qty: -3, wantQty: 0, wantLen: 1},
		{name: "above stock is rejected", itemID: bananaBread.ID, qty: 3, wantQty: 1, wantLen: 2, wantErr: ErrStockLimit},
		{name: "absent line", itemID: sourdough.ID, qty: 2, wantQty: 0, wantLen: 2, wantErr: ErrNotInCart},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			c := New(testCatalog(), nil)
			_, err := c.AddItem(cookies)
			require.NoError(t, err)
			_, err = c.AddItem(bananaBread)
			require.NoError(t, err)

			_, err = c.SetQuantity(testCase.itemID, testCase.qty)
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, testCase.wantQty, c.Quantity(testCase.itemID))
			assert.Equal(t, testCase.wantLen, c.Len())
		})
	}
}

func TestRemoveItem(t *testing.T) {
	c := New(testCatalog(), nil)
	_, _ = c.AddItem(cookies)
	_, _ = c.AddItem(sourdough)

	c.RemoveItem(cookies.ID)
	assert.Equal(t, 0, c.Quantity(cookies.ID))
	assert.Equal(t, 1, c.Len())

	c.RemoveItem("not-there")
	assert.Equal(t, 1, c.Len())
}

func TestTotalAndPartition(t *testing.T) {
	c := New(testCatalog(), nil)
	_, _ = c.AddItem(cookies)
	_, _ = c.AddItem(cookies)
	_, _ = c.AddItem(sourdough)

	assert.Equal(t, "19.00", c.Total().StringFixed(2))

	p := c.Partition()
	require.Len(t, p.InStock, 1)
	require.Len(t, p.MadeToOrder, 1)
	assert.Equal(t, cookies.ID, p.InStock[0].ItemID)
	assert.Equal(t, sourdough.ID, p.MadeToOrder[0].ItemID)
	assert.False(t, p.Empty())
}

func TestUnresolvableLinesAreIgnored(t *testing.T) {
	lines := []domain.CartLine{
		{ItemID: cookies.ID, Name: cookies.Name, Price: cookies.Price, Quantity: 2},
		{ItemID: "discontinued", Name: "Old Scone", Price: decimal.NewFromInt(3), Quantity: 4},
	}
	c := New(testCatalog(), lines)

	assert.Equal(t, "7.00", c.Total().StringFixed(2))
	p := c.Partition()
	assert.Len(t, p.InStock, 1)
	assert.Empty(t, p.MadeToOrder)
	assert.Equal(t, 2, c.Len())
}

func TestClear(t *testing.T) {
	c := New(testCatalog(), nil)
	_, _ = c.AddItem(cookies)
	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.True(t, c.Partition().Empty())
	assert.True(t, c.Total().IsZero())
}

func TestNewCopiesLines(t *testing.T) {
	lines := []domain.CartLine{{ItemID: cookies.ID, Name: cookies.Name, Price: cookies.Price, Quantity: 1}}
	c := New(testCatalog(), lines)
	_, err := c.AddItem(cookies)
	require.NoError(t, err)

	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, 2, c.Quantity(cookies.ID))
}

type step struct {
	add bool
	set int
}

func TestQuantityNeverExceedsStock(t *testing.T) {
	tests := []struct {
		name    string
		item    domain.MenuItem
		steps   []step
		wantQty int
	}{
		{
			name:    "set above stock after partial adds",
			item:    bananaBread,
			steps:   []step{{add: true}, {set: 3}, {add: true}, {add: true}, {set: 3}},
			wantQty: 2,
		},
		{
			name:    "set to stock then add",
			item:    bananaBread,
			steps:   []step{{add: true}, {set: 2}, {add: true}},
			wantQty: 2,
		},
		{
			name:    "set down then add back up",
			item:    cookies,
			steps:   []step{{add: true}, {set: 24}, {set: 25}, {set: 23}, {add: true}, {add: true}},
			wantQty: 24,
		},
		{
			name:    "removal by zero then re-add",
			item:    bananaBread,
			steps:   []step{{add: true}, {add: true}, {set: 0}, {add: true}, {set: 3}},
			wantQty: 1,
		},
		{
			name:    "sold out never enters",
			item:    soldOut,
			steps:   []step{{add: true}, {set: 1}, {add: true}},
			wantQty: 0,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			c := New(testCatalog(), nil)
			for i, s := range testCase.steps {
				if s.add {
					c.AddItem(testCase.item)
				} else {
					c.SetQuantity(testCase.item.ID, s.set)
				}
				assert.LessOrEqual(t, c.Quantity(testCase.item.ID), testCase.item.Stock, "after step %d", i)
			}
			assert.Equal(t, testCase.wantQty, c.Quantity(testCase.item.ID))
		})
	}
}

func TestQuantityNeverExceedsStockLongSequence(t *testing.T) {
	c := New(testCatalog(), nil)
	items := []domain.MenuItem{bananaBread, cookies, soldOut}

	// Deterministic walk over adds and sets, including values past stock.
	for i := 0; i < 300; i++ {
		item := items[i%len(items)]
		if i%4 == 0 {
			c.SetQuantity(item.ID, (i*7)%(item.Stock+3))
		} else {
			c.AddItem(item)
		}
		for _, it := range items {
			require.LessOrEqual(t, c.Quantity(it.ID), it.Stock, "item %s after step %d", it.ID, i)
		}
	}
}
