package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type FulfillmentMode string

const (
	InStock     FulfillmentMode = "in_stock"
	MadeToOrder FulfillmentMode = "made_to_order"
)

func (m FulfillmentMode) Valid() bool {
	return m == InStock || m == MadeToOrder
}

type DietaryInfo struct {
	Vegan      bool `json:"vegan,omitempty"`
	GlutenFree bool `json:"gluten_free,omitempty"`
	DairyFree  bool `json:"dairy_free,omitempty"`
	NutFree    bool `json:"nut_free,omitempty"`
}

// MenuItem is owned by the catalog and never changes at runtime.
// Stock only constrains purchases when MadeToOrder is false.
type MenuItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	DietaryInfo DietaryInfo     `json:"dietary_info"`
	Available   bool            `json:"available"`
	Stock       int             `json:"stock"`
	MadeToOrder bool            `json:"made_to_order"`
}

func (m MenuItem) Mode() FulfillmentMode {
	if m.MadeToOrder {
		return MadeToOrder
	}
	return InStock
}

// CartLine snapshots name and price when the item is first added.
type CartLine struct {
	ItemID   string          `json:"item_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type Notice struct {
	Level   string `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

const (
	NoticeSuccess = "success"
	NoticeWarning = "warning"
	NoticeError   = "error"
)

type ReminderPreference string

const (
	RemindByEmail ReminderPreference = "email"
	RemindBySMS   ReminderPreference = "sms"
	RemindByBoth  ReminderPreference = "both"
	RemindNever   ReminderPreference = "none"
)

func (p ReminderPreference) Email() bool {
	return p == RemindByEmail || p == RemindByBoth
}

func (p ReminderPreference) SMS() bool {
	return p == RemindBySMS || p == RemindByBoth
}

type PickupSelection struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

func (p PickupSelection) Complete() bool {
	return p.Date != "" && p.Time != ""
}

type OrderForm struct {
	Name                string             `json:"name" validate:"min=2"`
	Email               string             `json:"email" validate:"required,email"`
	Phone               string             `json:"phone" validate:"min=10"`
	InStockPickup       PickupSelection    `json:"in_stock_pickup"`
	MadeToOrderPickup   PickupSelection    `json:"made_to_order_pickup"`
	SpecialInstructions string             `json:"special_instructions"`
	ReminderPreference  ReminderPreference `json:"reminder_preference" validate:"omitempty,oneof=email sms both none"`
}

func DefaultOrderForm() OrderForm {
	return OrderForm{ReminderPreference: RemindByEmail}
}

// Session stands in for one browser session: a cart and a form draft that
// expire together.
type Session struct {
	ID        string     `json:"id"`
	Lines     []CartLine `json:"lines"`
	Form      OrderForm  `json:"form"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CartLineView struct {
	ItemID   string          `json:"item_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Mode     FulfillmentMode `json:"mode,omitempty"`
}

type CartView struct {
	SessionID        string          `json:"session_id"`
	Lines            []CartLineView  `json:"lines"`
	Total            decimal.Decimal `json:"total"`
	InStockCount     int             `json:"in_stock_count"`
	MadeToOrderCount int             `json:"made_to_order_count"`
	Form             OrderForm       `json:"form"`
	Submitting       bool            `json:"submitting"`
}

type ScheduledPickup struct {
	Date string    `json:"date"`
	Time string    `json:"time"`
	At   time.Time `json:"at"`
}

type SummaryLine struct {
	ItemID    string          `json:"item_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type OrderSummary struct {
	Reference           string             `json:"reference"`
	CustomerName        string             `json:"customer_name"`
	CustomerEmail       string             `json:"customer_email"`
	CustomerPhone       string             `json:"customer_phone"`
	Lines               []SummaryLine      `json:"lines"`
	Total               decimal.Decimal    `json:"total"`
	InStockPickup       *ScheduledPickup   `json:"in_stock_pickup,omitempty"`
	MadeToOrderPickup   *ScheduledPickup   `json:"made_to_order_pickup,omitempty"`
	SpecialInstructions string             `json:"special_instructions"`
	ReminderPreference  ReminderPreference `json:"reminder_preference"`
	ReminderAt          *time.Time         `json:"reminder_at,omitempty"`
	PlacedAt            time.Time          `json:"placed_at"`
}

type OrderEventItem struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// OrderEvent is published after a successful submission. It carries no
// customer data.
type OrderEvent struct {
	Type      string           `json:"type"`
	Reference string           `json:"reference"`
	Items     []OrderEventItem `json:"items"`
	Total     string           `json:"total"`
	Timestamp time.Time        `json:"timestamp"`
}

const OrderPlacedEvent = "order_placed"

type BulkOrderInquiry struct {
	Name                string `json:"name" validate:"min=2"`
	Email               string `json:"email" validate:"required,email"`
	Phone               string `json:"phone" validate:"min=10"`
	Company             string `json:"company"`
	EventDate           string `json:"event_date"`
	Quantity            string `json:"quantity" validate:"required"`
	Items               string `json:"items" validate:"required"`
	SpecialRequirements string `json:"special_requirements"`
}

type ContactMessage struct {
	Name    string `json:"name" validate:"min=2"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"min=10"`
}

type FAQEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
