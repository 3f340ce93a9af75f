package service

import (
	"context"

	"bakery-preorder/notify"
	"bakery-preorder/order-svc/internal/cart"
	"bakery-preorder/order-svc/internal/domain"
)

type CatalogSource interface {
	LoadMenu(ctx context.Context) ([]domain.MenuItem, error)
}

type SessionStore interface {
	Create(ctx context.Context, sess *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, sess *domain.Session) error
	Delete(ctx context.Context, id string) error
}

type EmailSender interface {
	SendEmail(ctx context.Context, msg notify.Email) (string, error)
}

type SMSSender interface {
	SendSMS(ctx context.Context, msg notify.SMS) (string, error)
}

// ReminderCanceler is implemented by senders that can withdraw a message
// they scheduled for later delivery.
type ReminderCanceler interface {
	Cancel(ctx context.Context, id string) error
}

type EventPublisher interface {
	PublishOrder(ctx context.Context, event domain.OrderEvent) error
}

type QRGenerator interface {
	Generate(reference string) ([]byte, error)
}

type CatalogServiceInterface interface {
	List(filter CatalogFilter) []domain.MenuItem
	Get(id string) (domain.MenuItem, error)
	Categories() []string
	Lookup(id string) (domain.MenuItem, bool)
}

type SessionServiceInterface interface {
	Create(ctx context.Context, preselect string) (*domain.CartView, *domain.Notice, error)
	Get(ctx context.Context, id string) (*domain.CartView, error)
	Delete(ctx context.Context, id string) error
	AddItem(ctx context.Context, id, itemID string) (*domain.CartView, domain.Notice, error)
	RemoveItem(ctx context.Context, id, itemID string) (*domain.CartView, error)
	SetQuantity(ctx context.Context, id, itemID string, quantity int) (*domain.CartView, domain.Notice, error)
	SaveForm(ctx context.Context, id string, form domain.OrderForm) (*domain.CartView, error)
	Clear(ctx context.Context, id string) (*domain.CartView, error)
	PickupWindows(ctx context.Context, id string) (*PickupWindows, error)
	Submit(ctx context.Context, id string, form *domain.OrderForm) (*SubmitResult, error)
}

type OrderSubmitterInterface interface {
	Submit(ctx context.Context, c *cart.Cart, form domain.OrderForm) (*SubmitResult, error)
}

type InquiryServiceInterface interface {
	SubmitBulkOrder(ctx context.Context, inquiry domain.BulkOrderInquiry) (domain.Notice, error)
	SubmitContact(ctx context.Context, msg domain.ContactMessage) (domain.Notice, error)
}

type ContentServiceInterface interface {
	FAQ() []domain.FAQEntry
}

var (
	_ CatalogServiceInterface = (*CatalogService)(nil)
	_ SessionServiceInterface = (*SessionService)(nil)
	_ OrderSubmitterInterface = (*OrderSubmitter)(nil)
	_ InquiryServiceInterface = (*InquiryService)(nil)
	_ ContentServiceInterface = (*ContentService)(nil)
	_ cart.Catalog            = (*CatalogService)(nil)
)
