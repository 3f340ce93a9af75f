package service

import (
	"context"
	"log"
	"sync"
	"time"

	"bakery-preorder/order-svc/internal/cart"
	"bakery-preorder/order-svc/internal/domain"
	"bakery-preorder/order-svc/internal/schedule"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PickupWindows struct {
	Windows  []schedule.Window `json:"windows"`
	Deadline schedule.Deadline `json:"deadline"`
}

type SessionConfig struct {
	Location    *time.Location
	HorizonDays int
}

// SessionService owns every cart. Mutations are serialized by mu and a
// session with a submission in flight rejects further changes.
type SessionService struct {
	store     SessionStore
	catalog   *CatalogService
	submitter OrderSubmitterInterface
	cfg       SessionConfig

	mu         sync.Mutex
	submitting map[string]bool

	Now func() time.Time
}

func NewSessionService(store SessionStore, catalog *CatalogService, submitter OrderSubmitterInterface, cfg SessionConfig) *SessionService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.HorizonDays <= 0 {
		cfg.HorizonDays = schedule.DefaultHorizonDays
	}
	return &SessionService{
		store:      store,
		catalog:    catalog,
		submitter:  submitter,
		cfg:        cfg,
		submitting: make(map[string]bool),
		Now:        time.Now,
	}
}

// Create starts a session. A preselected item that exists in the catalog is
// added through the normal cart rules; unknown ids are ignored.
func (s *SessionService) Create(ctx context.Context, preselect string) (*domain.CartView, *domain.Notice, error) {
	now := s.Now()
	sess := &domain.Session{
		ID:        uuid.NewString(),
		Form:      domain.DefaultOrderForm(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	var notice *domain.Notice
	if preselect != "" {
		if item, ok := s.catalog.Lookup(preselect); ok {
			c := cart.New(s.catalog, nil)
			n, _ := c.AddItem(item)
			sess.Lines = c.Lines()
			notice = &n
		}
	}

	if err := s.store.Create(ctx, sess); err != nil {
		return nil, nil, err
	}
	return s.view(sess, false), notice, nil
}

func (s *SessionService) Get(ctx context.Context, id string) (*domain.CartView, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	submitting := s.submitting[id]
	s.mu.Unlock()
	return s.view(sess, submitting), nil
}

func (s *SessionService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting[id] {
		return ErrSubmissionInProgress
	}
	return s.store.Delete(ctx, id)
}

func (s *SessionService) AddItem(ctx context.Context, id, itemID string) (*domain.CartView, domain.Notice, error) {
	item, ok := s.catalog.Lookup(itemID)
	if !ok {
		return nil, domain.Notice{}, ErrItemNotFound
	}

	var notice domain.Notice
	view, err := s.mutate(ctx, id, func(c *cart.Cart, _ *domain.Session) error {
		var err error
		notice, err = c.AddItem(item)
		return err
	})
	return view, notice, err
}

func (s *SessionService) RemoveItem(ctx context.Context, id, itemID string) (*domain.CartView, error) {
	return s.mutate(ctx, id, func(c *cart.Cart, _ *domain.Session) error {
		c.RemoveItem(itemID)
		return nil
	})
}

func (s *SessionService) SetQuantity(ctx context.Context, id, itemID string, quantity int) (*domain.CartView, domain.Notice, error) {
	var notice domain.Notice
	view, err := s.mutate(ctx, id, func(c *cart.Cart, _ *domain.Session) error {
		var err error
		notice, err = c.SetQuantity(itemID, quantity)
		return err
	})
	return view, notice, err
}

// SaveForm stores the draft as typed. Validation happens on submit.
func (s *SessionService) SaveForm(ctx context.Context, id string, form domain.OrderForm) (*domain.CartView, error) {
	return s.mutate(ctx, id, func(_ *cart.Cart, sess *domain.Session) error {
		sess.Form = normalizeForm(form)
		return nil
	})
}

func (s *SessionService) Clear(ctx context.Context, id string) (*domain.CartView, error) {
	return s.mutate(ctx, id, func(c *cart.Cart, _ *domain.Session) error {
		c.Clear()
		return nil
	})
}

func (s *SessionService) PickupWindows(ctx context.Context, id string) (*PickupWindows, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p := cart.New(s.catalog, sess.Lines).Partition()
	now := s.Now().In(s.cfg.Location)
	return &PickupWindows{
		Windows:  schedule.Windows(schedule.Mix{InStock: len(p.InStock) > 0, MadeToOrder: len(p.MadeToOrder) > 0}, now, s.cfg.HorizonDays),
		Deadline: schedule.NextOrderDeadline(now),
	}, nil
}

// Submit places the order for a session. A form in the request replaces
// the stored draft first. On success the cart and form are reset; on any
// failure both are left as they were.
func (s *SessionService) Submit(ctx context.Context, id string, form *domain.OrderForm) (*SubmitResult, error) {
	s.mu.Lock()
	if s.submitting[id] {
		s.mu.Unlock()
		return nil, ErrSubmissionInProgress
	}
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if form != nil {
		sess.Form = normalizeForm(*form)
		sess.UpdatedAt = s.Now()
		if err := s.store.Save(ctx, sess); err != nil {
			s.mu.Unlock()
			return nil, err
		}
	}
	s.submitting[id] = true
	s.mu.Unlock()
	defer s.endSubmit(id)

	result, err := s.submitter.Submit(ctx, cart.New(s.catalog, sess.Lines), sess.Form)
	if err != nil {
		return result, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	latest, err := s.store.Get(ctx, id)
	if err != nil {
		log.Printf("[order-svc] session %s vanished after order: %v", id, err)
		return result, nil
	}
	latest.Lines = nil
	latest.Form = domain.DefaultOrderForm()
	latest.UpdatedAt = s.Now()
	if err := s.store.Save(ctx, latest); err != nil {
		log.Printf("[order-svc] reset session %s: %v", id, err)
	}
	return result, nil
}

func (s *SessionService) endSubmit(id string) {
	s.mu.Lock()
	delete(s.submitting, id)
	s.mu.Unlock()
}

// mutate loads a session, applies fn to its cart and saves it. When fn
// fails nothing is written and the unchanged view is returned with the error.
func (s *SessionService) mutate(ctx context.Context, id string, fn func(c *cart.Cart, sess *domain.Session) error) (*domain.CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting[id] {
		return nil, ErrSubmissionInProgress
	}
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	c := cart.New(s.catalog, sess.Lines)
	if err := fn(c, sess); err != nil {
		return s.view(sess, false), err
	}

	sess.Lines = c.Lines()
	sess.UpdatedAt = s.Now()
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return s.view(sess, false), nil
}

func (s *SessionService) view(sess *domain.Session, submitting bool) *domain.CartView {
	c := cart.New(s.catalog, sess.Lines)
	p := c.Partition()

	view := &domain.CartView{
		SessionID:        sess.ID,
		Lines:            []domain.CartLineView{},
		Total:            c.Total(),
		InStockCount:     len(p.InStock),
		MadeToOrderCount: len(p.MadeToOrder),
		Form:             sess.Form,
		Submitting:       submitting,
	}
	for _, line := range sess.Lines {
		lv := domain.CartLineView{
			ItemID:   line.ItemID,
			Name:     line.Name,
			Price:    line.Price,
			Quantity: line.Quantity,
			Subtotal: line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))),
		}
		if item, ok := s.catalog.Lookup(line.ItemID); ok {
			lv.Mode = item.Mode()
		}
		view.Lines = append(view.Lines, lv)
	}
	return view
}

func normalizeForm(form domain.OrderForm) domain.OrderForm {
	if form.ReminderPreference == "" {
		form.ReminderPreference = domain.RemindByEmail
	}
	return form
}
