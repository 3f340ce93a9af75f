package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"
	"time"

	"bakery-preorder/notify"
	"bakery-preorder/order-svc/internal/cart"
	"bakery-preorder/order-svc/internal/domain"
	"bakery-preorder/order-svc/internal/schedule"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SubmitState string

const (
	StateIdle       SubmitState = "idle"
	StateValidating SubmitState = "validating"
	StateSubmitting SubmitState = "submitting"
	StateSucceeded  SubmitState = "succeeded"
	StateFailed     SubmitState = "failed"
)

const reminderLead = 24 * time.Hour

type Dispatch struct {
	Step    string         `json:"step"`
	Channel notify.Channel `json:"channel"`
	ID      string         `json:"id"`
}

type SubmitResult struct {
	State      SubmitState          `json:"state"`
	Notice     domain.Notice        `json:"notice"`
	Summary    *domain.OrderSummary `json:"summary,omitempty"`
	Dispatches []Dispatch           `json:"dispatches,omitempty"`
}

type SubmitterConfig struct {
	OrderTemplateID    string
	ReminderTemplateID string
	BusinessName       string
	Location           *time.Location
	NotifyTimeout      time.Duration
}

type OrderSubmitter struct {
	email     EmailSender
	sms       SMSSender
	publisher EventPublisher
	qr        QRGenerator
	cfg       SubmitterConfig
	validate  *validator.Validate

	Now          func() time.Time
	NewReference func() string
}

func NewOrderSubmitter(email EmailSender, sms SMSSender, publisher EventPublisher, qr QRGenerator, cfg SubmitterConfig) *OrderSubmitter {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = 10 * time.Second
	}
	if cfg.BusinessName == "" {
		cfg.BusinessName = "the bakery"
	}
	return &OrderSubmitter{
		email:        email,
		sms:          sms,
		publisher:    publisher,
		qr:           qr,
		cfg:          cfg,
		validate:     newValidator(),
		Now:          time.Now,
		NewReference: NewReference,
	}
}

// NewReference returns a short human-readable order reference.
func NewReference() string {
	return "BK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// Validate checks the cart and form together. Pickup fields are only
// examined for fulfillment modes present in the cart.
func (s *OrderSubmitter) Validate(c *cart.Cart, form domain.OrderForm) error {
	p := c.Partition()
	if p.Empty() {
		return ErrEmptyCart
	}

	now := s.Now().In(s.cfg.Location)
	fields := map[string]string{}
	if len(p.InStock) > 0 {
		s.checkPickup("in_stock_pickup", domain.InStock, form.InStockPickup, now, fields)
	}
	if len(p.MadeToOrder) > 0 {
		s.checkPickup("made_to_order_pickup", domain.MadeToOrder, form.MadeToOrderPickup, now, fields)
	}
	if err := s.validate.Struct(form); err != nil {
		collectFieldErrors(err, fields)
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (s *OrderSubmitter) checkPickup(key string, mode domain.FulfillmentMode, sel domain.PickupSelection, now time.Time, fields map[string]string) {
	switch {
	case sel.Date == "":
		fields[key+".date"] = "Please select a pickup date."
	default:
		d, err := schedule.ParseDate(sel.Date, s.cfg.Location)
		if err != nil || !schedule.IsSelectable(d, mode, now) {
			fields[key+".date"] = "That pickup date is not available."
		}
	}

	switch {
	case sel.Time == "":
		fields[key+".time"] = "Please select a pickup time."
	case !schedule.IsValidSlot(mode, sel.Time):
		fields[key+".time"] = "That pickup time is not available."
	}
}

func (s *OrderSubmitter) Submit(ctx context.Context, c *cart.Cart, form domain.OrderForm) (*SubmitResult, error) {
	result := &SubmitResult{State: StateValidating}
	if form.ReminderPreference == "" {
		form.ReminderPreference = domain.RemindByEmail
	}

	if err := s.Validate(c, form); err != nil {
		result.State = StateIdle
		result.Notice = validationNotice(err)
		return result, err
	}

	summary, err := s.summarize(c, form)
	if err != nil {
		result.State = StateIdle
		result.Notice = validationNotice(err)
		return result, err
	}
	result.State = StateSubmitting
	result.Summary = summary

	ctx, cancel := context.WithTimeout(ctx, s.cfg.NotifyTimeout)
	defer cancel()

	id, err := s.email.SendEmail(ctx, notify.Email{
		TemplateID: s.cfg.OrderTemplateID,
		To:         summary.CustomerEmail,
		Params:     s.confirmationParams(summary),
	})
	if err != nil {
		return s.fail(ctx, result, "confirmation email", err)
	}
	result.Dispatches = append(result.Dispatches, Dispatch{Step: "confirmation", Channel: notify.ChannelEmail, ID: id})

	if summary.ReminderAt != nil {
		pref := summary.ReminderPreference
		if pref.Email() {
			id, err := s.email.SendEmail(ctx, notify.Email{
				TemplateID: s.cfg.ReminderTemplateID,
				To:         summary.CustomerEmail,
				Params:     s.reminderParams(summary),
				SendAt:     *summary.ReminderAt,
			})
			if err != nil {
				return s.fail(ctx, result, "reminder email", err)
			}
			result.Dispatches = append(result.Dispatches, Dispatch{Step: "reminder", Channel: notify.ChannelEmail, ID: id})
		}
		if pref.SMS() {
			id, err := s.sms.SendSMS(ctx, notify.SMS{
				To:     summary.CustomerPhone,
				Body:   s.reminderText(summary),
				SendAt: *summary.ReminderAt,
			})
			if err != nil {
				return s.fail(ctx, result, "reminder sms", err)
			}
			result.Dispatches = append(result.Dispatches, Dispatch{Step: "reminder", Channel: notify.ChannelSMS, ID: id})
		}
	}

	s.publish(ctx, summary)

	anchor := anchorPickup(summary)
	result.State = StateSucceeded
	result.Notice = domain.Notice{
		Level: domain.NoticeSuccess,
		Title: "Order received!",
		Message: fmt.Sprintf("Thank you for your order. We'll see you on %s at %s.",
			anchor.At.Format("January 2, 2006"), anchor.Time),
	}
	log.Printf("[order-svc] order %s placed: %d lines, total %s", summary.Reference, len(summary.Lines), summary.Total.StringFixed(2))
	return result, nil
}

func (s *OrderSubmitter) fail(ctx context.Context, result *SubmitResult, step string, err error) (*SubmitResult, error) {
	log.Printf("[order-svc] order %s: %s failed: %v", result.Summary.Reference, step, err)
	s.withdrawReminders(ctx, result)
	result.State = StateFailed
	result.Notice = domain.Notice{Level: domain.NoticeError, Title: "Order not sent", Message: GenericFailureMessage}
	result.Summary = nil
	result.Dispatches = nil
	return result, &DispatchError{Step: step, Err: err}
}

// withdrawReminders cancels reminders this attempt already scheduled, so a
// failed submission leaves nothing queued behind.
func (s *OrderSubmitter) withdrawReminders(ctx context.Context, result *SubmitResult) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.NotifyTimeout)
	defer cancel()

	for _, d := range result.Dispatches {
		if d.Step != "reminder" {
			continue
		}
		var sender interface{} = s.email
		if d.Channel == notify.ChannelSMS {
			sender = s.sms
		}
		canceler, ok := sender.(ReminderCanceler)
		if !ok {
			continue
		}
		if err := canceler.Cancel(ctx, d.ID); err != nil {
			log.Printf("[order-svc] order %s: withdraw %s reminder %s: %v", result.Summary.Reference, d.Channel, d.ID, err)
		}
	}
}

func (s *OrderSubmitter) publish(ctx context.Context, summary *domain.OrderSummary) {
	if s.publisher == nil {
		return
	}
	event := domain.OrderEvent{
		Type:      domain.OrderPlacedEvent,
		Reference: summary.Reference,
		Total:     summary.Total.StringFixed(2),
		Timestamp: summary.PlacedAt,
	}
	for _, line := range summary.Lines {
		event.Items = append(event.Items, domain.OrderEventItem{ItemID: line.ItemID, Name: line.Name, Quantity: line.Quantity})
	}
	if err := s.publisher.PublishOrder(ctx, event); err != nil {
		log.Printf("[order-svc] publish order %s: %v", summary.Reference, err)
	}
}

func (s *OrderSubmitter) summarize(c *cart.Cart, form domain.OrderForm) (*domain.OrderSummary, error) {
	p := c.Partition()
	summary := &domain.OrderSummary{
		Reference:           s.NewReference(),
		CustomerName:        form.Name,
		CustomerEmail:       form.Email,
		CustomerPhone:       form.Phone,
		Total:               c.Total(),
		SpecialInstructions: form.SpecialInstructions,
		ReminderPreference:  form.ReminderPreference,
		PlacedAt:            s.Now(),
	}

	for _, line := range append(append([]domain.CartLine{}, p.InStock...), p.MadeToOrder...) {
		summary.Lines = append(summary.Lines, domain.SummaryLine{
			ItemID:    line.ItemID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.Price,
			Subtotal:  line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))),
		})
	}

	var err error
	if len(p.InStock) > 0 {
		if summary.InStockPickup, err = s.scheduled(form.InStockPickup); err != nil {
			return nil, err
		}
	}
	if len(p.MadeToOrder) > 0 {
		if summary.MadeToOrderPickup, err = s.scheduled(form.MadeToOrderPickup); err != nil {
			return nil, err
		}
	}

	if form.ReminderPreference != domain.RemindNever {
		at := anchorPickup(summary).At.Add(-reminderLead)
		summary.ReminderAt = &at
	}
	return summary, nil
}

func (s *OrderSubmitter) scheduled(sel domain.PickupSelection) (*domain.ScheduledPickup, error) {
	at, err := schedule.PickupMoment(sel.Date, sel.Time, s.cfg.Location)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"pickup": err.Error()}}
	}
	return &domain.ScheduledPickup{Date: sel.Date, Time: sel.Time, At: at}, nil
}

// anchorPickup is the earliest selected pickup. Reminders are timed from it.
func anchorPickup(summary *domain.OrderSummary) *domain.ScheduledPickup {
	anchor := summary.InStockPickup
	if mto := summary.MadeToOrderPickup; mto != nil && (anchor == nil || mto.At.Before(anchor.At)) {
		anchor = mto
	}
	return anchor
}

func describePickup(p *domain.ScheduledPickup) string {
	if p == nil {
		return "N/A"
	}
	return p.At.Format("Monday, January 2, 2006") + " at " + p.Time
}

func formatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func (s *OrderSubmitter) confirmationParams(summary *domain.OrderSummary) map[string]string {
	anchor := anchorPickup(summary)

	items := make([]string, 0, len(summary.Lines))
	for _, line := range summary.Lines {
		items = append(items, fmt.Sprintf("%d x %s (%s each) = %s",
			line.Quantity, line.Name, formatMoney(line.UnitPrice), formatMoney(line.Subtotal)))
	}

	instructions := summary.SpecialInstructions
	if instructions == "" {
		instructions = "None"
	}

	params := map[string]string{
		"to_email":             summary.CustomerEmail,
		"from_name":            summary.CustomerName,
		"from_email":           summary.CustomerEmail,
		"phone":                summary.CustomerPhone,
		"pickup_date":          anchor.At.Format("Monday, January 2, 2006"),
		"pickup_time":          anchor.Time,
		"in_stock_pickup":      describePickup(summary.InStockPickup),
		"made_to_order_pickup": describePickup(summary.MadeToOrderPickup),
		"order_items":          strings.Join(items, "\n"),
		"total_amount":         formatMoney(summary.Total),
		"special_instructions": instructions,
		"order_reference":      summary.Reference,
	}

	if s.qr != nil {
		png, err := s.qr.Generate(summary.Reference)
		if err != nil {
			log.Printf("[order-svc] WARNING: qr code for %s: %v", summary.Reference, err)
		} else {
			params["pickup_qr"] = "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
		}
	}
	return params
}

func (s *OrderSubmitter) reminderText(summary *domain.OrderSummary) string {
	anchor := anchorPickup(summary)
	return fmt.Sprintf("Reminder from %s: your order %s will be ready for pickup on %s at %s. Payment is collected at pickup.",
		s.cfg.BusinessName, summary.Reference, anchor.At.Format("Monday, January 2"), anchor.Time)
}

func (s *OrderSubmitter) reminderParams(summary *domain.OrderSummary) map[string]string {
	anchor := anchorPickup(summary)
	return map[string]string{
		"to_email":        summary.CustomerEmail,
		"from_name":       summary.CustomerName,
		"pickup_date":     anchor.At.Format("Monday, January 2, 2006"),
		"pickup_time":     anchor.Time,
		"order_reference": summary.Reference,
		"message":         s.reminderText(summary),
	}
}

func validationNotice(err error) domain.Notice {
	if err == ErrEmptyCart {
		return domain.Notice{
			Level:   domain.NoticeError,
			Title:   "Cart is empty",
			Message: "Please add items to your cart before submitting your order.",
		}
	}
	return domain.Notice{
		Level:   domain.NoticeError,
		Title:   "Check your details",
		Message: "Some fields need your attention.",
	}
}
