package service

import (
	"context"
	"log"
	"time"

	"bakery-preorder/notify"
	"bakery-preorder/order-svc/internal/domain"

	"github.com/go-playground/validator/v10"
)

type InquiryConfig struct {
	OwnerEmail          string
	BulkOrderTemplateID string
	ContactTemplateID   string
	NotifyTimeout       time.Duration
}

// InquiryService forwards bulk-order requests and contact messages to the
// bakery's inbox.
type InquiryService struct {
	email    EmailSender
	cfg      InquiryConfig
	validate *validator.Validate
}

func NewInquiryService(email EmailSender, cfg InquiryConfig) *InquiryService {
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = 10 * time.Second
	}
	return &InquiryService{email: email, cfg: cfg, validate: newValidator()}
}

func (s *InquiryService) SubmitBulkOrder(ctx context.Context, inquiry domain.BulkOrderInquiry) (domain.Notice, error) {
	if err := validateStruct(s.validate, inquiry); err != nil {
		return validationNotice(err), err
	}

	params := map[string]string{
		"to_email":             s.cfg.OwnerEmail,
		"from_name":            inquiry.Name,
		"from_email":           inquiry.Email,
		"phone":                inquiry.Phone,
		"company":              orDefault(inquiry.Company, "Not specified"),
		"event_date":           orDefault(inquiry.EventDate, "Not specified"),
		"quantity":             inquiry.Quantity,
		"items":                inquiry.Items,
		"special_requirements": orDefault(inquiry.SpecialRequirements, "None"),
	}
	if err := s.send(ctx, "bulk order inquiry", s.cfg.BulkOrderTemplateID, params); err != nil {
		return failureNotice(), err
	}

	return domain.Notice{
		Level:   domain.NoticeSuccess,
		Title:   "Inquiry Received!",
		Message: "Thank you for your interest. We'll get back to you within 24 hours.",
	}, nil
}

func (s *InquiryService) SubmitContact(ctx context.Context, msg domain.ContactMessage) (domain.Notice, error) {
	if err := validateStruct(s.validate, msg); err != nil {
		return validationNotice(err), err
	}

	params := map[string]string{
		"to_email":   s.cfg.OwnerEmail,
		"from_name":  msg.Name,
		"from_email": msg.Email,
		"message":    msg.Message,
	}
	if err := s.send(ctx, "contact message", s.cfg.ContactTemplateID, params); err != nil {
		return failureNotice(), err
	}

	return domain.Notice{
		Level:   domain.NoticeSuccess,
		Title:   "Message sent!",
		Message: "Thanks for reaching out. We'll get back to you soon.",
	}, nil
}

func (s *InquiryService) send(ctx context.Context, step, templateID string, params map[string]string) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.NotifyTimeout)
	defer cancel()

	_, err := s.email.SendEmail(ctx, notify.Email{TemplateID: templateID, To: s.cfg.OwnerEmail, Params: params})
	if err != nil {
		log.Printf("[order-svc] %s failed: %v", step, err)
		return &DispatchError{Step: step, Err: err}
	}
	return nil
}

func failureNotice() domain.Notice {
	return domain.Notice{
		Level:   domain.NoticeError,
		Title:   "Error",
		Message: "Something went wrong. Please try again or contact us directly.",
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
