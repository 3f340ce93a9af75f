// Package notify delivers order emails and text messages through external
// providers, optionally holding them in Redis until their send time.
package notify

import (
	"context"
	"errors"
	"time"
)

var (
	ErrEmailNotConfigured = errors.New("email service is not configured")
	ErrSMSNotConfigured   = errors.New("sms service is not configured")
)

// Email is a templated message. Params fill the template's placeholders.
type Email struct {
	TemplateID string            `json:"template_id"`
	To         string            `json:"to"`
	Params     map[string]string `json:"params"`
	SendAt     time.Time         `json:"send_at,omitempty"`
}

type SMS struct {
	To     string    `json:"to"`
	Body   string    `json:"body"`
	SendAt time.Time `json:"send_at,omitempty"`
}

type EmailSender interface {
	SendEmail(ctx context.Context, msg Email) (string, error)
}

type SMSSender interface {
	SendSMS(ctx context.Context, msg SMS) (string, error)
}

type configurable interface {
	Configured() bool
}

func configured(v any) bool {
	c, ok := v.(configurable)
	return !ok || c.Configured()
}
