package notify

import (
	"context"
	"fmt"

	"bakery-preorder/config"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// MessageCreator is the slice of the Twilio REST API used for SMS.
type MessageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

type TwilioSender struct {
	api  MessageCreator
	from string
}

// NewTwilioSender builds a sender from account credentials. Missing
// credentials produce an unconfigured sender that fails each send rather
// than failing start-up.
func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	if accountSID == "" || authToken == "" || from == "" {
		return &TwilioSender{}
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{api: client.Api, from: from}
}

func NewTwilioSenderFromEnv() *TwilioSender {
	return NewTwilioSender(
		config.GetEnv("TWILIO_ACCOUNT_SID", ""),
		config.GetEnv("TWILIO_AUTH_TOKEN", ""),
		config.GetEnv("TWILIO_PHONE_NUMBER", ""),
	)
}

func NewTwilioSenderWithAPI(api MessageCreator, from string) *TwilioSender {
	return &TwilioSender{api: api, from: from}
}

func (s *TwilioSender) Configured() bool {
	return s.api != nil && s.from != ""
}

func (s *TwilioSender) SendSMS(ctx context.Context, msg SMS) (string, error) {
	if !s.Configured() {
		return "", ErrSMSNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(msg.To)
	params.SetFrom(s.from)
	params.SetBody(msg.Body)

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio create message: %w", err)
	}
	if resp == nil || resp.Sid == nil || *resp.Sid == "" {
		return "", fmt.Errorf("twilio create message: empty sid")
	}
	return *resp.Sid, nil
}

var _ SMSSender = (*TwilioSender)(nil)
