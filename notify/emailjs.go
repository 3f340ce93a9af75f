package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"bakery-preorder/config"

	"github.com/google/uuid"
)

const defaultEmailJSEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

type EmailJSConfig struct {
	ServiceID  string
	PublicKey  string
	PrivateKey string
	Endpoint   string
}

func EmailJSConfigFromEnv() EmailJSConfig {
	return EmailJSConfig{
		ServiceID:  config.GetEnv("EMAILJS_SERVICE_ID", ""),
		PublicKey:  config.GetEnv("EMAILJS_PUBLIC_KEY", ""),
		PrivateKey: config.GetEnv("EMAILJS_PRIVATE_KEY", ""),
		Endpoint:   config.GetEnv("EMAILJS_ENDPOINT", defaultEmailJSEndpoint),
	}
}

type EmailJSClient struct {
	cfg        EmailJSConfig
	HTTPClient *http.Client
}

func NewEmailJSClient(cfg EmailJSConfig, timeout time.Duration) *EmailJSClient {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEmailJSEndpoint
	}
	return &EmailJSClient{
		cfg:        cfg,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

func (c *EmailJSClient) Configured() bool {
	return c.cfg.ServiceID != "" && c.cfg.PublicKey != ""
}

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

// SendEmail posts one templated email. EmailJS answers with a bare "OK", so
// the returned dispatch id is generated locally.
func (c *EmailJSClient) SendEmail(ctx context.Context, msg Email) (string, error) {
	if !c.Configured() || msg.TemplateID == "" {
		return "", ErrEmailNotConfigured
	}

	params := make(map[string]string, len(msg.Params)+1)
	for k, v := range msg.Params {
		params[k] = v
	}
	if _, ok := params["to_email"]; !ok && msg.To != "" {
		params["to_email"] = msg.To
	}

	payload, err := json.Marshal(emailJSRequest{
		ServiceID:      c.cfg.ServiceID,
		TemplateID:     msg.TemplateID,
		UserID:         c.cfg.PublicKey,
		AccessToken:    c.cfg.PrivateKey,
		TemplateParams: params,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("emailjs request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("emailjs returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	return uuid.NewString(), nil
}

var _ EmailSender = (*EmailJSClient)(nil)
