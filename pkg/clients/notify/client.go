package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/poultrypms/internal/config"
)

// Client delivers farm alerts to an external webhook.
type Client interface {
	SendAlert(ctx context.Context, alert Alert) error
}

// Alert is one outbound notification payload.
type Alert struct {
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sentAt"`
}

// Alert kinds emitted by the scheduler.
const (
	KindLowFeedStock   = "low-feed-stock"
	KindVaccinationDue = "vaccination-due"
)

// WebhookClient is a resty-backed implementation of Client posting alerts as
// JSON to a configured URL.
type WebhookClient struct {
	httpClient *resty.Client
}

// NewWebhookClient builds an alert client from the alert configuration.
func NewWebhookClient(cfg config.AlertConfig) *WebhookClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(cfg.WebhookURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(time.Duration(cfg.RequestTimeoutSecs) * time.Second)

	return &WebhookClient{httpClient: restyClient}
}

// SendAlert posts the alert and fails on any non-2xx response.
func (c *WebhookClient) SendAlert(ctx context.Context, alert Alert) error {
	if alert.SentAt.IsZero() {
		alert.SentAt = time.Now()
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(alert).
		Post("")
	if err != nil {
		return fmt.Errorf("send alert: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("alert webhook error: status=%d, body=%s", resp.StatusCode(), resp.String())
	}
	return nil
}
