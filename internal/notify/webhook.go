// Package notify pushes escalations to external channels.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/models"
)

// WebhookNotifier POSTs CRITICAL escalations to a configured cloud
// endpoint. Lower severities are ignored so the channel stays quiet.
type WebhookNotifier struct {
	client *resty.Client
	url    string
	logger *zap.Logger
}

// NewWebhookNotifier creates a notifier for the given endpoint.
func NewWebhookNotifier(url string, timeout time.Duration, logger *zap.Logger) *WebhookNotifier {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetHeader("Content-Type", "application/json")

	return &WebhookNotifier{
		client: client,
		url:    url,
		logger: logger,
	}
}

// Publish implements escalation.Publisher.
func (n *WebhookNotifier) Publish(ctx context.Context, record models.EscalationRecord) error {
	if record.Severity != models.SeverityCritical {
		return nil
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(record).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("failed to post escalation webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("escalation webhook returned %d", resp.StatusCode())
	}

	n.logger.Info("Critical escalation pushed to webhook",
		zap.String("event_id", record.EventID),
		zap.Int("status", resp.StatusCode()),
	)
	return nil
}
