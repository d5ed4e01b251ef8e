package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// DefaultWebhookDeadline bound on one delivery, retries included
const DefaultWebhookDeadline = 5 * time.Second

// WebhookNotifier POSTs import summaries to an external URL. Delivery runs on the
// import request path, so every call is capped by the deadline.
type WebhookNotifier struct {
	httpClient *resty.Client
	url        string
	deadline   time.Duration
	logger     *zap.Logger
}

// NewWebhookNotifier deadline <= 0 uses DefaultWebhookDeadline
func NewWebhookNotifier(url string, deadline time.Duration, logger *zap.Logger) *WebhookNotifier {
	if deadline <= 0 {
		deadline = DefaultWebhookDeadline
	}
	client := resty.New().
		SetTimeout(2*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(200*time.Millisecond).
		SetRetryMaxWaitTime(time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &WebhookNotifier{httpClient: client, url: url, deadline: deadline, logger: logger}
}

var _ Notifier = (*WebhookNotifier)(nil)

type webhookBody struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

func (w *WebhookNotifier) NotifyImport(ctx context.Context, ev ImportCompleted) error {
	return w.post(ctx, webhookBody{Type: TypeImportCompleted, Data: ev})
}

func (w *WebhookNotifier) NotifyBed(ctx context.Context, tr BedTransition) error {
	return w.post(ctx, webhookBody{Type: TypeBedTransition, Data: tr})
}

func (w *WebhookNotifier) post(ctx context.Context, body webhookBody) error {
	ctx, cancel := context.WithTimeout(ctx, w.deadline)
	defer cancel()

	resp, err := w.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("failed to call webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}
	w.logger.Debug("Webhook delivered",
		zap.String("type", body.Type),
		zap.Int("status_code", resp.StatusCode()),
	)
	return nil
}
