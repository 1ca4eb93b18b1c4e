package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Sink delivers one rendered notification to an external channel. A nil error
// means the channel accepted the message.
type Sink interface {
	Deliver(ctx context.Context, message string) error
}

// WebhookSink posts notifications as JSON to a configured webhook URL.
type WebhookSink struct {
	url  string
	http *http.Client
}

// NewWebhookSink creates a webhook sink. Returns nil when no URL is
// configured, which disables delivery while changes keep accumulating.
func NewWebhookSink(cfg Config) *WebhookSink {
	if cfg.WebhookURL == "" {
		return nil
	}
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 10
	}
	return &WebhookSink{
		url:  cfg.WebhookURL,
		http: &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

// Deliver posts {"text": message} to the webhook.
func (s *WebhookSink) Deliver(ctx context.Context, message string) error {
	body, err := json.Marshal(map[string]string{"text": message})
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook rejected notification: status %d", resp.StatusCode)
	}
	return nil
}
