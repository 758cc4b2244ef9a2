package alert

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	webhookRetries = 2
	webhookBackoff = 250 * time.Millisecond
)

// Webhook sends the full digest (text plus structured record) to a
// generic HTTP endpoint, for downstream renderers that want the JSON.
// Unlike Slack, the endpoint is arbitrary infrastructure, so transient
// failures (network errors, 5xx) are retried with a short backoff.
type Webhook struct {
	client *http.Client
	url    string
	secret string
}

// NewWebhook creates a new generic webhook notifier.
func NewWebhook(url, secret string) *Webhook {
	return &Webhook{
		client: &http.Client{Timeout: 10 * time.Second},
		url:    url,
		secret: secret,
	}
}

func (w *Webhook) Name() string { return "webhook" }

func (w *Webhook) Send(ctx context.Context, d *Digest) error {
	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= webhookRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(webhookBackoff):
			}
		}

		status, err := w.post(ctx, body)
		if err != nil {
			lastErr = fmt.Errorf("send webhook: %w", err)
			continue
		}
		if status >= 200 && status < 300 {
			return nil
		}
		lastErr = fmt.Errorf("webhook status %d", status)
		if status < 500 {
			// 4xx won't heal on retry.
			return lastErr
		}
	}
	return lastErr
}

func (w *Webhook) post(ctx context.Context, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "rankweekly/1.0")

	// HMAC signature for verification.
	if w.secret != "" {
		mac := hmac.New(sha256.New, []byte(w.secret))
		mac.Write(body)
		sig := hex.EncodeToString(mac.Sum(nil))
		req.Header.Set("X-Signature-256", "sha256="+sig)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}
