package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Submission is the payload handed to the relay webhook.
type Submission struct {
	Filename     string
	Content      io.Reader
	UserID       string
	Notes        string
	CaptionIdeas string
	Platforms    []string
}

// WebhookRelay posts submissions to the external workflow webhook as a
// multipart form. Any outcome other than a 2xx response is a relay fault.
type WebhookRelay struct {
	url    string
	client *http.Client
}

func NewWebhookRelay(url string, timeout time.Duration) *WebhookRelay {
	return &WebhookRelay{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (r *WebhookRelay) Send(ctx context.Context, sub Submission) error {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	fw, err := w.CreateFormFile("file", sub.Filename)
	if err != nil {
		return fmt.Errorf("relay: build form: %w", err)
	}
	if _, err := io.Copy(fw, sub.Content); err != nil {
		return fmt.Errorf("relay: read asset: %w", err)
	}

	platforms, err := json.Marshal(sub.Platforms)
	if err != nil {
		return fmt.Errorf("relay: encode platforms: %w", err)
	}

	fields := map[string]string{
		"user_id":       sub.UserID,
		"notes":         sub.Notes,
		"caption_ideas": sub.CaptionIdeas,
		"platforms":     string(platforms),
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return fmt.Errorf("relay: write field %s: %w", name, err)
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("relay: close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, &body)
	if err != nil {
		return fmt.Errorf("relay: build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRelayFault, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: webhook returned %s", ErrRelayFault, resp.Status)
	}
	return nil
}
