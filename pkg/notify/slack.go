package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// SlackSender posts events to a Slack incoming webhook.
type SlackSender struct {
	URL    string
	Client *http.Client
}

func (s *SlackSender) Send(ctx context.Context, event Event) error {
	payload := map[string]interface{}{
		"text": formatText(event),
	}
	return postJSON(ctx, s.Client, s.URL, payload)
}

// DiscordSender posts events to a Discord webhook. Discord expects the
// message under "content" instead of Slack's "text".
type DiscordSender struct {
	URL    string
	Client *http.Client
}

func (s *DiscordSender) Send(ctx context.Context, event Event) error {
	payload := map[string]interface{}{
		"content": formatText(event),
	}
	return postJSON(ctx, s.Client, s.URL, payload)
}

func formatText(event Event) string {
	text := fmt.Sprintf("[%s] %s", event.Name, event.Message)
	if event.ProjectName != "" {
		text = fmt.Sprintf("[%s] %s: %s", event.Name, event.ProjectName, event.Message)
	}
	return text
}

func postJSON(ctx context.Context, client *http.Client, url string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}
