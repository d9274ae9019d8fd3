// Package notify delivers push notifications for hook events via ntfy.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"voxhook/internal/config"
)

const userAgent = "voxhook/0.1.0"

// Service defines the notification surface exposed to the hook handler.
type Service interface {
	NotifyEvent(ctx context.Context, project, text string) error
	NotifyError(ctx context.Context, err error, detail string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		title:    strings.TrimSpace(cfg.Notifications.Title),
		tags:     cfg.Notifications.Tags,
		priority: strings.TrimSpace(cfg.Notifications.Priority),
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	title    string
	tags     []string
	priority string
	client   *http.Client
}

var titleCaser = cases.Title(language.English)

func (n *ntfyService) NotifyEvent(ctx context.Context, project, text string) error {
	text = strings.TrimSpace(text)
	title := n.title
	if project = strings.TrimSpace(project); project != "" {
		title = fmt.Sprintf("%s - %s", n.title, titleCaser.String(project))
	}
	data := payload{
		title:    title,
		message:  text,
		tags:     n.tags,
		priority: n.priority,
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, detail string) error {
	message := "error"
	if err != nil {
		message = err.Error()
	}
	if detail = strings.TrimSpace(detail); detail != "" {
		message = fmt.Sprintf("%s: %s", detail, message)
	}
	data := payload{
		title:    n.title + " - Error",
		message:  message,
		tags:     append(append([]string{}, n.tags...), "error"),
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    n.title + " - Test",
		message:  "Notifications are working.",
		tags:     n.tags,
		priority: n.priority,
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyEvent(context.Context, string, string) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error  { return nil }
func (noopService) TestNotification(context.Context) error            { return nil }
