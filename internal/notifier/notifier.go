// Package notifier delivers toast and achievement events to the console and
// to an optional webhook.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iamhollywoodpro/strivetrack/internal/achievements"
	"github.com/iamhollywoodpro/strivetrack/internal/logger"
)

type Kind string

const (
	KindToast       Kind = "toast"
	KindAchievement Kind = "achievement"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Event is one notification for the presentation layer.
type Event struct {
	Kind          Kind   `json:"kind"`
	Level         Level  `json:"level"`
	Title         string `json:"title,omitempty"`
	Message       string `json:"message"`
	Icon          string `json:"icon,omitempty"`
	Rarity        string `json:"rarity,omitempty"`
	Points        int    `json:"points,omitempty"`
	AchievementID string `json:"achievement_id,omitempty"`
}

func Toast(level Level, format string, args ...any) Event {
	return Event{Kind: KindToast, Level: level, Message: fmt.Sprintf(format, args...)}
}

// Unlocked converts an achievement unlock into an event.
func Unlocked(n achievements.Notification) Event {
	return Event{
		Kind:          KindAchievement,
		Level:         LevelSuccess,
		Title:         "Achievement Unlocked!",
		Message:       fmt.Sprintf("%s: %s", n.Name, n.Description),
		Icon:          n.Icon,
		Rarity:        string(n.Rarity),
		Points:        n.Points,
		AchievementID: n.ID,
	}
}

// Sink receives events.
type Sink interface {
	Send(ctx context.Context, e Event) error
}

type Notifier struct {
	sinks   []Sink
	stagger time.Duration
	sleep   func(ctx context.Context, d time.Duration) error
}

// New builds a notifier over sinks. Consecutive achievement events are
// spaced stagger apart.
func New(stagger time.Duration, sinks ...Sink) *Notifier {
	var live []Sink
	for _, s := range sinks {
		if s != nil {
			live = append(live, s)
		}
	}
	return &Notifier{sinks: live, stagger: stagger, sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Deliver sends every event to every sink. Sink failures are logged and
// returned joined; they never stop delivery to the other sinks.
func (n *Notifier) Deliver(ctx context.Context, events []Event) error {
	var errs []error
	prevAchievement := false
	for _, e := range events {
		if e.Kind == KindAchievement {
			if prevAchievement && n.stagger > 0 {
				if err := n.sleep(ctx, n.stagger); err != nil {
					return err
				}
			}
			prevAchievement = true
		}
		for _, s := range n.sinks {
			if err := s.Send(ctx, e); err != nil {
				logger.Warn("Notification delivery failed", "kind", e.Kind, "error", err)
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// WebhookPayload is the JSON body posted to the webhook.
type WebhookPayload struct {
	Text  string `json:"text"`
	Event Event  `json:"event"`
}

// WebhookSink posts events as JSON.
type WebhookSink struct {
	url    string
	secret string
	client *http.Client
}

func NewWebhookSink(url, secret string) *WebhookSink {
	if url == "" {
		return nil
	}
	return &WebhookSink{url: url, secret: secret, client: &http.Client{Timeout: 10 * time.Second}}
}

func (w *WebhookSink) Send(ctx context.Context, e Event) error {
	text := e.Message
	if e.Title != "" {
		text = e.Title + " " + e.Message
	}
	jsonData, err := json.Marshal(WebhookPayload{Text: text, Event: e})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if w.secret != "" {
		req.Header.Set("X-Strivetrack-Secret", w.secret)
	}

	res, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(body))
}
