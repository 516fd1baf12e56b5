package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hoyotools/hoyo-event-sync/internal/event"
)

// gameTitles maps game tags to their display names for announcements.
var gameTitles = map[event.Game]string{
	event.GameGenshin:  "Genshin Impact",
	event.GameStarRail: "Honkai: Star Rail",
}

// Discord posts event announcements to a Discord webhook.
type Discord struct {
	webhookURL string
	client     *http.Client
}

// NewDiscord creates a Discord notifier for the given webhook URL.
func NewDiscord(webhookURL string) *Discord {
	return &Discord{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embed struct {
	Title     string       `json:"title"`
	Fields    []embedField `json:"fields"`
	Timestamp string       `json:"timestamp"`
}

type webhookPayload struct {
	Embeds []embed `json:"embeds"`
}

// Notify posts one embed listing all newly catalogued events.
func (d *Discord) Notify(events []event.Event) error {
	if len(events) == 0 {
		return nil
	}

	fields := make([]embedField, 0, len(events))
	for _, evt := range events {
		fields = append(fields, embedField{
			Name:  evt.Name,
			Value: describeEvent(evt),
		})
	}

	payload := webhookPayload{
		Embeds: []embed{{
			Title:     fmt.Sprintf("New events (%d)", len(events)),
			Fields:    fields,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding webhook payload: %w", err)
	}

	resp, err := d.client.Post(d.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("posting webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}

// describeEvent formats the embed field value for one event.
func describeEvent(evt event.Event) string {
	title := gameTitles[evt.Game]
	if title == "" {
		title = string(evt.Game)
	}
	if evt.HasSchedule() {
		return fmt.Sprintf("%s, %s to %s", title, formatBound(evt.StartTime), formatBound(evt.EndTime))
	}
	return title
}

// formatBound renders a Unix-millisecond bound; 0 is the "unknown" sentinel.
func formatBound(ms int64) string {
	if ms == 0 {
		return "unknown"
	}
	return time.UnixMilli(ms).UTC().Format("2006-01-02")
}
