package notifier

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hoyotools/hoyo-event-sync/internal/event"
)

func TestDiscordNotify(t *testing.T) {
	var captured webhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, expected POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s, expected application/json", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	d := NewDiscord(server.URL)
	events := []event.Event{
		{Name: "Lantern Rite", Game: event.GameGenshin, ImageURL: "https://wsrv.nl/?url=a"},
		{Name: "Planar Infinity", Game: event.GameStarRail, ImageURL: "https://wsrv.nl/?url=b",
			StartTime: 1717200000000, EndTime: 1718841600000},
	}

	if err := d.Notify(events); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	if len(captured.Embeds) != 1 {
		t.Fatalf("embeds = %d, expected 1", len(captured.Embeds))
	}
	embed := captured.Embeds[0]
	if len(embed.Fields) != 2 {
		t.Fatalf("fields = %d, expected 2", len(embed.Fields))
	}
	if embed.Fields[0].Name != "Lantern Rite" {
		t.Errorf("field name = %q", embed.Fields[0].Name)
	}
	if embed.Fields[0].Value != "Genshin Impact" {
		t.Errorf("field value = %q, expected game title only", embed.Fields[0].Value)
	}
	if embed.Fields[1].Value != "Honkai: Star Rail, 2024-06-01 to 2024-06-20" {
		t.Errorf("field value = %q", embed.Fields[1].Value)
	}
}

func TestDiscordNotifyEmptyBatch(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	d := NewDiscord(server.URL)
	if err := d.Notify(nil); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if called {
		t.Error("empty batch should not hit the webhook")
	}
}

func TestDiscordNotifyServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	d := NewDiscord(server.URL)
	err := d.Notify([]event.Event{{Name: "Lantern Rite", Game: event.GameGenshin}})
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestDescribeEventSentinelBound(t *testing.T) {
	evt := event.Event{
		Name:    "Garden of Plenty",
		Game:    event.GameStarRail,
		EndTime: 1721001600000, // 2024-07-15
	}
	got := describeEvent(evt)
	if got != "Honkai: Star Rail, unknown to 2024-07-15" {
		t.Errorf("describeEvent = %q", got)
	}
}
