package events

import (
	"encoding/json"
	"testing"
)

func TestMakeEvent(t *testing.T) {
	raw := MakeEvent("req-1", TypeJobSaved, 1, map[string]any{"title": "SWE"})
	var e Event
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatal(err)
	}
	if e.ID == "" || e.Type != TypeJobSaved || e.RequestID != "req-1" || e.Version != 1 {
		t.Errorf("event = %+v", e)
	}
	if string(e.Data) != `{"title":"SWE"}` {
		t.Errorf("data = %s", e.Data)
	}

	var bare Event
	if err := json.Unmarshal([]byte(MakeEvent("", TypePing, 1, nil)), &bare); err != nil {
		t.Fatal(err)
	}
	if bare.Data != nil {
		t.Errorf("data = %s", bare.Data)
	}
}

func TestHubPublish(t *testing.T) {
	h := NewHub()
	a := h.Subscribe()
	b := h.Subscribe()
	if h.Subscribers() != 2 {
		t.Fatalf("subscribers = %d", h.Subscribers())
	}

	h.Publish("hello")
	if got := <-a; got != "hello" {
		t.Errorf("a got %q", got)
	}
	if got := <-b; got != "hello" {
		t.Errorf("b got %q", got)
	}

	h.Unsubscribe(a)
	h.Unsubscribe(a)
	if _, ok := <-a; ok {
		t.Error("a not closed")
	}
	if h.Subscribers() != 1 {
		t.Errorf("subscribers = %d", h.Subscribers())
	}
}

func TestHubDropsForSlowSubscriber(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	for i := 0; i < subscriberBuffer+3; i++ {
		h.Publish("x")
	}
	if h.Dropped() != 3 {
		t.Errorf("dropped = %d", h.Dropped())
	}
	if len(ch) != subscriberBuffer {
		t.Errorf("buffered = %d", len(ch))
	}
}

func TestNilHubPublish(t *testing.T) {
	var h *Hub
	h.Publish("x")
	h.Emit("", TypePing, nil)
}
