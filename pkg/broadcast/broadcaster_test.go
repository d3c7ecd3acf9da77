package broadcast

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"slotwise/pkg/logger"
	"slotwise/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json", Output: io.Discard, Service: "test"})
}

func TestPublish_SignedDelivery(t *testing.T) {
	const secret = "webhook-secret"

	received := make(chan *http.Request, 1)
	bodies := make(chan []byte, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received <- r
		bodies <- body
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	b := New(Config{
		Subscribers: []string{server.URL},
		Secret:      secret,
		Timeout:     2 * time.Second,
	}, testLogger())

	b.Publish(context.Background(), BookingCreated, &model.Booking{ID: "b-1", GuestEmail: "dana@example.com"})

	var req *http.Request
	var body []byte
	select {
	case req = <-received:
		body = <-bodies
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber never called")
	}

	if ct := req.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	want := "sha256=" + Sign(body, secret)
	if got := req.Header.Get("X-Signature-256"); got != want {
		t.Errorf("signature = %q, want %q", got, want)
	}

	var envelope Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("envelope decode failed: %v", err)
	}
	if envelope.Event != BookingCreated {
		t.Errorf("event = %q", envelope.Event)
	}
	if envelope.Timestamp.IsZero() {
		t.Error("timestamp missing")
	}
}

func TestPublish_SubscriberFailureIsSwallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	b := New(Config{
		Subscribers: []string{server.URL, "http://127.0.0.1:1/unreachable"},
		Secret:      "s",
		Timeout:     time.Second,
	}, testLogger())

	// Must not panic or block; delivery failures only get logged.
	b.Publish(context.Background(), LeadCreated, map[string]any{"id": "l-1"})
}

func TestSign_Deterministic(t *testing.T) {
	body := []byte(`{"event":"booking.created"}`)
	if Sign(body, "a") == Sign(body, "b") {
		t.Error("different secrets must produce different signatures")
	}
	if Sign(body, "a") != Sign(body, "a") {
		t.Error("signature must be deterministic")
	}
}

func TestEventKey(t *testing.T) {
	if got := eventKey(&model.Booking{ID: "b-7"}, BookingCreated); got != "b-7" {
		t.Errorf("struct id key = %q", got)
	}
	if got := eventKey(map[string]any{"id": "m-3"}, BookingDeleted); got != "m-3" {
		t.Errorf("map id key = %q", got)
	}
	if got := eventKey(map[string]any{"note": "no id"}, SettingsUpdated); got != SettingsUpdated {
		t.Errorf("fallback key = %q", got)
	}
}
