package broadcast

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"slotwise/pkg/kafka"
	"slotwise/pkg/logger"
)

// Broadcaster delivers domain events to external systems. Delivery is
// best-effort: implementations log failures and never return them, so
// a subscriber outage cannot fail the write that produced the event.
type Broadcaster interface {
	Publish(ctx context.Context, event string, data any)
}

// Envelope is the wire shape delivered to every subscriber.
type Envelope struct {
	Event     string    `json:"event"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

type Config struct {
	Subscribers []string
	Secret      string
	Timeout     time.Duration

	// Producer is optional; when set, every event is also published to
	// the Kafka events topic keyed by Key(data).
	Producer *kafka.Producer
	Source   string
}

type webhookBroadcaster struct {
	subscribers []string
	secret      string
	client      *http.Client
	producer    *kafka.Producer
	source      string
	log         *logger.Logger
}

func New(cfg Config, log *logger.Logger) Broadcaster {
	return &webhookBroadcaster{
		subscribers: cfg.Subscribers,
		secret:      cfg.Secret,
		client:      &http.Client{Timeout: cfg.Timeout},
		producer:    cfg.Producer,
		source:      cfg.Source,
		log:         log,
	}
}

func (b *webhookBroadcaster) Publish(ctx context.Context, event string, data any) {
	envelope := Envelope{
		Event:     event,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		b.log.Error("Failed to encode event envelope", "event", event, "error", err)
		return
	}

	for _, subscriber := range b.subscribers {
		if err := b.deliver(ctx, subscriber, body); err != nil {
			b.log.Warn("Webhook delivery failed",
				"event", event,
				"subscriber", subscriber,
				"error", err,
			)
		}
	}

	if b.producer != nil {
		msg := kafka.NewMessage().
			WithKey(eventKey(data, event)).
			WithRawValue(body).
			WithEventType(event).
			WithSource(b.source).
			Build()
		if err := b.producer.Publish(ctx, msg); err != nil {
			b.log.Warn("Kafka publish failed", "event", event, "error", err)
		}
	}
}

func (b *webhookBroadcaster) deliver(ctx context.Context, subscriber string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, subscriber, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature-256", "sha256="+Sign(body, b.secret))

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return &DeliveryError{Subscriber: subscriber, StatusCode: resp.StatusCode}
	}
	return nil
}

// Sign computes the hex HMAC-SHA256 of body under the shared secret.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// eventKey extracts a stable partition key from the event payload so
// Kafka keeps events for one record in order. Falls back to the event
// name for payloads without an id.
func eventKey(data any, event string) string {
	type idBearer interface{ GetID() string }
	if bearer, ok := data.(idBearer); ok && bearer.GetID() != "" {
		return bearer.GetID()
	}
	if m, ok := data.(map[string]any); ok {
		if id, ok := m["id"].(string); ok && id != "" {
			return id
		}
	}
	raw, err := json.Marshal(data)
	if err == nil {
		var probe struct {
			ID string `json:"id"`
		}
		if json.Unmarshal(raw, &probe) == nil && probe.ID != "" {
			return probe.ID
		}
	}
	return event
}
