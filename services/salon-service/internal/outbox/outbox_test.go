package outbox

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/md-rashed-zaman/palor/libs/kafkax"
)

func TestNewEvent(t *testing.T) {
	evt, err := NewEvent("review", "r-1", EventReviewSubmitted, map[string]any{"rating": 5})
	if err != nil {
		t.Fatalf("NewEvent failed: %v", err)
	}
	var payload map[string]int
	if err := json.Unmarshal(evt.Payload, &payload); err != nil {
		t.Fatalf("payload is not json: %v", err)
	}
	if payload["rating"] != 5 || evt.AggregateID != "r-1" {
		t.Fatalf("unexpected event %+v", evt)
	}
	if _, err := NewEvent("x", "y", "z", make(chan int)); err == nil {
		t.Fatal("expected marshal error")
	}
}

func TestPublisherMessage(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := NewPublisher(nil, NewRepository(), logger, PublisherConfig{TopicPrefix: "dev"})
	if p.Enabled() {
		t.Fatal("expected publisher disabled without brokers")
	}

	msg := p.message(context.Background(), Record{
		EventID:     "evt-1",
		AggregateID: "appt-1",
		EventType:   EventAppointmentBooked,
		Payload:     []byte(`{}`),
	})
	if msg.Topic != "dev."+EventAppointmentBooked {
		t.Fatalf("unexpected topic %q", msg.Topic)
	}
	if string(msg.Key) != "appt-1" {
		t.Fatalf("expected aggregate id as key, got %q", msg.Key)
	}
	if kafkax.HeaderValue(msg.Headers, kafkax.HeaderEventType) != EventAppointmentBooked {
		t.Fatal("expected event_type header")
	}
}

func TestRunReturnsWhenDisabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	done := make(chan struct{})
	go func() {
		NewPublisher(nil, NewRepository(), logger, PublisherConfig{}).Run(context.Background())
		close(done)
	}()
	<-done
}
