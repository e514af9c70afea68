package outbox

import (
	"encoding/json"
	"fmt"
)

const (
	EventAppointmentBooked        = "salon.appointment.booked.v1"
	EventAppointmentCancelled     = "salon.appointment.cancelled.v1"
	EventAppointmentStatusChanged = "salon.appointment.status_changed.v1"
	EventAppointmentDeleted       = "salon.appointment.deleted.v1"
	EventTransactionRecorded      = "salon.transaction.recorded.v1"
	EventReviewSubmitted          = "salon.review.submitted.v1"
)

// Event is the domain event envelope written to the outbox table in the same
// transaction as the state change it describes.
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

func NewEvent(aggregateType, aggregateID, eventType string, payload any) (Event, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Event{
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       b,
	}, nil
}
