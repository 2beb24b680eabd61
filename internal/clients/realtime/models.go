package realtime

import (
	"encoding/json"
	"fmt"
	"time"

	"gridcal/internal/domain"
)

// Frame types on the realtime channel. Client emits carry a seq the
// server echoes back in its ack; server pushes carry no seq.
const (
	TypeHello        = "hello"
	TypeAck          = "ack"
	TypeUpdateEvent  = "updateEvent"
	TypeListenEvent  = "listenEvent"
	TypeDeleteEvent  = "deleteEvent"
	TypeEventCreated = "eventCreated"
	TypeEventUpdated = "eventUpdated"
	TypeEventDeleted = "eventDeleted"
)

// Frame is the JSON envelope for every message on the channel.
type Frame struct {
	Type    string          `json:"type"`
	Seq     int64           `json:"seq,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// HelloPayload identifies this client instance after connecting.
type HelloPayload struct {
	ClientID string `json:"clientId"`
}

// EventPayload is the event shape in pushes, matching the REST wire
// shape (server `_id`, ISO-8601 UTC timestamps).
type EventPayload struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	AllDay      bool   `json:"allDay,omitempty"`
	Color       string `json:"color,omitempty"`
}

// ToDomain parses the payload timestamps into the client model.
func (p EventPayload) ToDomain() (domain.Event, error) {
	start, err := time.Parse(time.RFC3339, p.StartTime)
	if err != nil {
		return domain.Event{}, fmt.Errorf("parse startTime %q: %w", p.StartTime, err)
	}
	end, err := time.Parse(time.RFC3339, p.EndTime)
	if err != nil {
		return domain.Event{}, fmt.Errorf("parse endTime %q: %w", p.EndTime, err)
	}
	return domain.Event{
		ID:          p.ID,
		Title:       p.Title,
		Start:       start.UTC(),
		End:         end.UTC(),
		AllDay:      p.AllDay,
		Location:    p.Location,
		Description: p.Description,
		Color:       p.Color,
	}, nil
}

// UpdateEventPayload is an updateEvent emit. Zero-valued optional
// fields are omitted so partial updates stay partial.
type UpdateEventPayload struct {
	EventID     string `json:"eventId"`
	StartTime   string `json:"startTime,omitempty"`
	EndTime     string `json:"endTime,omitempty"`
	Title       string `json:"title,omitempty"`
	AllDay      *bool  `json:"allDay,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

// CreateEventPayload is a listenEvent emit (event creation).
type CreateEventPayload struct {
	Title       string `json:"title"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	AllDay      bool   `json:"allDay,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

// DeleteEventPayload is a deleteEvent emit; the server broadcasts the
// same shape back as eventDeleted.
type DeleteEventPayload struct {
	ID string `json:"id"`
}

// AckPayload is the server's acknowledgment of an emitted mutation.
type AckPayload struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Kind classifies messages handed to the consumer.
type Kind int

const (
	// KindCreated, KindUpdated, KindDeleted are unsolicited server
	// pushes, applied in receipt order.
	KindCreated Kind = iota
	KindUpdated
	KindDeleted
	// KindAck acknowledges one of our emits, correlated by seq.
	KindAck
	// KindStatus reports connect/disconnect transitions.
	KindStatus
)

// Message is one received channel message, decoded.
type Message struct {
	Kind      Kind
	Event     domain.Event // set for KindCreated / KindUpdated
	DeletedID string       // set for KindDeleted
	Seq       int64        // set for KindAck
	Success   bool         // set for KindAck
	Err       string       // ack error or decode failure detail
	Connected bool         // set for KindStatus
}

// FormatInstant renders an instant the way the backend expects
// timestamps on the wire: ISO-8601 in UTC.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
