package rest

import (
	"fmt"
	"time"

	"gridcal/internal/domain"
)

// WireEvent is the event shape the backend serves: server-assigned
// `_id`, ISO-8601 UTC timestamps, optional free-text fields.
type WireEvent struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	AllDay      bool   `json:"allDay,omitempty"`
	Color       string `json:"color,omitempty"`
}

// ToDomain parses the wire timestamps and maps onto the client model.
func (w WireEvent) ToDomain() (domain.Event, error) {
	start, err := time.Parse(time.RFC3339, w.StartTime)
	if err != nil {
		return domain.Event{}, fmt.Errorf("parse startTime %q: %w", w.StartTime, err)
	}
	end, err := time.Parse(time.RFC3339, w.EndTime)
	if err != nil {
		return domain.Event{}, fmt.Errorf("parse endTime %q: %w", w.EndTime, err)
	}
	return domain.Event{
		ID:          w.ID,
		Title:       w.Title,
		Start:       start.UTC(),
		End:         end.UTC(),
		AllDay:      w.AllDay,
		Location:    w.Location,
		Description: w.Description,
		Color:       w.Color,
	}, nil
}
