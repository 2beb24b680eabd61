package caldav

import (
	"time"

	"gridcal/internal/domain"
)

// Calendar is a remote calendar collection discovered on the server.
type Calendar struct {
	Path        string
	DisplayName string
}

// Event is one imported VEVENT, reduced to the fields the backend
// accepts on create.
type Event struct {
	UID         string
	Summary     string
	Description string
	Location    string
	StartTime   time.Time
	EndTime     time.Time
	AllDay      bool
}

// ToDomain maps an imported event onto the client model. The UID is
// kept only for de-duplication during import; the backend assigns its
// own id on create.
func (e Event) ToDomain() domain.Event {
	return domain.Event{
		Title:       e.Summary,
		Start:       e.StartTime.UTC(),
		End:         e.EndTime.UTC(),
		AllDay:      e.AllDay,
		Location:    e.Location,
		Description: e.Description,
	}
}
