package booking

import (
	"context"
	"time"
)

// Event statuses used when creating or patching calendar entries.
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Event is the calendar entry shape shared by all CalendarAPI backends.
// Zero-value fields are left untouched by PatchEvent.
type Event struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Timezone    string
	Attendees   []string
	Status      string
}

// CalendarAPI abstracts the calendar backend. Create/patch/cancel semantics
// follow the event body: a patch carrying only a cancelled status cancels.
type CalendarAPI interface {
	CreateEvent(ctx context.Context, calendarID string, event Event) (Event, error)
	PatchEvent(ctx context.Context, calendarID, eventID string, event Event) (Event, error)
}
