package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GoogleCalendar implements CalendarAPI on top of the Google Calendar API
// using service-account credentials.
type GoogleCalendar struct {
	svc *calendar.Service
}

// NewGoogleCalendar builds the client from a service-account JSON file.
func NewGoogleCalendar(ctx context.Context, credentialsFile string) (*GoogleCalendar, error) {
	if strings.TrimSpace(credentialsFile) == "" {
		return nil, errors.New("booking: google credentials file is required")
	}

	svc, err := calendar.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(calendar.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("booking: failed to create calendar service: %w", err)
	}
	return &GoogleCalendar{svc: svc}, nil
}

// CreateEvent inserts a new event. When the backend rejects attendees for a
// service account, the insert is retried without them.
func (g *GoogleCalendar) CreateEvent(ctx context.Context, calendarID string, event Event) (Event, error) {
	body := toGoogleEvent(event)

	created, err := g.svc.Events.Insert(calendarID, body).Context(ctx).Do()
	if err != nil && isAttendeeForbidden(err) {
		body.Attendees = nil
		created, err = g.svc.Events.Insert(calendarID, body).Context(ctx).Do()
	}
	if err != nil {
		return Event{}, fmt.Errorf("booking: calendar insert failed: %w", err)
	}
	return fromGoogleEvent(created), nil
}

// PatchEvent applies the non-zero fields of event to an existing entry.
func (g *GoogleCalendar) PatchEvent(ctx context.Context, calendarID, eventID string, event Event) (Event, error) {
	body := toGoogleEvent(event)

	patched, err := g.svc.Events.Patch(calendarID, eventID, body).Context(ctx).Do()
	if err != nil && isAttendeeForbidden(err) {
		body.Attendees = nil
		patched, err = g.svc.Events.Patch(calendarID, eventID, body).Context(ctx).Do()
	}
	if err != nil {
		return Event{}, fmt.Errorf("booking: calendar patch failed: %w", err)
	}
	return fromGoogleEvent(patched), nil
}

func toGoogleEvent(event Event) *calendar.Event {
	out := &calendar.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Status:      event.Status,
	}
	if !event.Start.IsZero() {
		out.Start = &calendar.EventDateTime{
			DateTime: event.Start.Format(time.RFC3339),
			TimeZone: event.Timezone,
		}
	}
	if !event.End.IsZero() {
		out.End = &calendar.EventDateTime{
			DateTime: event.End.Format(time.RFC3339),
			TimeZone: event.Timezone,
		}
	}
	for _, email := range event.Attendees {
		out.Attendees = append(out.Attendees, &calendar.EventAttendee{Email: email})
	}
	return out
}

func fromGoogleEvent(ev *calendar.Event) Event {
	out := Event{
		ID:          ev.Id,
		Summary:     ev.Summary,
		Description: ev.Description,
		Status:      ev.Status,
	}
	if ev.Start != nil {
		if t, err := time.Parse(time.RFC3339, ev.Start.DateTime); err == nil {
			out.Start = t
		}
		out.Timezone = ev.Start.TimeZone
	}
	if ev.End != nil {
		if t, err := time.Parse(time.RFC3339, ev.End.DateTime); err == nil {
			out.End = t
		}
	}
	for _, attendee := range ev.Attendees {
		if attendee != nil && attendee.Email != "" {
			out.Attendees = append(out.Attendees, attendee.Email)
		}
	}
	return out
}

func isAttendeeForbidden(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Code != 403 {
		return false
	}
	return strings.Contains(apiErr.Body, "forbiddenForServiceAccounts")
}

var _ CalendarAPI = (*GoogleCalendar)(nil)
