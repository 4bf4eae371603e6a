package booking

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrEventNotFound is returned when patching an unknown event id.
var ErrEventNotFound = errors.New("booking: event not found")

// MemoryCalendar is an in-memory CalendarAPI for tests and demo mode.
type MemoryCalendar struct {
	mu     sync.Mutex
	events map[string]Event // keyed by "calendarID/eventID"
}

// NewMemoryCalendar creates an empty in-memory calendar.
func NewMemoryCalendar() *MemoryCalendar {
	return &MemoryCalendar{events: make(map[string]Event)}
}

// CreateEvent stores the event under a fresh id.
func (c *MemoryCalendar) CreateEvent(_ context.Context, calendarID string, event Event) (Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	event.ID = uuid.NewString()
	if event.Status == "" {
		event.Status = StatusConfirmed
	}
	c.events[calendarID+"/"+event.ID] = event
	return event, nil
}

// PatchEvent merges the non-zero fields of event into an existing entry.
func (c *MemoryCalendar) PatchEvent(_ context.Context, calendarID, eventID string, event Event) (Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := calendarID + "/" + eventID
	existing, ok := c.events[key]
	if !ok {
		return Event{}, ErrEventNotFound
	}

	if event.Summary != "" {
		existing.Summary = event.Summary
	}
	if event.Description != "" {
		existing.Description = event.Description
	}
	if !event.Start.IsZero() {
		existing.Start = event.Start
	}
	if !event.End.IsZero() {
		existing.End = event.End
	}
	if event.Timezone != "" {
		existing.Timezone = event.Timezone
	}
	if event.Attendees != nil {
		existing.Attendees = event.Attendees
	}
	if event.Status != "" {
		existing.Status = event.Status
	}

	c.events[key] = existing
	return existing, nil
}

// Get returns a stored event, mainly for assertions in tests.
func (c *MemoryCalendar) Get(calendarID, eventID string) (Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ev, ok := c.events[calendarID+"/"+eventID]
	return ev, ok
}

var _ CalendarAPI = (*MemoryCalendar)(nil)
