package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aurelia-labs/sales-agent-platform/internal/intent"
	"github.com/aurelia-labs/sales-agent-platform/internal/leads"
	"github.com/aurelia-labs/sales-agent-platform/internal/notify"
	"github.com/aurelia-labs/sales-agent-platform/internal/observability/metrics"
	"github.com/aurelia-labs/sales-agent-platform/internal/tenancy"
	"github.com/aurelia-labs/sales-agent-platform/pkg/logging"
)

// User-visible booking copy.
const (
	MsgNothingToCancel = "I couldn't find an appointment to cancel."
	MsgCancelled       = "Your appointment has been cancelled. Check your email for confirmation."
	MsgRescheduled     = "All set—your appointment has been rescheduled. Check your email for the details."
	MsgBooked          = "Your consultation is booked! I sent a confirmation email with the calendar invite."
)

// Audit note prefixes recorded in the transcript after calendar actions.
const (
	AuditCreatedPrefix     = "calendar_event_created:"
	AuditRescheduledPrefix = "calendar_event_rescheduled:"
	AuditCancelledPrefix   = "calendar_event_cancelled:"
)

const appointmentDuration = 30 * time.Minute

// Result is the outcome of one booking node invocation.
type Result struct {
	AppointmentID string
	Message       string
	AuditNote     string
}

// Service drives the appointment lifecycle against a calendar backend.
type Service struct {
	calendar CalendarAPI
	email    notify.EmailSender
	timezone string
	metrics  *metrics.AgentMetrics
	logger   *logging.Logger
	now      func() time.Time
}

// NewService wires the booking service. Timezone defaults to UTC.
func NewService(calendar CalendarAPI, email notify.EmailSender, timezone string, m *metrics.AgentMetrics, logger *logging.Logger) *Service {
	if calendar == nil {
		panic("booking: calendar api cannot be nil")
	}
	if email == nil {
		email = notify.NewStubEmailSender(logger)
	}
	if timezone == "" {
		timezone = "UTC"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		calendar: calendar,
		email:    email,
		timezone: timezone,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// HandleBooking creates, reschedules or cancels an appointment depending on
// the intent and whether an appointment id already exists.
func (s *Service) HandleBooking(ctx context.Context, tenant tenancy.TenantContext, userQuery string, lead leads.LeadData, appointmentID string, it intent.Intent) (Result, error) {
	calendarID := s.calendarFor(tenant)
	start, end := s.resolveWindow(userQuery)

	event := Event{
		Summary:     summaryFor(lead),
		Description: userQuery,
		Start:       start,
		End:         end,
		Timezone:    s.timezone,
		Attendees:   attendeesFor(lead, calendarID),
	}

	if it == intent.CancelBooking {
		if appointmentID == "" {
			return Result{Message: MsgNothingToCancel}, nil
		}
		updated, err := s.calendar.PatchEvent(ctx, calendarID, appointmentID, Event{Status: StatusCancelled})
		if err != nil {
			return Result{}, fmt.Errorf("booking: cancel failed: %w", err)
		}
		if err := s.sendConfirmation(ctx, lead, "Appointment cancelled", event); err != nil {
			return Result{}, err
		}
		s.metrics.ObserveBooking("cancelled")
		s.logger.Info("appointment cancelled", "appointment_id", updated.ID, "calendar_id", calendarID)
		return Result{
			AppointmentID: updated.ID,
			Message:       MsgCancelled,
			AuditNote:     AuditCancelledPrefix + updated.ID,
		}, nil
	}

	if appointmentID != "" {
		event.Status = StatusConfirmed
		updated, err := s.calendar.PatchEvent(ctx, calendarID, appointmentID, event)
		if err != nil {
			return Result{}, fmt.Errorf("booking: reschedule failed: %w", err)
		}
		if err := s.sendConfirmation(ctx, lead, "Appointment rescheduled", event); err != nil {
			return Result{}, err
		}
		s.metrics.ObserveBooking("rescheduled")
		s.logger.Info("appointment rescheduled", "appointment_id", updated.ID, "calendar_id", calendarID)
		return Result{
			AppointmentID: updated.ID,
			Message:       MsgRescheduled,
			AuditNote:     AuditRescheduledPrefix + updated.ID,
		}, nil
	}

	created, err := s.calendar.CreateEvent(ctx, calendarID, event)
	if err != nil {
		return Result{}, fmt.Errorf("booking: create failed: %w", err)
	}
	if err := s.sendConfirmation(ctx, lead, "Appointment booked", event); err != nil {
		return Result{}, err
	}
	s.metrics.ObserveBooking("created")
	s.logger.Info("appointment created", "appointment_id", created.ID, "calendar_id", calendarID)
	return Result{
		AppointmentID: created.ID,
		Message:       MsgBooked,
		AuditNote:     AuditCreatedPrefix + created.ID,
	}, nil
}

// calendarFor resolves the target calendar, falling back to a deterministic
// per-tenant default address.
func (s *Service) calendarFor(tenant tenancy.TenantContext) string {
	if tenant.CalendarID != "" {
		return tenant.CalendarID
	}
	return fmt.Sprintf("%s__%s@example.com", tenant.OrgID, tenant.BranchID)
}

// resolveWindow picks the appointment slot from query keywords. Appointments
// land at 15:00 UTC and run for 30 minutes.
func (s *Service) resolveWindow(userQuery string) (time.Time, time.Time) {
	base := s.now().UTC()
	lower := strings.ToLower(userQuery)

	var start time.Time
	switch {
	case strings.Contains(lower, "next week"):
		start = base.AddDate(0, 0, 7)
	default:
		// "tomorrow" and everything else defaults to the next day.
		start = base.AddDate(0, 0, 1)
	}
	start = time.Date(start.Year(), start.Month(), start.Day(), 15, 0, 0, 0, time.UTC)
	return start, start.Add(appointmentDuration)
}

func summaryFor(lead leads.LeadData) string {
	items := strings.Join(lead.ProductInterest, ", ")
	if items == "" {
		items = "Consultation"
	}
	if lead.Name != "" {
		return fmt.Sprintf("%s with %s", items, lead.Name)
	}
	return items
}

// attendeesFor omits attendees for service-account calendars, which usually
// lack domain-wide delegation to invite guests.
func attendeesFor(lead leads.LeadData, calendarID string) []string {
	if strings.HasSuffix(calendarID, "gserviceaccount.com") {
		return nil
	}
	if lead.Email == "" {
		return nil
	}
	return []string{lead.Email}
}

func (s *Service) sendConfirmation(ctx context.Context, lead leads.LeadData, subject string, event Event) error {
	if lead.Email == "" {
		return nil
	}

	name := lead.Name
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf(
		"Hi %s,\n\n%s for %s on %s (%s).\nReply to this email if you need any changes.\n",
		name, subject, event.Summary, event.Start.Format(time.RFC3339), event.Timezone,
	)

	msg := notify.EmailMessage{
		To:      lead.Email,
		ToName:  lead.Name,
		Subject: subject,
		Body:    body,
	}
	if err := s.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("booking: confirmation email failed: %w", err)
	}
	return nil
}
