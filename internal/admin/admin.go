// Package admin drives the authenticated event/ticket authoring workflows.
// Every operation validates its form first and fails before any network call
// when the session is not authenticated.
package admin

import (
	"context"
	"fmt"

	"ticket-client/internal/status"
	"ticket-client/models"
)

type EventAPI interface {
	GetEventDetail(ctx context.Context, eventID int64) (*models.Event, error)
	CreateEvent(ctx context.Context, form *models.EventForm) (*models.Event, error)
	UpdateEvent(ctx context.Context, eventID int64, form *models.EventForm) (*models.Event, error)
	DeleteEvent(ctx context.Context, eventID int64) error
}

type TicketAPI interface {
	CreateTicket(ctx context.Context, eventID int64, form *models.TicketForm) (*models.Ticket, error)
	UpdateTicket(ctx context.Context, eventID, ticketID int64, form *models.TicketForm) (*models.Ticket, error)
	DeleteTicket(ctx context.Context, eventID, ticketID int64) error
}

// Session is the read side of the session manager the workflows gate on.
type Session interface {
	IsAuthenticated() bool
}

type Manager struct {
	session Session
	events  EventAPI
	tickets TicketAPI
}

func NewManager(session Session, events EventAPI, tickets TicketAPI) *Manager {
	return &Manager{session: session, events: events, tickets: tickets}
}

func (m *Manager) requireAuth() error {
	if !m.session.IsAuthenticated() {
		return fmt.Errorf("admin: %w", status.ErrAuthentication)
	}
	return nil
}

// LoadEventForm prefills the authoring form for edit mode.
func (m *Manager) LoadEventForm(ctx context.Context, eventID int64) (*models.EventForm, error) {
	if err := m.requireAuth(); err != nil {
		return nil, err
	}
	event, err := m.events.GetEventDetail(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return &models.EventForm{
		EventName: event.EventName,
		Location:  event.Location,
		Media:     event.Media,
		StartDate: event.StartDate,
		EndDate:   event.EndDate,
	}, nil
}

// SaveEvent creates (eventID == 0) or updates an event. Field-keyed
// validation errors are returned as-is so callers can show all of them at
// once.
func (m *Manager) SaveEvent(ctx context.Context, eventID int64, form *models.EventForm) (*models.Event, error) {
	if err := m.requireAuth(); err != nil {
		return nil, err
	}
	form.CleanMedia()
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if eventID == 0 {
		return m.events.CreateEvent(ctx, form)
	}
	return m.events.UpdateEvent(ctx, eventID, form)
}

func (m *Manager) DeleteEvent(ctx context.Context, eventID int64) error {
	if err := m.requireAuth(); err != nil {
		return err
	}
	return m.events.DeleteEvent(ctx, eventID)
}

// LoadTicketForm prefills the ticket form from the event's current ticket
// list. A ticket id absent from the list is the same client-detected
// condition the booking funnel reports.
func (m *Manager) LoadTicketForm(ctx context.Context, eventID, ticketID int64) (*models.TicketForm, error) {
	if err := m.requireAuth(); err != nil {
		return nil, err
	}
	event, err := m.events.GetEventDetail(ctx, eventID)
	if err != nil {
		return nil, err
	}
	ticket := event.FindTicket(ticketID)
	if ticket == nil {
		return nil, fmt.Errorf("admin: ticket %d in event %d: %w", ticketID, eventID, status.ErrTicketNotFound)
	}
	return &models.TicketForm{
		TicketType:  ticket.TicketType,
		Price:       ticket.Price,
		Quantity:    ticket.Quantity,
		Description: ticket.Description,
	}, nil
}

// SaveTicket creates (ticketID == 0) or updates a ticket under an event.
func (m *Manager) SaveTicket(ctx context.Context, eventID, ticketID int64, form *models.TicketForm) (*models.Ticket, error) {
	if err := m.requireAuth(); err != nil {
		return nil, err
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if ticketID == 0 {
		return m.tickets.CreateTicket(ctx, eventID, form)
	}
	return m.tickets.UpdateTicket(ctx, eventID, ticketID, form)
}

func (m *Manager) DeleteTicket(ctx context.Context, eventID, ticketID int64) error {
	if err := m.requireAuth(); err != nil {
		return err
	}
	return m.tickets.DeleteTicket(ctx, eventID, ticketID)
}
