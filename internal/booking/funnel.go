// Package booking drives the read-validate-submit sequence for ticket
// purchase and the inverse lookup by booking code. Quantity checks always
// run against the latest fetched snapshot, never a cached one.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"ticket-client/internal/status"
	"ticket-client/models"
)

// ErrSuperseded marks a response that arrived for a purchase attempt or
// listing view the caller has already navigated away from. The transport
// performs no cancellation, so stale completions must be discarded by key.
var ErrSuperseded = errors.New("booking: superseded by a newer request")

type AttemptState int

const (
	StateIdle AttemptState = iota
	StateLoading
	StateReady
	StateNotFound
	StateFailed
	StateSubmitting
	StateConfirmed
	StateRejected
)

func (s AttemptState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateNotFound:
		return "not_found"
	case StateFailed:
		return "failed"
	case StateSubmitting:
		return "submitting"
	case StateConfirmed:
		return "confirmed"
	case StateRejected:
		return "rejected"
	default:
		return "idle"
	}
}

// EventAPI is the slice of the HTTP client the funnel reads events through.
type EventAPI interface {
	GetEvents(ctx context.Context, page, limit int, name, startDate, endDate string) (*models.EventPage, error)
	GetEventDetail(ctx context.Context, eventID int64) (*models.Event, error)
}

// BookingAPI is the slice of the HTTP client the funnel books through.
type BookingAPI interface {
	BookTicket(ctx context.Context, ticketID int64, req *models.BookingRequest) (*models.Booking, error)
	GetBookingLookup(ctx context.Context, code string) (*models.Booking, error)
}

type Funnel struct {
	events   EventAPI
	bookings BookingAPI

	mu          sync.Mutex
	state       AttemptState
	attempt     uint64
	eventID     int64
	ticketID    int64
	event       *models.Event
	ticket      *models.Ticket
	bookingCode string
	lastErr     error
}

func NewFunnel(events EventAPI, bookings BookingAPI) *Funnel {
	return &Funnel{events: events, bookings: bookings}
}

// LoadPurchaseContext fetches the event and locates the requested ticket in
// its list. A missing ticket id is a client-detected condition (deleted or
// mismatched ticket) reported as ErrTicketNotFound. Completing this call is
// what makes SubmitBooking reachable.
func (f *Funnel) LoadPurchaseContext(ctx context.Context, eventID, ticketID int64) (*models.Event, *models.Ticket, error) {
	f.mu.Lock()
	f.attempt++
	token := f.attempt
	f.state = StateLoading
	f.eventID = eventID
	f.ticketID = ticketID
	f.event = nil
	f.ticket = nil
	f.bookingCode = ""
	f.lastErr = nil
	f.mu.Unlock()

	event, err := f.events.GetEventDetail(ctx, eventID)

	f.mu.Lock()
	defer f.mu.Unlock()
	if token != f.attempt {
		// A newer attempt started while this one was in flight.
		return nil, nil, ErrSuperseded
	}

	if err != nil {
		f.lastErr = err
		if status.IsNotFound(err) {
			f.state = StateNotFound
		} else {
			f.state = StateFailed
		}
		return nil, nil, err
	}

	ticket := event.FindTicket(ticketID)
	if ticket == nil {
		err := fmt.Errorf("load purchase context: ticket %d in event %d: %w", ticketID, eventID, status.ErrTicketNotFound)
		f.state = StateNotFound
		f.lastErr = err
		return nil, nil, err
	}

	f.state = StateReady
	f.event = event
	f.ticket = ticket
	return event, ticket, nil
}

// ValidateQuantity is the pure fast-fail check run before any network call.
// Advisory only: the server remains authoritative at submission time, and a
// race with another purchaser can still reject an accepted quantity.
func ValidateQuantity(requested, available int) error {
	if requested < 1 {
		return errors.New("must book at least 1 ticket")
	}
	if requested > available {
		return fmt.Errorf("only %d tickets remaining", available)
	}
	return nil
}

// ParseQuantity converts user input into a quantity, rejecting anything that
// is not a whole number.
func ParseQuantity(input string) (int, error) {
	quantity, err := strconv.Atoi(input)
	if err != nil {
		return 0, errors.New("quantity must be a whole number")
	}
	return quantity, nil
}

// SubmitBooking validates the form and the requested quantity against the
// loaded ticket snapshot, then performs the single booking POST. No retry on
// failure; a rejected attempt stays rejected until the user resubmits.
func (f *Funnel) SubmitBooking(ctx context.Context, form *models.BookingForm) (*models.Booking, error) {
	f.mu.Lock()
	if f.state != StateReady && f.state != StateRejected {
		f.mu.Unlock()
		return nil, status.ErrNotReady
	}
	ticket := f.ticket
	token := f.attempt

	if err := form.Validate(); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	if err := ValidateQuantity(form.Quantity, ticket.Quantity); err != nil {
		f.mu.Unlock()
		return nil, err
	}

	f.state = StateSubmitting
	f.mu.Unlock()

	result, err := f.bookings.BookTicket(ctx, ticket.ID, form.Request())

	f.mu.Lock()
	defer f.mu.Unlock()
	if token != f.attempt {
		return nil, ErrSuperseded
	}

	if err != nil {
		f.state = StateRejected
		f.lastErr = err
		return nil, err
	}

	// The server-assigned code is the only handle retained; the caller
	// navigates to the confirmation keyed by it.
	f.state = StateConfirmed
	f.bookingCode = result.BookingCode
	return result, nil
}

// LookupResult carries the booking (primary) and, when it could be fetched,
// the event it belongs to (best-effort enrichment).
type LookupResult struct {
	Booking *models.Booking
	Event   *models.Event
}

// LookupBooking fetches the booking by code and enriches it with its event.
// The event fetch failing does not fail the lookup: the booking is still
// returned, just without event context.
func (f *Funnel) LookupBooking(ctx context.Context, code string) (*LookupResult, error) {
	booking, err := f.bookings.GetBookingLookup(ctx, code)
	if err != nil {
		return nil, err
	}

	result := &LookupResult{Booking: booking}
	if booking.EventID != 0 {
		event, err := f.events.GetEventDetail(ctx, booking.EventID)
		if err != nil {
			slog.Warn("booking: event enrichment failed", "code", code, "eventId", booking.EventID, "error", err)
		} else {
			result.Event = event
		}
	}
	return result, nil
}

func (f *Funnel) State() AttemptState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// BookingCode returns the confirmed booking's code, empty before confirmation.
func (f *Funnel) BookingCode() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bookingCode
}

func (f *Funnel) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}
