package booking

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-client/internal/status"
	"ticket-client/models"
)

type fakeEventAPI struct {
	events    map[int64]*models.Event
	detailErr error

	detailCalls int
	onDetail    func()

	pages     map[string]*models.EventPage
	listErr   error
	listCalls int
	lastQuery []string
	onList    func()
}

func (f *fakeEventAPI) GetEventDetail(ctx context.Context, eventID int64) (*models.Event, error) {
	f.detailCalls++
	if f.onDetail != nil {
		hook := f.onDetail
		f.onDetail = nil
		hook()
	}
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	event, ok := f.events[eventID]
	if !ok {
		return nil, status.ErrEventNotFound
	}
	copied := *event
	return &copied, nil
}

func (f *fakeEventAPI) GetEvents(ctx context.Context, page, limit int, name, startDate, endDate string) (*models.EventPage, error) {
	f.listCalls++
	f.lastQuery = []string{name, startDate, endDate}
	if f.onList != nil {
		hook := f.onList
		f.onList = nil
		hook()
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.pages != nil {
		if p, ok := f.pages[name]; ok {
			result := *p
			result.Number = page
			return &result, nil
		}
	}
	return &models.EventPage{Number: page, Size: limit}, nil
}

type fakeBookingAPI struct {
	bookErr   error
	lookupErr error
	bookings  map[string]*models.Booking

	bookCalls int
	lastReq   *models.BookingRequest

	ticketPrice decimal.Decimal
	ticketType  string
}

func (f *fakeBookingAPI) BookTicket(ctx context.Context, ticketID int64, req *models.BookingRequest) (*models.Booking, error) {
	f.bookCalls++
	f.lastReq = req
	if f.bookErr != nil {
		return nil, f.bookErr
	}
	return &models.Booking{
		BookingCode: "ABC-1234",
		Ticket:      &models.Ticket{ID: ticketID, TicketType: f.ticketType, Price: f.ticketPrice},
		Quantity:    req.Quantity,
		TotalAmount: f.ticketPrice.Mul(decimal.NewFromInt(int64(req.Quantity))),
		Status:      true,
	}, nil
}

func (f *fakeBookingAPI) GetBookingLookup(ctx context.Context, code string) (*models.Booking, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	booking, ok := f.bookings[code]
	if !ok {
		return nil, status.ErrBookingNotFound
	}
	copied := *booking
	return &copied, nil
}

func concertEvent() *models.Event {
	return &models.Event{
		ID:        7,
		EventName: "Summer Concert",
		Tickets: []models.Ticket{
			{ID: 3, TicketType: "VIP", Price: decimal.NewFromInt(25), Quantity: 10},
			{ID: 4, TicketType: "Standard", Price: decimal.NewFromInt(10), Quantity: 0},
		},
	}
}

func TestFunnel_LoadPurchaseContextReady(t *testing.T) {
	events := &fakeEventAPI{events: map[int64]*models.Event{7: concertEvent()}}
	funnel := NewFunnel(events, &fakeBookingAPI{})

	event, ticket, err := funnel.LoadPurchaseContext(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.Equal(t, StateReady, funnel.State())
	assert.Equal(t, "Summer Concert", event.EventName)
	assert.Equal(t, "VIP", ticket.TicketType)
}

func TestFunnel_LoadPurchaseContextTicketMissing(t *testing.T) {
	events := &fakeEventAPI{events: map[int64]*models.Event{7: concertEvent()}}
	funnel := NewFunnel(events, &fakeBookingAPI{})

	_, _, err := funnel.LoadPurchaseContext(context.Background(), 7, 99)
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrTicketNotFound)
	assert.Equal(t, StateNotFound, funnel.State())
}

func TestFunnel_LoadPurchaseContextEventMissing(t *testing.T) {
	events := &fakeEventAPI{events: map[int64]*models.Event{}}
	funnel := NewFunnel(events, &fakeBookingAPI{})

	_, _, err := funnel.LoadPurchaseContext(context.Background(), 42, 3)
	require.Error(t, err)
	assert.Equal(t, StateNotFound, funnel.State())
}

func TestFunnel_LoadPurchaseContextFetchFailure(t *testing.T) {
	events := &fakeEventAPI{detailErr: &status.RequestError{Message: "connection refused"}}
	funnel := NewFunnel(events, &fakeBookingAPI{})

	_, _, err := funnel.LoadPurchaseContext(context.Background(), 7, 3)
	require.Error(t, err)
	assert.Equal(t, StateFailed, funnel.State())
}

func TestFunnel_StaleLoadIsDiscarded(t *testing.T) {
	events := &fakeEventAPI{events: map[int64]*models.Event{
		7: concertEvent(),
		8: {ID: 8, EventName: "Autumn Fair", Tickets: []models.Ticket{{ID: 9, Quantity: 5}}},
	}}
	funnel := NewFunnel(events, &fakeBookingAPI{})

	// While the first attempt's fetch is in flight, the user navigates to a
	// different purchase. The first completion must not clobber the second.
	events.onDetail = func() {
		_, _, err := funnel.LoadPurchaseContext(context.Background(), 8, 9)
		require.NoError(t, err)
	}

	_, _, err := funnel.LoadPurchaseContext(context.Background(), 7, 3)
	assert.ErrorIs(t, err, ErrSuperseded)

	assert.Equal(t, StateReady, funnel.State())
	_, ticket, err := funnel.LoadPurchaseContext(context.Background(), 8, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(9), ticket.ID)
}

func TestValidateQuantity(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		available int
		ok        bool
	}{
		{"one of many", 1, 10, true},
		{"exactly available", 10, 10, true},
		{"zero", 0, 10, false},
		{"negative", -1, 10, false},
		{"over available", 11, 10, false},
		{"none available", 1, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateQuantity(tc.requested, tc.available)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestParseQuantity(t *testing.T) {
	n, err := ParseQuantity("3")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = ParseQuantity("2.5")
	assert.Error(t, err)
	_, err = ParseQuantity("two")
	assert.Error(t, err)
	_, err = ParseQuantity("")
	assert.Error(t, err)
}

func validBookingForm() *models.BookingForm {
	return &models.BookingForm{
		FullName:    "Jane Doe",
		Email:       "jane@example.com",
		PhoneNumber: "0123456789",
		Quantity:    2,
	}
}

func TestFunnel_SubmitBookingConfirmed(t *testing.T) {
	events := &fakeEventAPI{events: map[int64]*models.Event{7: concertEvent()}}
	bookings := &fakeBookingAPI{ticketPrice: decimal.NewFromFloat(25.00), ticketType: "VIP"}
	funnel := NewFunnel(events, bookings)

	_, _, err := funnel.LoadPurchaseContext(context.Background(), 7, 3)
	require.NoError(t, err)

	result, err := funnel.SubmitBooking(context.Background(), validBookingForm())
	require.NoError(t, err)

	assert.Equal(t, StateConfirmed, funnel.State())
	assert.Equal(t, "ABC-1234", funnel.BookingCode())
	assert.Equal(t, 2, result.Quantity)
	assert.True(t, result.TotalAmount.Equal(decimal.NewFromInt(50)), "2 x 25.00 must total 50.00")
}

func TestFunnel_SubmitBookingGatedOnReady(t *testing.T) {
	bookings := &fakeBookingAPI{}
	funnel := NewFunnel(&fakeEventAPI{}, bookings)

	_, err := funnel.SubmitBooking(context.Background(), validBookingForm())
	assert.ErrorIs(t, err, status.ErrNotReady)
	assert.Zero(t, bookings.bookCalls)
}

func TestFunnel_SubmitBookingBlocksInvalidFormLocally(t *testing.T) {
	events := &fakeEventAPI{events: map[int64]*models.Event{7: concertEvent()}}
	bookings := &fakeBookingAPI{}
	funnel := NewFunnel(events, bookings)

	_, _, err := funnel.LoadPurchaseContext(context.Background(), 7, 3)
	require.NoError(t, err)

	form := validBookingForm()
	form.Email = "not-an-email"
	_, err = funnel.SubmitBooking(context.Background(), form)
	require.Error(t, err)
	assert.NotEmpty(t, models.FieldError(err, "email"))
	assert.Zero(t, bookings.bookCalls, "invalid form must not reach the network")
}

func TestFunnel_SubmitBookingBlocksExcessQuantityLocally(t *testing.T) {
	events := &fakeEventAPI{events: map[int64]*models.Event{7: concertEvent()}}
	bookings := &fakeBookingAPI{}
	funnel := NewFunnel(events, bookings)

	_, _, err := funnel.LoadPurchaseContext(context.Background(), 7, 3)
	require.NoError(t, err)

	form := validBookingForm()
	form.Quantity = 11 // the VIP snapshot has 10 remaining
	_, err = funnel.SubmitBooking(context.Background(), form)
	require.Error(t, err)
	assert.Zero(t, bookings.bookCalls, "fail fast, no wasted round trip")
}

func TestFunnel_SubmitBookingRejectedByServer(t *testing.T) {
	events := &fakeEventAPI{events: map[int64]*models.Event{7: concertEvent()}}
	bookings := &fakeBookingAPI{bookErr: &status.RequestError{StatusCode: 409, Message: "sold out"}}
	funnel := NewFunnel(events, bookings)

	_, _, err := funnel.LoadPurchaseContext(context.Background(), 7, 3)
	require.NoError(t, err)

	_, err = funnel.SubmitBooking(context.Background(), validBookingForm())
	require.Error(t, err)
	assert.Equal(t, StateRejected, funnel.State())
	assert.Equal(t, 1, bookings.bookCalls, "no automatic retry")

	var re *status.RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "sold out", re.Message, "server message surfaced verbatim")

	// A manual resubmission from the rejected state is allowed.
	bookings.bookErr = nil
	bookings.ticketPrice = decimal.NewFromInt(25)
	_, err = funnel.SubmitBooking(context.Background(), validBookingForm())
	require.NoError(t, err)
	assert.Equal(t, StateConfirmed, funnel.State())
}

func TestFunnel_LookupBookingRoundTrip(t *testing.T) {
	booked := &models.Booking{
		BookingCode: "ABC-1234",
		EventID:     7,
		Ticket:      &models.Ticket{ID: 3, TicketType: "VIP", Price: decimal.NewFromInt(25)},
		Quantity:    2,
		TotalAmount: decimal.NewFromInt(50),
	}
	events := &fakeEventAPI{events: map[int64]*models.Event{7: concertEvent()}}
	bookings := &fakeBookingAPI{bookings: map[string]*models.Booking{"ABC-1234": booked}}
	funnel := NewFunnel(events, bookings)

	result, err := funnel.LookupBooking(context.Background(), "ABC-1234")
	require.NoError(t, err)
	require.NotNil(t, result.Booking)
	assert.Equal(t, "VIP", result.Booking.Ticket.TicketType)
	assert.Equal(t, 2, result.Booking.Quantity)
	assert.True(t, result.Booking.TotalAmount.Equal(decimal.NewFromInt(50)))
	require.NotNil(t, result.Event)
	assert.Equal(t, "Summer Concert", result.Event.EventName)
}

func TestFunnel_LookupBookingPartialSuccess(t *testing.T) {
	booked := &models.Booking{BookingCode: "ABC-1234", EventID: 7, Quantity: 2}
	events := &fakeEventAPI{detailErr: &status.RequestError{Message: "connection refused"}}
	bookings := &fakeBookingAPI{bookings: map[string]*models.Booking{"ABC-1234": booked}}
	funnel := NewFunnel(events, bookings)

	result, err := funnel.LookupBooking(context.Background(), "ABC-1234")
	require.NoError(t, err, "event enrichment failure must not fail the lookup")
	require.NotNil(t, result.Booking)
	assert.Nil(t, result.Event)
}

func TestFunnel_LookupBookingNotFound(t *testing.T) {
	funnel := NewFunnel(&fakeEventAPI{}, &fakeBookingAPI{})

	_, err := funnel.LookupBooking(context.Background(), "NOPE-0000")
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrBookingNotFound)
}
