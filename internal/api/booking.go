package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"ticket-client/internal/status"
	"ticket-client/models"
)

// BookTicket submits one booking for ticketID. A single POST with no retry:
// duplicate submissions on retry are explicitly avoided, so a failed call is
// surfaced to the caller for a manual decision.
func (c *Client) BookTicket(ctx context.Context, ticketID int64, req *models.BookingRequest) (*models.Booking, error) {
	var booking models.Booking
	if err := c.postJSON(ctx, "book_ticket", bookTicketPath(ticketID), req, &booking); err != nil {
		return nil, fmt.Errorf("book ticket %d: %w", ticketID, err)
	}
	return &booking, nil
}

// GetBookingLookup fetches a booking by its server-assigned code.
func (c *Client) GetBookingLookup(ctx context.Context, code string) (*models.Booking, error) {
	query := url.Values{}
	query.Set("code", code)

	var booking models.Booking
	if err := c.getJSON(ctx, "booking_lookup", bookingLookupPath(), query, &booking); err != nil {
		if isStatusCode(err, http.StatusNotFound) {
			return nil, fmt.Errorf("lookup booking %s: %w", code, status.ErrBookingNotFound)
		}
		return nil, fmt.Errorf("lookup booking %s: %w", code, err)
	}
	return &booking, nil
}
