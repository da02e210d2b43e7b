package models

import (
	"github.com/shopspring/decimal"
)

// Booking is the server's record of a confirmed purchase. The embedded
// ticket is a snapshot taken at booking time, not a live reference, so the
// confirmation display never silently reflects later ticket edits.
type Booking struct {
	ID          int64           `json:"id"`
	BookingCode string          `json:"bookingCode"`
	EventID     int64           `json:"eventId,omitempty"`
	Ticket      *Ticket         `json:"ticket"`
	User        BookingUser     `json:"user"`
	Quantity    int             `json:"quantity"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      bool            `json:"status"`
}

type BookingUser struct {
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
}

// BookingRequest is the payload for the book-ticket endpoint.
type BookingRequest struct {
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
	Quantity    int    `json:"quantity"`
}
