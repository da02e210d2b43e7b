package models

import (
	"time"
)

type Event struct {
	ID        int64     `json:"id"`
	EventName string    `json:"eventName"`
	Media     []string  `json:"media"`
	Location  string    `json:"location"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Tickets   []Ticket  `json:"tickets"`
}

// FindTicket locates a ticket by id inside the event's ticket list.
// Returns nil when the id is absent (deleted or mismatched ticket).
func (e *Event) FindTicket(ticketID int64) *Ticket {
	for i := range e.Tickets {
		if e.Tickets[i].ID == ticketID {
			return &e.Tickets[i]
		}
	}
	return nil
}

// ActiveTickets returns the event's tickets with soft-deleted ones filtered out.
func (e *Event) ActiveTickets() []Ticket {
	out := make([]Ticket, 0, len(e.Tickets))
	for _, t := range e.Tickets {
		if !t.Deleted {
			out = append(out, t)
		}
	}
	return out
}

// EventPage is the paged listing envelope returned by the public event endpoint.
type EventPage struct {
	Content       []Event `json:"content"`
	TotalPages    int     `json:"totalPages"`
	TotalElements int64   `json:"totalElements"`
	Number        int     `json:"number"`
	Size          int     `json:"size"`
}
