package models

import (
	"github.com/shopspring/decimal"
)

type Ticket struct {
	ID          int64           `json:"id"`
	TicketType  string          `json:"ticketType"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Description string          `json:"description"`
	Deleted     bool            `json:"deleted,omitempty"`
}
