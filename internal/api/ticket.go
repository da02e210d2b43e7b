package api

import (
	"context"
	"fmt"

	"ticket-client/models"
)

func (c *Client) CreateTicket(ctx context.Context, eventID int64, form *models.TicketForm) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := c.postJSON(ctx, "admin_ticket_create", adminTicketPath(eventID), form, &ticket); err != nil {
		return nil, fmt.Errorf("create ticket for event %d: %w", eventID, err)
	}
	return &ticket, nil
}

func (c *Client) UpdateTicket(ctx context.Context, eventID, ticketID int64, form *models.TicketForm) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := c.putJSON(ctx, "admin_ticket_update", adminTicketDetailPath(eventID, ticketID), form, &ticket); err != nil {
		return nil, fmt.Errorf("update ticket %d of event %d: %w", ticketID, eventID, err)
	}
	return &ticket, nil
}

func (c *Client) DeleteTicket(ctx context.Context, eventID, ticketID int64) error {
	if err := c.deleteJSON(ctx, "admin_ticket_delete", adminTicketDetailPath(eventID, ticketID)); err != nil {
		return fmt.Errorf("delete ticket %d of event %d: %w", ticketID, eventID, err)
	}
	return nil
}
