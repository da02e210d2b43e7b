package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"ticket-client/internal/status"
	"ticket-client/models"
)

// GetEvents fetches one page of the public event listing. name, startDate
// and endDate are optional filters; empty values are omitted from the query.
func (c *Client) GetEvents(ctx context.Context, page, limit int, name, startDate, endDate string) (*models.EventPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	if name != "" {
		query.Set("name", name)
	}
	if startDate != "" {
		query.Set("startDate", startDate)
	}
	if endDate != "" {
		query.Set("endDate", endDate)
	}

	var result models.EventPage
	if err := c.getJSON(ctx, "events", eventsPath(), query, &result); err != nil {
		return nil, fmt.Errorf("get events: %w", err)
	}
	return &result, nil
}

// GetEventDetail fetches one event including its nested tickets.
func (c *Client) GetEventDetail(ctx context.Context, eventID int64) (*models.Event, error) {
	var event models.Event
	if err := c.getJSON(ctx, "event_detail", eventDetailPath(eventID), nil, &event); err != nil {
		if isStatusCode(err, http.StatusNotFound) {
			return nil, fmt.Errorf("get event %d: %w", eventID, status.ErrEventNotFound)
		}
		return nil, fmt.Errorf("get event %d: %w", eventID, err)
	}
	return &event, nil
}

func (c *Client) CreateEvent(ctx context.Context, form *models.EventForm) (*models.Event, error) {
	var event models.Event
	if err := c.postJSON(ctx, "admin_event_create", adminEventPath(), form, &event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return &event, nil
}

func (c *Client) UpdateEvent(ctx context.Context, eventID int64, form *models.EventForm) (*models.Event, error) {
	var event models.Event
	if err := c.putJSON(ctx, "admin_event_update", adminEventDetailPath(eventID), form, &event); err != nil {
		return nil, fmt.Errorf("update event %d: %w", eventID, err)
	}
	return &event, nil
}

func (c *Client) DeleteEvent(ctx context.Context, eventID int64) error {
	if err := c.deleteJSON(ctx, "admin_event_delete", adminEventDetailPath(eventID)); err != nil {
		return fmt.Errorf("delete event %d: %w", eventID, err)
	}
	return nil
}

func isStatusCode(err error, code int) bool {
	var re *status.RequestError
	return errors.As(err, &re) && re.StatusCode == code
}
