package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"

	"ticket-client/models"
)

func (a *app) runLogin(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("login", pflag.ContinueOnError)
	username := fs.String("username", "", "admin email")
	password := fs.String("password", "", "admin password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	form := models.LoginForm{Username: *username, Password: *password}
	if err := form.Validate(); err != nil {
		printFieldErrors(err)
		return errors.New("login not attempted")
	}

	if err := a.session.Login(ctx, form.Username, form.Password); err != nil {
		return err
	}
	fmt.Printf("logged in as %s\n", a.session.Principal())
	return nil
}

func (a *app) runLogout(ctx context.Context, args []string) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("logged out")
	return nil
}

func (a *app) runAdmin(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: ticket-client admin <event|ticket> <create|update|delete> ...")
	}
	switch args[0] {
	case "event":
		return a.runAdminEvent(ctx, args[1], args[2:])
	case "ticket":
		return a.runAdminTicket(ctx, args[1], args[2:])
	default:
		return fmt.Errorf("unknown admin resource: %s", args[0])
	}
}

func (a *app) runAdminEvent(ctx context.Context, action string, args []string) error {
	fs := pflag.NewFlagSet("admin event "+action, pflag.ContinueOnError)
	name := fs.String("name", "", "event name")
	location := fs.String("location", "", "event location")
	media := fs.StringSlice("media", nil, "media URLs")
	start := fs.String("start", "", "start date (YYYY-MM-DD[THH:MM])")
	end := fs.String("end", "", "end date (YYYY-MM-DD[THH:MM])")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()

	switch action {
	case "create":
		form := &models.EventForm{
			EventName: *name,
			Location:  *location,
			Media:     *media,
		}
		var err error
		if form.StartDate, err = parseEventDate(*start); err != nil {
			return err
		}
		if form.EndDate, err = parseEventDate(*end); err != nil {
			return err
		}
		event, err := a.admin.SaveEvent(ctx, 0, form)
		if err != nil {
			if printFieldErrors(err) {
				return errors.New("event not created")
			}
			return err
		}
		fmt.Printf("created event %d: %s\n", event.ID, event.EventName)
		return nil

	case "update":
		if len(rest) != 1 {
			return errors.New("usage: ticket-client admin event update <id> [flags]")
		}
		eventID, err := parseID(rest[0], "event")
		if err != nil {
			return err
		}
		form, err := a.admin.LoadEventForm(ctx, eventID)
		if err != nil {
			return err
		}
		if fs.Changed("name") {
			form.EventName = *name
		}
		if fs.Changed("location") {
			form.Location = *location
		}
		if fs.Changed("media") {
			form.Media = *media
		}
		if fs.Changed("start") {
			if form.StartDate, err = parseEventDate(*start); err != nil {
				return err
			}
		}
		if fs.Changed("end") {
			if form.EndDate, err = parseEventDate(*end); err != nil {
				return err
			}
		}
		event, err := a.admin.SaveEvent(ctx, eventID, form)
		if err != nil {
			if printFieldErrors(err) {
				return errors.New("event not updated")
			}
			return err
		}
		fmt.Printf("updated event %d: %s\n", event.ID, event.EventName)
		return nil

	case "delete":
		if len(rest) != 1 {
			return errors.New("usage: ticket-client admin event delete <id>")
		}
		eventID, err := parseID(rest[0], "event")
		if err != nil {
			return err
		}
		if err := a.admin.DeleteEvent(ctx, eventID); err != nil {
			return err
		}
		fmt.Printf("deleted event %d\n", eventID)
		return nil

	default:
		return fmt.Errorf("unknown admin event action: %s", action)
	}
}

func (a *app) runAdminTicket(ctx context.Context, action string, args []string) error {
	fs := pflag.NewFlagSet("admin ticket "+action, pflag.ContinueOnError)
	ticketType := fs.String("type", "", "ticket type label")
	price := fs.String("price", "0", "unit price")
	quantity := fs.Int("quantity", 1, "available quantity")
	description := fs.String("description", "", "ticket description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()

	switch action {
	case "create":
		if len(rest) != 1 {
			return errors.New("usage: ticket-client admin ticket create <eventID> [flags]")
		}
		eventID, err := parseID(rest[0], "event")
		if err != nil {
			return err
		}
		form := &models.TicketForm{
			TicketType:  *ticketType,
			Quantity:    *quantity,
			Description: *description,
		}
		if form.Price, err = decimal.NewFromString(*price); err != nil {
			return fmt.Errorf("invalid price %q", *price)
		}
		ticket, err := a.admin.SaveTicket(ctx, eventID, 0, form)
		if err != nil {
			if printFieldErrors(err) {
				return errors.New("ticket not created")
			}
			return err
		}
		fmt.Printf("created ticket %d (%s) for event %d\n", ticket.ID, ticket.TicketType, eventID)
		return nil

	case "update":
		if len(rest) != 2 {
			return errors.New("usage: ticket-client admin ticket update <eventID> <ticketID> [flags]")
		}
		eventID, err := parseID(rest[0], "event")
		if err != nil {
			return err
		}
		ticketID, err := parseID(rest[1], "ticket")
		if err != nil {
			return err
		}
		form, err := a.admin.LoadTicketForm(ctx, eventID, ticketID)
		if err != nil {
			return err
		}
		if fs.Changed("type") {
			form.TicketType = *ticketType
		}
		if fs.Changed("price") {
			if form.Price, err = decimal.NewFromString(*price); err != nil {
				return fmt.Errorf("invalid price %q", *price)
			}
		}
		if fs.Changed("quantity") {
			form.Quantity = *quantity
		}
		if fs.Changed("description") {
			form.Description = *description
		}
		ticket, err := a.admin.SaveTicket(ctx, eventID, ticketID, form)
		if err != nil {
			if printFieldErrors(err) {
				return errors.New("ticket not updated")
			}
			return err
		}
		fmt.Printf("updated ticket %d (%s)\n", ticket.ID, ticket.TicketType)
		return nil

	case "delete":
		if len(rest) != 2 {
			return errors.New("usage: ticket-client admin ticket delete <eventID> <ticketID>")
		}
		eventID, err := parseID(rest[0], "event")
		if err != nil {
			return err
		}
		ticketID, err := parseID(rest[1], "ticket")
		if err != nil {
			return err
		}
		if err := a.admin.DeleteTicket(ctx, eventID, ticketID); err != nil {
			return err
		}
		fmt.Printf("deleted ticket %d of event %d\n", ticketID, eventID)
		return nil

	default:
		return fmt.Errorf("unknown admin ticket action: %s", action)
	}
}

func parseID(input, kind string) (int64, error) {
	id, err := strconv.ParseInt(input, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s id %q", kind, input)
	}
	return id, nil
}

var eventDateLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseEventDate(input string) (time.Time, error) {
	if input == "" {
		return time.Time{}, nil
	}
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, input); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD or YYYY-MM-DDTHH:MM)", input)
}
