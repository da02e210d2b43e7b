package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"ticket-client/internal/booking"
	"ticket-client/internal/status"
	"ticket-client/models"
)

const dateDisplayLayout = "2006-01-02 15:04"

func (a *app) runEvents(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("events", pflag.ContinueOnError)
	page := fs.Int("page", 0, "0-based page index")
	limit := fs.Int("limit", a.cfg.PageSize, "events per page")
	name := fs.String("name", "", "free-text name filter")
	from := fs.String("from", "", "start date filter (YYYY-MM-DD)")
	to := fs.String("to", "", "end date filter (YYYY-MM-DD)")
	clear := fs.Bool("clear", false, "clear all filters and return to the first page")
	if err := fs.Parse(args); err != nil {
		return err
	}

	browser := a.browser
	if fs.Changed("limit") {
		browser = booking.NewBrowser(a.client, *limit)
	}

	var result *models.EventPage
	var err error
	if *clear {
		result, err = browser.ClearFilters(ctx)
	} else {
		result, err = browser.Apply(ctx, *page, *name, *from, *to)
	}
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}

	if len(result.Content) == 0 {
		fmt.Println("no events found")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLOCATION\tSTART\tEND\tTICKETS")
	for _, event := range result.Content {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\n",
			event.ID,
			event.EventName,
			event.Location,
			event.StartDate.Format(dateDisplayLayout),
			event.EndDate.Format(dateDisplayLayout),
			len(event.ActiveTickets()),
		)
	}
	tw.Flush()
	fmt.Printf("page %d of %d (%d events)\n", result.Number+1, result.TotalPages, result.TotalElements)
	return nil
}

func (a *app) runEventDetail(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: ticket-client event <id>")
	}
	eventID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid event id %q", args[0])
	}

	event, err := a.client.GetEventDetail(ctx, eventID)
	if err != nil {
		if status.IsNotFound(err) {
			fmt.Fprintln(os.Stderr, "event not found; run `ticket-client events` to browse the listing")
		}
		return err
	}

	fmt.Printf("%s\n", event.EventName)
	fmt.Printf("  location: %s\n", event.Location)
	fmt.Printf("  from:     %s\n", event.StartDate.Format(dateDisplayLayout))
	fmt.Printf("  to:       %s\n", event.EndDate.Format(dateDisplayLayout))
	for _, m := range event.Media {
		fmt.Printf("  media:    %s\n", m)
	}

	tickets := event.ActiveTickets()
	if len(tickets) == 0 {
		fmt.Println("no tickets on sale")
		return nil
	}
	tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "TICKET\tTYPE\tPRICE\tREMAINING\tDESCRIPTION")
	for _, t := range tickets {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", t.ID, t.TicketType, t.Price.StringFixed(2), t.Quantity, t.Description)
	}
	tw.Flush()
	return nil
}

func (a *app) runBook(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("book", pflag.ContinueOnError)
	fullName := fs.String("name", "", "purchaser full name")
	email := fs.String("email", "", "purchaser email")
	phone := fs.String("phone", "", "purchaser phone number")
	quantityStr := fs.String("quantity", "1", "number of tickets")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) != 2 {
		return errors.New("usage: ticket-client book <eventID> <ticketID> --name --email --phone --quantity")
	}
	eventID, err := strconv.ParseInt(rest[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid event id %q", rest[0])
	}
	ticketID, err := strconv.ParseInt(rest[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid ticket id %q", rest[1])
	}

	_, ticket, err := a.funnel.LoadPurchaseContext(ctx, eventID, ticketID)
	if err != nil {
		if status.IsNotFound(err) {
			fmt.Fprintln(os.Stderr, "ticket not found; run `ticket-client event` to see what is on sale")
		}
		return err
	}
	fmt.Printf("booking %q at %s each (%d remaining)\n", ticket.TicketType, ticket.Price.StringFixed(2), ticket.Quantity)

	quantity, err := booking.ParseQuantity(*quantityStr)
	if err != nil {
		return err
	}

	form := &models.BookingForm{
		FullName:    *fullName,
		Email:       *email,
		PhoneNumber: *phone,
		Quantity:    quantity,
	}
	result, err := a.funnel.SubmitBooking(ctx, form)
	if err != nil {
		if printFieldErrors(err) {
			return errors.New("booking not submitted")
		}
		return err
	}

	fmt.Printf("booked %d x %s for a total of %s\n", result.Quantity, result.Ticket.TicketType, result.TotalAmount.StringFixed(2))
	fmt.Printf("booking code: %s\n", result.BookingCode)
	fmt.Printf("retrieve it later with `ticket-client lookup %s`\n", result.BookingCode)
	return nil
}

func (a *app) runLookup(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: ticket-client lookup <code>")
	}

	form := models.LookupForm{BookingCode: args[0]}
	if err := form.Validate(); err != nil {
		printFieldErrors(err)
		return errors.New("invalid booking code")
	}

	result, err := a.funnel.LookupBooking(ctx, form.BookingCode)
	if err != nil {
		if status.IsNotFound(err) {
			fmt.Fprintln(os.Stderr, "booking not found; check your booking code and try again")
		}
		return err
	}

	b := result.Booking
	fmt.Printf("booking %s\n", b.BookingCode)
	if b.Ticket != nil {
		fmt.Printf("  ticket:   %s at %s each\n", b.Ticket.TicketType, b.Ticket.Price.StringFixed(2))
	}
	fmt.Printf("  quantity: %d\n", b.Quantity)
	fmt.Printf("  total:    %s\n", b.TotalAmount.StringFixed(2))
	fmt.Printf("  name:     %s\n", b.User.FullName)
	if result.Event != nil {
		fmt.Printf("  event:    %s, %s (%s)\n", result.Event.EventName, result.Event.Location, result.Event.StartDate.Format(dateDisplayLayout))
	} else if b.EventID != 0 {
		fmt.Println("  event:    details unavailable right now")
	}
	return nil
}
