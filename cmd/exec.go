// Package cmd wires the client together and dispatches CLI subcommands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"ticket-client/config"
	"ticket-client/internal/admin"
	"ticket-client/internal/api"
	"ticket-client/internal/booking"
	"ticket-client/internal/credentials"
	"ticket-client/internal/session"
)

type app struct {
	cfg     *config.Config
	client  *api.Client
	session *session.Manager
	funnel  *booking.Funnel
	browser *booking.Browser
	admin   *admin.Manager
}

func Execute(args []string) error {
	cfg := config.LoadConfig()

	store := credentials.NewFileStore(cfg.CredentialsPath)
	client := api.New(&api.Config{
		BaseURL:     cfg.MainAPIEndpoint,
		Timeout:     cfg.RequestTimeout,
		Credentials: store,
	})
	mgr := session.NewManager(store, client)
	client.SetAuthLostHandler(mgr.ForceInvalidate)

	if err := mgr.Restore(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	a := &app{
		cfg:     cfg,
		client:  client,
		session: mgr,
		funnel:  booking.NewFunnel(client, client),
		browser: booking.NewBrowser(client, cfg.PageSize),
		admin:   admin.NewManager(mgr, client, client),
	}

	// Surface authorization loss the way the browser client redirects to
	// the login view.
	authLost := mgr.Subscribe()
	defer func() {
		select {
		case <-authLost:
			fmt.Fprintln(os.Stderr, "session expired: run `ticket-client login` to sign in again")
		default:
		}
	}()

	if len(args) == 0 {
		usage()
		return errors.New("missing command")
	}

	ctx := context.Background()
	switch args[0] {
	case "events":
		return a.runEvents(ctx, args[1:])
	case "event":
		return a.runEventDetail(ctx, args[1:])
	case "book":
		return a.runBook(ctx, args[1:])
	case "lookup":
		return a.runLookup(ctx, args[1:])
	case "login":
		return a.runLogin(ctx, args[1:])
	case "logout":
		return a.runLogout(ctx, args[1:])
	case "admin":
		return a.runAdmin(ctx, args[1:])
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: ticket-client <command> [flags]

Public commands:
  events                       list events (--page --limit --name --from --to --clear)
  event <id>                   show one event with its tickets
  book <eventID> <ticketID>    book tickets (--name --email --phone --quantity)
  lookup <code>                look up a booking by its code

Admin commands:
  login                        sign in (--username --password)
  logout                       sign out
  admin event create|update|delete
  admin ticket create|update|delete
`)
}

// printFieldErrors renders a field-keyed validation error, all fields at
// once. Returns false when err is not a validation error.
func printFieldErrors(err error) bool {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return false
	}
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	fmt.Fprintln(os.Stderr, "invalid input:")
	for _, field := range fields {
		fmt.Fprintf(os.Stderr, "  %s: %v\n", field, errs[field])
	}
	return true
}
