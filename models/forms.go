package models

import (
	"errors"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

// Validation schemas shared by every funnel-adjacent form. Whole-form
// validation is the authoritative gate before submission; all field errors
// are collected at once and keyed by the field's json name.

var (
	phoneNumberPattern = regexp.MustCompile(`^\d{10,15}$`)
	bookingCodePattern = regexp.MustCompile(`^[A-Z0-9-]+$`)
)

type LoginForm struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (f LoginForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Username, validation.Required.Error("email is required"), is.Email.Error("invalid email")),
		validation.Field(&f.Password, validation.Required.Error("password is required"), validation.RuneLength(6, 0).Error("password must be at least 6 characters")),
	)
}

type BookingForm struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Quantity    int    `json:"quantity"`
}

func (f BookingForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.FullName,
			validation.Required.Error("full name is required"),
			validation.RuneLength(2, 50).Error("name must be between 2 and 50 characters"),
		),
		validation.Field(&f.Email,
			validation.Required.Error("email is required"),
			is.Email.Error("invalid email"),
		),
		validation.Field(&f.PhoneNumber,
			validation.Required.Error("phone number is required"),
			validation.Match(phoneNumberPattern).Error("phone number must be between 10 and 15 digits"),
		),
		// Required fires on the zero value, so it carries the same message
		// as the threshold: a quantity of 0 is a too-small quantity, not a
		// missing field.
		validation.Field(&f.Quantity,
			validation.Required.Error("must book at least 1 ticket"),
			validation.Min(1).Error("must book at least 1 ticket"),
		),
	)
}

// Request builds the book-ticket payload from a validated form.
func (f BookingForm) Request() *BookingRequest {
	return &BookingRequest{
		FullName:    f.FullName,
		PhoneNumber: f.PhoneNumber,
		Email:       f.Email,
		Quantity:    f.Quantity,
	}
}

type LookupForm struct {
	BookingCode string `json:"bookingCode"`
}

func (f LookupForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.BookingCode,
			validation.Required.Error("booking code is required"),
			validation.Match(bookingCodePattern).Error("invalid booking code format"),
		),
	)
}

type EventForm struct {
	EventName string    `json:"eventName"`
	Location  string    `json:"location"`
	Media     []string  `json:"media"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

func (f EventForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.EventName,
			validation.Required.Error("event name is required"),
			validation.RuneLength(1, 100).Error("event name must be at most 100 characters"),
		),
		validation.Field(&f.Location,
			validation.Required.Error("location is required"),
			validation.RuneLength(1, 200).Error("location must be at most 200 characters"),
		),
		validation.Field(&f.Media, validation.Each(is.URL.Error("media entries must be URLs"))),
		validation.Field(&f.StartDate, validation.Required.Error("start date is required")),
		validation.Field(&f.EndDate,
			validation.Required.Error("end date is required"),
			validation.By(f.endNotBeforeStart),
		),
	)
}

// endNotBeforeStart allows endDate == startDate; only strictly-earlier ends
// are rejected.
func (f EventForm) endNotBeforeStart(value interface{}) error {
	end, _ := value.(time.Time)
	if end.IsZero() || f.StartDate.IsZero() {
		return nil
	}
	if end.Before(f.StartDate) {
		return errors.New("end date must not be before start date")
	}
	return nil
}

// CleanMedia drops blank media entries before submission, mirroring the
// authoring form's behavior.
func (f *EventForm) CleanMedia() {
	out := f.Media[:0]
	for _, m := range f.Media {
		if m != "" {
			out = append(out, m)
		}
	}
	f.Media = out
}

type TicketForm struct {
	TicketType  string          `json:"ticketType"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Description string          `json:"description"`
}

func (f TicketForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.TicketType,
			validation.Required.Error("ticket type is required"),
			validation.RuneLength(1, 50).Error("ticket type must be at most 50 characters"),
		),
		validation.Field(&f.Price, validation.By(priceNotNegative)),
		validation.Field(&f.Quantity,
			validation.Required.Error("quantity must be at least 1"),
			validation.Min(1).Error("quantity must be at least 1"),
		),
		validation.Field(&f.Description, validation.RuneLength(0, 200).Error("description must be at most 200 characters")),
	)
}

// priceNotNegative accepts zero: free tickets are valid.
func priceNotNegative(value interface{}) error {
	price, _ := value.(decimal.Decimal)
	if price.IsNegative() {
		return errors.New("price must be a positive number")
	}
	return nil
}

// FieldError extracts the message for a single field from a whole-form
// validation error. Returns the empty string when the field is clean. This
// is what per-field on-change validation uses.
func FieldError(err error, field string) string {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return ""
	}
	if fieldErr, ok := errs[field]; ok && fieldErr != nil {
		return fieldErr.Error()
	}
	return ""
}
