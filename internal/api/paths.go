package api

import "fmt"

const (
	loginPath  = "/login"
	logoutPath = "/logout"
)

func publicPath(path string) string { return "/api/public" + path }
func adminPath(path string) string  { return "/api/admin" + path }

func eventsPath() string { return publicPath("/event") }

func eventDetailPath(eventID int64) string {
	return publicPath(fmt.Sprintf("/event/%d", eventID))
}

func bookTicketPath(ticketID int64) string {
	return publicPath(fmt.Sprintf("/book_ticket/%d", ticketID))
}

func bookingLookupPath() string { return publicPath("/book_ticket") }

func adminEventPath() string { return adminPath("/event") }

func adminEventDetailPath(eventID int64) string {
	return adminPath(fmt.Sprintf("/event/%d", eventID))
}

func adminTicketPath(eventID int64) string {
	return adminPath(fmt.Sprintf("/event/%d/ticket", eventID))
}

func adminTicketDetailPath(eventID, ticketID int64) string {
	return adminPath(fmt.Sprintf("/event/%d/ticket/%d", eventID, ticketID))
}
