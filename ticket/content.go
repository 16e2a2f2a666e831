package ticket

import (
	"fmt"

	"github.com/International-Combat-Archery-Alliance/event-tickets/events"
	"github.com/International-Combat-Archery-Alliance/event-tickets/registration"
)

type Section struct {
	Heading string
	Lines   []string
}

// Content is every piece of text printed on a ticket, in page order.
type Content struct {
	Title      string
	Subtitle   string
	Sections   []Section
	ScanPrompt string
	Footer     string
}

// OrderDisplayID is the order number printed on tickets. It is the ticket id
// with a literal "1" appended and carries no identity of its own.
func OrderDisplayID(id string) string {
	return id + "1"
}

func BuildContent(reg registration.Registration, event events.Event, footer string) Content {
	subtitle := event.Dates
	if event.Times != "" {
		if subtitle != "" {
			subtitle = fmt.Sprintf("%s, %s", subtitle, event.Times)
		} else {
			subtitle = event.Times
		}
	}

	venueLines := []string{}
	if event.EventLocation.Name != "" {
		venueLines = append(venueLines, event.EventLocation.Name)
	}
	venueLines = append(venueLines, event.EventLocation.LocAddress.Lines()...)

	return Content{
		Title:    event.Name,
		Subtitle: subtitle,
		Sections: []Section{
			{
				Heading: "Attendee Information",
				Lines: []string{
					fmt.Sprintf("Name: %s", reg.Name),
					fmt.Sprintf("Email: %s", reg.Email),
					fmt.Sprintf("Role: %s", reg.Role),
				},
			},
			{
				Heading: "Order Details",
				Lines: []string{
					fmt.Sprintf("Order ID: %s", OrderDisplayID(reg.ID)),
					fmt.Sprintf("Ticket ID: %s", reg.ID),
				},
			},
			{
				Heading: "Event Venue",
				Lines:   venueLines,
			},
		},
		ScanPrompt: "Scan this QR code at entry:",
		Footer:     footer,
	}
}
