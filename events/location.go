package events

import (
	"fmt"
	"strings"
)

type Location struct {
	Name       string
	LocAddress Address
}

type Address struct {
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
}

// Lines returns the printable address lines, skipping empty parts.
func (a Address) Lines() []string {
	var lines []string
	if a.Street != "" {
		lines = append(lines, a.Street)
	}

	var region []string
	for _, v := range []string{a.City, a.State} {
		if v != "" {
			region = append(region, v)
		}
	}
	regionLine := strings.Join(region, ", ")
	if a.PostalCode != "" {
		if regionLine != "" {
			regionLine = fmt.Sprintf("%s - %s", regionLine, a.PostalCode)
		} else {
			regionLine = a.PostalCode
		}
	}
	if a.Country != "" {
		if regionLine != "" {
			regionLine = fmt.Sprintf("%s, %s", regionLine, a.Country)
		} else {
			regionLine = a.Country
		}
	}
	if regionLine != "" {
		lines = append(lines, regionLine)
	}

	return lines
}

// Short is the one-line "venue, city, country" form used in email summaries.
func (l Location) Short() string {
	parts := []string{}
	for _, v := range []string{l.Name, l.LocAddress.City, l.LocAddress.Country} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}
