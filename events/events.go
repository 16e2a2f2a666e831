package events

import (
	"context"
	"strings"
)

// Event carries the display details printed on a ticket and in its
// confirmation email. Key is the canonical event identifier registrations
// are stored under; Aliases resolve to the same event.
type Event struct {
	Key           string
	Name          string
	Aliases       []string
	Dates         string
	Times         string
	EventLocation Location
}

// CanonicalKey is the case-insensitive form of an event key used for lookups.
func CanonicalKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

type Catalog interface {
	GetEvent(ctx context.Context, key string) (Event, error)
}
