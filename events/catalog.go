package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

var _ Catalog = &StaticCatalog{}

// StaticCatalog serves event details from configuration, looked up by key or
// alias without regard to case. Events not listed fall back to the default
// details, renamed to the requested key.
type StaticCatalog struct {
	events   map[string]Event
	fallback *Event
}

func NewStaticCatalog(evts []Event, fallback *Event) *StaticCatalog {
	byKey := make(map[string]Event, len(evts))
	for _, e := range evts {
		e.Key = strings.TrimSpace(e.Key)
		if e.Name == "" {
			e.Name = e.Key
		}
		byKey[CanonicalKey(e.Key)] = e
		for _, alias := range e.Aliases {
			if _, taken := byKey[CanonicalKey(alias)]; !taken {
				byKey[CanonicalKey(alias)] = e
			}
		}
	}

	return &StaticCatalog{
		events:   byKey,
		fallback: fallback,
	}
}

func (c *StaticCatalog) GetEvent(ctx context.Context, key string) (Event, error) {
	if e, ok := c.events[CanonicalKey(key)]; ok {
		return e, nil
	}

	if c.fallback == nil {
		return Event{}, NewEventDoesNotExistsError(fmt.Sprintf("Event %q is not in the catalog", key), nil)
	}

	return renamed(*c.fallback, key), nil
}

func renamed(e Event, key string) Event {
	e.Key = strings.TrimSpace(key)
	e.Name = e.Key
	e.Aliases = nil
	return e
}

type fallbackCatalog struct {
	primary  Catalog
	fallback Event
}

// WithFallback serves the fallback details, renamed to the requested key,
// for events the primary catalog does not have. Other errors pass through.
func WithFallback(primary Catalog, fallback Event) Catalog {
	return &fallbackCatalog{
		primary:  primary,
		fallback: fallback,
	}
}

func (c *fallbackCatalog) GetEvent(ctx context.Context, key string) (Event, error) {
	e, err := c.primary.GetEvent(ctx, key)
	if err == nil {
		return e, nil
	}

	var eventErr *Error
	if errors.As(err, &eventErr) && eventErr.Reason == REASON_EVENT_DOES_NOT_EXIST {
		return renamed(c.fallback, key), nil
	}
	return Event{}, err
}

type eventFile struct {
	Key     string   `json:"key"`
	Name    string   `json:"name"`
	Dates   string   `json:"dates"`
	Times   string   `json:"times"`
	Venue   string   `json:"venue"`
	Street  string   `json:"street"`
	City    string   `json:"city"`
	State   string   `json:"state"`
	Postal  string   `json:"postalCode"`
	Country string   `json:"country"`
	Aliases []string `json:"aliases,omitempty"`
}

// LoadEventsFile reads a JSON array of events. Aliases are additional names
// that resolve to the same event and its key.
func LoadEventsFile(path string) ([]Event, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, NewInvalidCatalogError(fmt.Sprintf("Failed to read events file %q", path), err)
	}

	var entries []eventFile
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, NewInvalidCatalogError(fmt.Sprintf("Failed to parse events file %q", path), err)
	}

	var result []Event
	for i, entry := range entries {
		if strings.TrimSpace(entry.Key) == "" {
			return nil, NewInvalidCatalogError(fmt.Sprintf("Event at index %d has no key", i), nil)
		}

		e := Event{
			Key:     strings.TrimSpace(entry.Key),
			Name:    entry.Name,
			Aliases: entry.Aliases,
			Dates:   entry.Dates,
			Times:   entry.Times,
			EventLocation: Location{
				Name: entry.Venue,
				LocAddress: Address{
					Street:     entry.Street,
					City:       entry.City,
					State:      entry.State,
					PostalCode: entry.Postal,
					Country:    entry.Country,
				},
			},
		}
		result = append(result, e)
	}

	return result, nil
}
