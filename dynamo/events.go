package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/International-Combat-Archery-Alliance/event-tickets/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var _ events.Catalog = &DB{}

// eventDynamo holds the display details of an event. Registrations for the
// event share its partition.
type eventDynamo struct {
	PK            string
	SK            string
	Key           string
	Name          string
	Dates         string
	Times         string
	Aliases       []string
	EventLocation events.Location
}

const (
	eventEntityName = "EVENT"
	eventDetailsSK  = "DETAILS"
)

func eventPK(key string) string {
	return fmt.Sprintf("%s#%s", eventEntityName, events.CanonicalKey(key))
}

func newEventDynamo(event events.Event, key string) eventDynamo {
	return eventDynamo{
		PK:            eventPK(key),
		SK:            eventDetailsSK,
		Key:           event.Key,
		Name:          event.Name,
		Dates:         event.Dates,
		Times:         event.Times,
		Aliases:       event.Aliases,
		EventLocation: event.EventLocation,
	}
}

func eventFromEventDynamo(event eventDynamo) events.Event {
	return events.Event{
		Key:           event.Key,
		Name:          event.Name,
		Dates:         event.Dates,
		Times:         event.Times,
		Aliases:       event.Aliases,
		EventLocation: event.EventLocation,
	}
}

// PutEvent stores or replaces the details of an event. Each alias gets its
// own copy of the details so lookups by alias resolve to the canonical key.
func (d *DB) PutEvent(ctx context.Context, event events.Event) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	event.Key = strings.TrimSpace(event.Key)
	if event.Name == "" {
		event.Name = event.Key
	}

	keys := append([]string{event.Key}, event.Aliases...)
	for _, key := range keys {
		item, err := attributevalue.MarshalMap(newEventDynamo(event, key))
		if err != nil {
			return events.NewFailedToWriteError("Failed to translate event to dynamo model", err)
		}

		_, err = d.dynamoClient.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(d.tableName),
			Item:      item,
		})
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return events.NewTimeoutError("PutEvent timed out")
			}
			return events.NewFailedToWriteError(fmt.Sprintf("Failed to write event %q", key), err)
		}
	}

	return nil
}

func (d *DB) GetEvent(ctx context.Context, key string) (events.Event, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	resp, err := d.dynamoClient.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: eventPK(key)},
			"SK": &types.AttributeValueMemberS{Value: eventDetailsSK},
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return events.Event{}, events.NewTimeoutError("GetEvent timed out")
		}
		return events.Event{}, events.NewFailedToFetchError(fmt.Sprintf("Failed to fetch event %q", key), err)
	}

	if len(resp.Item) == 0 {
		return events.Event{}, events.NewEventDoesNotExistsError(fmt.Sprintf("Event %q not found", key), nil)
	}

	var event eventDynamo
	err = attributevalue.UnmarshalMap(resp.Item, &event)
	if err != nil {
		panic(fmt.Sprintf("failed to unmarshal event from dynamo: %s", err))
	}

	return eventFromEventDynamo(event), nil
}
