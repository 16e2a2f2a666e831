package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/International-Combat-Archery-Alliance/event-tickets/registration"
	"github.com/International-Combat-Archery-Alliance/event-tickets/slices"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var _ registration.Repository = &DB{}

// Registrations live under their event keyed by email, which makes the
// natural key the primary key. GSI1 indexes them by ticket id.
type registrationDynamo struct {
	PK     string
	SK     string
	GSI1PK string
	GSI1SK string

	ID               string
	Version          int
	RegisteredAt     time.Time
	Name             string
	Email            string
	EventName        string
	Contact          string
	Role             string
	QRToken          string
	ArtifactLocation string
	PaymentStatus    string
}

const (
	registrationEntityName = "REGISTRATION"
)

func registrationPK(eventKey string) string {
	return eventPK(eventKey)
}

func registrationSK(email string) string {
	return fmt.Sprintf("%s#%s", registrationEntityName, email)
}

func registrationGSI1PK(id string) string {
	return fmt.Sprintf("%s#%s", registrationEntityName, id)
}

func registrationToDynamo(reg registration.Registration) registrationDynamo {
	return registrationDynamo{
		PK:               registrationPK(reg.EventName),
		SK:               registrationSK(reg.Email),
		GSI1PK:           registrationGSI1PK(reg.ID),
		GSI1SK:           registrationGSI1PK(reg.ID),
		ID:               reg.ID,
		Version:          reg.Version,
		RegisteredAt:     reg.RegisteredAt,
		Name:             reg.Name,
		Email:            reg.Email,
		EventName:        reg.EventName,
		Contact:          reg.Contact,
		Role:             reg.Role,
		QRToken:          reg.QRToken,
		ArtifactLocation: reg.ArtifactLocation,
		PaymentStatus:    reg.PaymentStatus.String(),
	}
}

func dynamoToRegistration(dynReg registrationDynamo) registration.Registration {
	status, err := registration.ParsePaymentStatus(dynReg.PaymentStatus)
	if err != nil {
		panic(fmt.Sprintf("invalid payment status stored for registration %q: %s", dynReg.ID, err))
	}

	return registration.Registration{
		ID:               dynReg.ID,
		Version:          dynReg.Version,
		RegisteredAt:     dynReg.RegisteredAt,
		Name:             dynReg.Name,
		Email:            dynReg.Email,
		EventName:        dynReg.EventName,
		Contact:          dynReg.Contact,
		Role:             dynReg.Role,
		QRToken:          dynReg.QRToken,
		ArtifactLocation: dynReg.ArtifactLocation,
		PaymentStatus:    status,
	}
}

func (d *DB) CreateRegistration(ctx context.Context, reg registration.Registration) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	dynamoReg := registrationToDynamo(reg)

	item, err := attributevalue.MarshalMap(dynamoReg)
	if err != nil {
		return registration.NewFailedToTranslateToDBModelError("Failed to translate registration to dynamo model", err)
	}
	expr := exprMustBuild(expression.NewBuilder().
		WithCondition(newEntityVersionConditional(dynamoReg.Version)))

	_, err = d.dynamoClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(d.tableName),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return registration.NewTimeoutError("CreateRegistration timed out")
		}
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return registration.NewRegistrationAlreadyExistsError(fmt.Sprintf("Registration for %q at event %q already exists", reg.Email, reg.EventName), err)
		}
		return registration.NewFailedToWriteError("Failed PutItem call", err)
	}

	return nil
}

func (d *DB) UpdateRegistration(ctx context.Context, reg registration.Registration) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	dynamoReg := registrationToDynamo(reg)

	item, err := attributevalue.MarshalMap(dynamoReg)
	if err != nil {
		return registration.NewFailedToTranslateToDBModelError("Failed to translate registration to dynamo model", err)
	}
	expr := exprMustBuild(expression.NewBuilder().
		WithCondition(existingEntityVersionConditional(dynamoReg.Version)))

	_, err = d.dynamoClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(d.tableName),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return registration.NewTimeoutError("UpdateRegistration timed out")
		}
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return registration.NewVersionConflictError(fmt.Sprintf("Registration %q is not at version %d", reg.ID, reg.Version-1), err)
		}
		return registration.NewFailedToWriteError("Failed PutItem call", err)
	}

	return nil
}

func (d *DB) GetRegistrationByEmail(ctx context.Context, eventKey string, email string) (registration.Registration, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	resp, err := d.dynamoClient.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: registrationPK(eventKey)},
			"SK": &types.AttributeValueMemberS{Value: registrationSK(email)},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return registration.Registration{}, registration.NewTimeoutError("GetRegistrationByEmail timed out")
		}
		return registration.Registration{}, registration.NewFailedToFetchError(fmt.Sprintf("Failed to fetch registration for event %q and email %s", eventKey, email), err)
	}

	if len(resp.Item) == 0 {
		return registration.Registration{}, registration.NewRegistrationDoesNotExistsError(fmt.Sprintf("Registration for event %q and email %s not found", eventKey, email), nil)
	}

	var dynReg registrationDynamo
	err = attributevalue.UnmarshalMap(resp.Item, &dynReg)
	if err != nil {
		panic(fmt.Sprintf("failed to unmarshal registration from dynamo: %s", err))
	}

	return dynamoToRegistration(dynReg), nil
}

func (d *DB) GetRegistration(ctx context.Context, id string) (registration.Registration, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	keyCond := expression.Key("GSI1PK").Equal(expression.Value(registrationGSI1PK(id)))
	expr := exprMustBuild(expression.NewBuilder().WithKeyCondition(keyCond))

	result, err := d.dynamoClient.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(d.tableName),
		IndexName:                 aws.String(gsi1),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return registration.Registration{}, registration.NewTimeoutError("GetRegistration timed out")
		}
		return registration.Registration{}, registration.NewFailedToFetchError(fmt.Sprintf("Failed to fetch registration with id %q", id), err)
	}

	if len(result.Items) == 0 {
		return registration.Registration{}, registration.NewRegistrationDoesNotExistsError(fmt.Sprintf("Registration with id %q not found", id), nil)
	}

	var dynReg registrationDynamo
	err = attributevalue.UnmarshalMap(result.Items[0], &dynReg)
	if err != nil {
		panic(fmt.Sprintf("failed to unmarshal registration from dynamo: %s", err))
	}

	return dynamoToRegistration(dynReg), nil
}

func (d *DB) GetAllRegistrationsForEvent(ctx context.Context, eventKey string, limit int32, cursor *string) (registration.GetAllRegistrationsResponse, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	keyCond := expression.Key("PK").Equal(expression.Value(registrationPK(eventKey))).
		And(expression.Key("SK").BeginsWith(registrationEntityName))

	expr := exprMustBuild(expression.NewBuilder().WithKeyCondition(keyCond))

	var startKey map[string]types.AttributeValue
	if cursor != nil {
		var err error
		startKey, err = decodeCursor(primaryKeyAttributes, *cursor)
		if err != nil {
			return registration.GetAllRegistrationsResponse{}, registration.NewInvalidCursorError("Invalid cursor", err)
		}
		if pk := startKey["PK"].(*types.AttributeValueMemberS).Value; pk != registrationPK(eventKey) {
			return registration.GetAllRegistrationsResponse{}, registration.NewInvalidCursorError(fmt.Sprintf("Cursor is for a different event than %q", eventKey), nil)
		}
	}

	result, err := d.dynamoClient.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(d.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		// Fetch 1 more than limit to check if there is another page or not
		Limit:             aws.Int32(limit + 1),
		ExclusiveStartKey: startKey,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return registration.GetAllRegistrationsResponse{}, registration.NewTimeoutError("GetAllRegistrationsForEvent timed out")
		}
		return registration.GetAllRegistrationsResponse{}, registration.NewFailedToFetchError("Failed to fetch registrations from dynamo", err)
	}

	var dynamoItems []registrationDynamo
	err = attributevalue.UnmarshalListOfMaps(result.Items, &dynamoItems)
	if err != nil {
		panic(fmt.Sprintf("failed to unmarshal dynamo registrations: %s", err))
	}

	hasNextPage := len(dynamoItems) > int(limit)

	var newCursor *string
	if hasNextPage {
		// The extra item was only fetched to detect the next page, so the
		// cursor points at the last item actually returned.
		lastItemGivenToUser := result.Items[int(limit)-1]
		c, err := encodeCursor(primaryKeyAttributes, lastItemGivenToUser)
		if err != nil {
			panic(fmt.Sprintf("failed to make cursor from lastEvalKey: %s", err))
		}
		newCursor = &c
	}

	return registration.GetAllRegistrationsResponse{
		Data: slices.Map(dynamoItems[:min(int(limit), len(dynamoItems))], func(v registrationDynamo) registration.Registration {
			return dynamoToRegistration(v)
		}),
		Cursor:      newCursor,
		HasNextPage: hasNextPage,
	}, nil
}
