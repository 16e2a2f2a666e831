//go:generate go tool oapi-codegen --config openapi-codegen-config.yaml openapi.yaml
package api

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/International-Combat-Archery-Alliance/event-tickets/issuance"
	"github.com/International-Combat-Archery-Alliance/event-tickets/registration"
	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var openapiSpec []byte

type Environment int

const (
	LOCAL Environment = iota
	PROD
)

type TicketIssuer interface {
	IssueTicket(ctx context.Context, req issuance.Request) (issuance.Ticket, error)
}

type RegistrationReader interface {
	GetRegistration(ctx context.Context, id string) (registration.Registration, error)
	GetAllRegistrationsForEvent(ctx context.Context, eventKey string, limit int32, cursor *string) (registration.GetAllRegistrationsResponse, error)
}

var _ StrictServerInterface = (*API)(nil)

type API struct {
	issuer         TicketIssuer
	registrations  RegistrationReader
	logger         *slog.Logger
	env            Environment
	adminToken     string
	allowedOrigins []string
}

func NewAPI(issuer TicketIssuer, registrations RegistrationReader, logger *slog.Logger, env Environment, adminToken string, allowedOrigins []string) *API {
	return &API{
		issuer:         issuer,
		registrations:  registrations,
		logger:         logger,
		env:            env,
		adminToken:     adminToken,
		allowedOrigins: allowedOrigins,
	}
}

func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	swagger, err := loader.LoadFromData(openapiSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi spec: %w", err)
	}
	if err := swagger.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid openapi spec: %w", err)
	}
	return swagger, nil
}

// NewHandler returns the validated API routes wrapped in the standard
// middleware chain.
func (a *API) NewHandler() (http.Handler, error) {
	swagger, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	swagger.Servers = nil

	r := http.NewServeMux()
	strictHandler := NewStrictHandlerWithOptions(a, []StrictMiddlewareFunc{}, StrictHTTPServerOptions{
		RequestErrorHandlerFunc:  a.requestErrorHandler,
		ResponseErrorHandlerFunc: a.responseErrorHandler,
	})
	HandlerWithOptions(strictHandler, StdHTTPServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: a.requestErrorHandler,
	})

	return useMiddlewares(r,
		a.openapiValidateMiddleware(swagger),
		a.requestContextMiddleware(),
		a.loggingMiddleware(),
		a.corsMiddleware(),
	), nil
}
