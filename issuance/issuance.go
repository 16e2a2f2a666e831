package issuance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/International-Combat-Archery-Alliance/event-tickets/events"
	"github.com/International-Combat-Archery-Alliance/event-tickets/metrics"
	"github.com/International-Combat-Archery-Alliance/event-tickets/notification"
	"github.com/International-Combat-Archery-Alliance/event-tickets/registration"
	"github.com/International-Combat-Archery-Alliance/event-tickets/token"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	stepRegister = "register"
	stepMint     = "mint"
	stepRender   = "render"
	stepDispatch = "dispatch"
)

type Minter interface {
	Mint(ctx context.Context, reg registration.Registration) (registration.Registration, token.QRImage, error)
}

type Renderer interface {
	Render(reg registration.Registration, event events.Event, qr token.QRImage) ([]byte, error)
	Store(ctx context.Context, id string, data []byte) (string, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, reg registration.Registration, event events.Event, artifactLocation string, qr token.QRImage) notification.DispatchResult
}

type Request struct {
	Name      string
	Email     string
	EventName string
	Contact   string
	Role      string
}

type Ticket struct {
	ID               string
	QRToken          string
	QRImage          token.QRImage
	ArtifactLocation string
	Dispatch         notification.DispatchResult
}

// Each step only accepts the output of the one before it.
type registered struct {
	reg   registration.Registration
	event events.Event
}

type minted struct {
	registered
	qr token.QRImage
}

type rendered struct {
	minted
	location string
}

type Issuer struct {
	repo       registration.Repository
	catalog    events.Catalog
	minter     Minter
	renderer   Renderer
	dispatcher Dispatcher
	newID      func() string
	now        func() time.Time
	tracer     trace.Tracer
	logger     *slog.Logger
}

type Option func(*Issuer)

func WithIDGenerator(f func() string) Option {
	return func(i *Issuer) {
		i.newID = f
	}
}

func WithClock(f func() time.Time) Option {
	return func(i *Issuer) {
		i.now = f
	}
}

func NewIssuer(repo registration.Repository, catalog events.Catalog, minter Minter, renderer Renderer, dispatcher Dispatcher, logger *slog.Logger, opts ...Option) *Issuer {
	i := &Issuer{
		repo:       repo,
		catalog:    catalog,
		minter:     minter,
		renderer:   renderer,
		dispatcher: dispatcher,
		newID:      func() string { return uuid.New().String() },
		now:        time.Now,
		tracer:     otel.Tracer("github.com/International-Combat-Archery-Alliance/event-tickets/issuance"),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// IssueTicket runs registration, token minting, rendering and dispatch in
// order. A dispatch failure is reported on the returned ticket; every other
// failure stops the pipeline and comes back as an *Error.
func (i *Issuer) IssueTicket(ctx context.Context, req Request) (Ticket, error) {
	ctx, span := i.tracer.Start(ctx, "issuance.IssueTicket")
	defer span.End()

	id := i.newID()
	span.SetAttributes(attribute.String("ticket.id", id))
	logger := i.logger.With(slog.String("ticketId", id))

	r, err := i.register(ctx, id, req)
	if err != nil {
		return i.fail(span, logger, err)
	}

	m, err := i.mint(ctx, r)
	if err != nil {
		return i.fail(span, logger, err)
	}

	rd, err := i.render(ctx, m)
	if err != nil {
		return i.fail(span, logger, err)
	}

	result := i.dispatch(ctx, rd)
	if !result.Delivered {
		span.AddEvent("dispatch failed")
	}

	metrics.RecordIssuance(metrics.OUTCOME_ISSUED)

	return Ticket{
		ID:               rd.reg.ID,
		QRToken:          rd.reg.QRToken,
		QRImage:          rd.qr,
		ArtifactLocation: rd.location,
		Dispatch:         result,
	}, nil
}

func (i *Issuer) fail(span trace.Span, logger *slog.Logger, err *Error) (Ticket, error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(err.Kind))

	switch err.Kind {
	case KIND_DUPLICATE:
		metrics.RecordIssuance(metrics.OUTCOME_DUPLICATE)
		logger.Info("duplicate registration", slog.String("error", err.Error()))
	case KIND_VALIDATION:
		metrics.RecordIssuance(metrics.OUTCOME_INVALID)
		logger.Info("invalid registration", slog.String("error", err.Error()))
	default:
		metrics.RecordIssuance(metrics.OUTCOME_FAILED)
		logger.Error("failed to issue ticket", slog.String("error", err.Error()))
	}

	return Ticket{}, err
}

func (i *Issuer) step(ctx context.Context, name string) (context.Context, func()) {
	ctx, span := i.tracer.Start(ctx, "issuance."+name)
	start := time.Now()
	return ctx, func() {
		metrics.ObserveStep(name, time.Since(start))
		span.End()
	}
}

func (i *Issuer) register(ctx context.Context, id string, req Request) (registered, *Error) {
	ctx, done := i.step(ctx, stepRegister)
	defer done()

	event, err := i.catalog.GetEvent(ctx, strings.TrimSpace(req.EventName))
	if err != nil {
		return registered{}, classifyCatalogError(id, err)
	}

	reg, err := registration.AttemptRegistration(ctx, registration.Request{
		ID:           id,
		RegisteredAt: i.now().UTC(),
		Name:         req.Name,
		Email:        req.Email,
		EventName:    event.Key,
		Contact:      req.Contact,
		Role:         req.Role,
	}, i.repo)
	if err != nil {
		return registered{}, classifyRegistrationError(id, err)
	}

	return registered{
		reg:   reg,
		event: event,
	}, nil
}

func (i *Issuer) mint(ctx context.Context, r registered) (minted, *Error) {
	ctx, done := i.step(ctx, stepMint)
	defer done()

	reg, qr, err := i.minter.Mint(ctx, r.reg)
	if err != nil {
		return minted{}, NewInternalError(r.reg.ID, "Failed to mint ticket token", err)
	}

	r.reg = reg
	return minted{
		registered: r,
		qr:         qr,
	}, nil
}

func (i *Issuer) render(ctx context.Context, m minted) (rendered, *Error) {
	ctx, done := i.step(ctx, stepRender)
	defer done()

	doc, err := i.renderer.Render(m.reg, m.event, m.qr)
	if err != nil {
		return rendered{}, NewInternalError(m.reg.ID, "Failed to render ticket", err)
	}

	location, err := i.renderer.Store(ctx, m.reg.ID, doc)
	if err != nil {
		return rendered{}, NewInternalError(m.reg.ID, "Failed to store ticket", err)
	}

	updated := m.reg
	updated.ArtifactLocation = location
	updated.Version++
	if err := i.repo.UpdateRegistration(ctx, updated); err != nil {
		return rendered{}, NewInternalError(m.reg.ID, fmt.Sprintf("Failed to save ticket location %q", location), err)
	}

	m.reg = updated
	return rendered{
		minted:   m,
		location: location,
	}, nil
}

func (i *Issuer) dispatch(ctx context.Context, r rendered) notification.DispatchResult {
	ctx, done := i.step(ctx, stepDispatch)
	defer done()

	return i.dispatcher.Dispatch(ctx, r.reg, r.event, r.location, r.qr)
}
