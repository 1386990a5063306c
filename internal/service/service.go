package service

import (
	"strings"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/dmehra2102/prod-golang-projects/medstock/internal/service"

// Clock supplies "now" to the view engine and mutation handlers.
type Clock func() time.Time

type options struct {
	clock Clock
	loc   *time.Location
}

type Option func(*options)

// WithClock replaces time.Now.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithLocation sets the zone used to read calendar dates. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.loc = loc }
}

func buildOptions(opts []Option) options {
	o := options{clock: time.Now, loc: time.UTC}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func (o options) now() time.Time {
	return o.clock().In(o.loc)
}

func newTracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

func recordErr(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func requireInventoryRole(actor *domain.Claims) error {
	if actor == nil || strings.TrimSpace(actor.Name) == "" {
		return ErrUnauthenticated
	}
	if !actor.Role.CanManageInventory() {
		return ErrForbidden
	}
	return nil
}
