// Package collaborators holds the external analysis services the onboarding
// workflow consults, and the guard every remote call goes through.
package collaborators

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"kycflow/pkg/platform/circuit"
	"kycflow/pkg/requestcontext"
)

const tracerName = "kycflow/collaborators"

// Source says where a guarded result came from.
type Source string

const (
	SourcePrimary  Source = "primary"
	SourceFallback Source = "fallback"
	// SourceOpen means the breaker was open and no call was made.
	SourceOpen Source = "circuit_open"
)

// Observer receives one observation per guarded call.
type Observer interface {
	ObserveCollaboratorCall(collaborator string, source string, d time.Duration)
}

type GuardOption func(*Guard)

func WithGuardLogger(logger *slog.Logger) GuardOption {
	return func(g *Guard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

func WithObserver(o Observer) GuardOption {
	return func(g *Guard) { g.observer = o }
}

func WithBreaker(b *circuit.Breaker) GuardOption {
	return func(g *Guard) {
		if b != nil {
			g.breaker = b
		}
	}
}

// Guard wraps one collaborator with a circuit breaker and a fallback. A
// transport error, a non-JSON answer and a schema violation all count as
// failures.
type Guard struct {
	name     string
	breaker  *circuit.Breaker
	logger   *slog.Logger
	observer Observer
	tracer   trace.Tracer
}

func NewGuard(name string, opts ...GuardOption) *Guard {
	g := &Guard{
		name:    name,
		breaker: circuit.New(name),
		logger:  slog.Default(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Guard) Name() string { return g.name }

// Breaker exposes the breaker for health reporting.
func (g *Guard) Breaker() *circuit.Breaker { return g.breaker }

// Call runs call unless the breaker is open, and returns fallback() whenever
// the primary cannot produce a result. It never returns an error.
func Call[T any](ctx context.Context, g *Guard, call func(context.Context) (T, error), fallback func() T) (T, Source) {
	ctx, span := g.tracer.Start(ctx, g.name)
	defer span.End()
	start := time.Now()

	if !g.breaker.Allow() {
		span.SetAttributes(attribute.String("collaborator.source", string(SourceOpen)))
		g.observe(SourceOpen, start)
		return fallback(), SourceOpen
	}

	out, err := call(ctx)
	if err != nil {
		_, change := g.breaker.RecordFailure()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("collaborator.source", string(SourceFallback)))
		g.logger.WarnContext(ctx, "collaborator call failed, serving fallback",
			"collaborator", g.name,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		if change.Opened {
			g.logger.ErrorContext(ctx, "circuit opened", "collaborator", g.name)
		}
		g.observe(SourceFallback, start)
		return fallback(), SourceFallback
	}

	if _, change := g.breaker.RecordSuccess(); change.Closed {
		g.logger.InfoContext(ctx, "circuit closed", "collaborator", g.name)
	}
	span.SetAttributes(attribute.String("collaborator.source", string(SourcePrimary)))
	g.observe(SourcePrimary, start)
	return out, SourcePrimary
}

func (g *Guard) observe(source Source, start time.Time) {
	if g.observer != nil {
		g.observer.ObserveCollaboratorCall(g.name, string(source), time.Since(start))
	}
}
