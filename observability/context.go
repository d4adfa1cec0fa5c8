package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/textstream/errors"
)

// Run statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Run holds observability context for one pipeline run.
type Run struct {
	ServiceName string
	ID          string
	StartTime   time.Time
	Metrics     *Metrics
}

// NewRun creates a new run context.
// If metrics is nil, metric recording is silently skipped.
func NewRun(serviceName, id string, metrics *Metrics) *Run {
	return &Run{
		ServiceName: serviceName,
		ID:          id,
		StartTime:   time.Now(),
		Metrics:     metrics,
	}
}

type runKey struct{}

// WithRun stores a Run in the context.
func WithRun(ctx context.Context, r *Run) context.Context {
	return context.WithValue(ctx, runKey{}, r)
}

// RunFromContext retrieves the Run from context, or nil.
func RunFromContext(ctx context.Context) *Run {
	if r, ok := ctx.Value(runKey{}).(*Run); ok {
		return r
	}
	return nil
}

// Start starts the run's span and stores the run in the returned context.
func (r *Run) Start(ctx context.Context, spanName string) (context.Context, trace.Span) {
	ctx, span := StartSpan(WithRun(ctx, r), spanName)
	span.SetAttributes(
		attribute.String(AttrServiceName, r.ServiceName),
		attribute.String(AttrRunID, r.ID),
	)
	return ctx, span
}

// End ends the span and records the run's outcome. A non-nil err marks the
// run failed under its AppError code, or INTERNAL_ERROR for anything else.
func (r *Run) End(ctx context.Context, span trace.Span, err error) {
	duration := time.Since(r.StartTime)
	status := StatusOK

	if err != nil {
		status = StatusError
		code := string(errors.Wrap(err).Code)
		SetSpanError(trace.ContextWithSpan(ctx, span), err)
		span.SetAttributes(
			attribute.String(AttrErrorCode, code),
			attribute.String(AttrErrorMessage, err.Error()),
		)
		if r.Metrics != nil {
			r.Metrics.RecordError(ctx, code)
		}
	}

	span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	span.End()

	if r.Metrics != nil {
		r.Metrics.RecordRun(ctx, status, duration)
	}
}

// Duration returns the elapsed time since the run started.
func (r *Run) Duration() time.Duration {
	return time.Since(r.StartTime)
}
