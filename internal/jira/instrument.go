package jira

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/steveyegge/sprint-tasks/internal/telemetry"
)

const scopeName = "github.com/steveyegge/sprint-tasks/jira"

type instruments struct {
	tracer   trace.Tracer
	requests metric.Int64Counter
	dur      metric.Float64Histogram
	errs     metric.Int64Counter
}

func newInstruments() *instruments {
	m := telemetry.Meter(scopeName)
	requests, _ := m.Int64Counter("sprint_tasks.jira.requests",
		metric.WithDescription("Jira API operations executed"),
	)
	dur, _ := m.Float64Histogram("sprint_tasks.jira.duration",
		metric.WithDescription("Jira API operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	errs, _ := m.Int64Counter("sprint_tasks.jira.errors",
		metric.WithDescription("Jira API operations that failed"),
	)
	return &instruments{
		tracer:   telemetry.Tracer(scopeName),
		requests: requests,
		dur:      dur,
		errs:     errs,
	}
}

// op starts a span and counts the named API operation.
func (c *Client) op(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span, time.Time) {
	if c.metrics == nil {
		c.metrics = newInstruments()
	}
	all := append([]attribute.KeyValue{attribute.String("jira.operation", name)}, attrs...)
	ctx, span := c.metrics.tracer.Start(ctx, "jira."+name,
		trace.WithAttributes(all...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
	c.metrics.requests.Add(ctx, 1, metric.WithAttributes(all...))
	return ctx, span, time.Now()
}

// done ends the span and records duration and the error, if any.
func (c *Client) done(ctx context.Context, span trace.Span, start time.Time, err error, name string) {
	attrs := []attribute.KeyValue{attribute.String("jira.operation", name)}
	if se, ok := AsStatusError(err); ok {
		attrs = append(attrs, attribute.Int("http.status_code", se.StatusCode))
	}
	c.metrics.dur.Record(ctx, float64(time.Since(start).Milliseconds()), metric.WithAttributes(attrs...))
	if err != nil {
		span.SetAttributes(attrs...)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.metrics.errs.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	span.End()
}
