package usecase

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/sanjanarawald/CreditApprovalSystem/internal/application/usecase"

var (
	tracer = otel.Tracer(instrumentationName)
	meter  = otel.Meter(instrumentationName)

	// Instruments created against the global meter follow whatever provider
	// is installed later with otel.SetMeterProvider.
	decisionCounter, _ = meter.Int64Counter(
		"credit_eligibility_decisions",
		metric.WithDescription("Eligibility decisions taken, by outcome."),
	)
	loansCreatedCounter, _ = meter.Int64Counter(
		"credit_loans_created",
		metric.WithDescription("Loans persisted after approval."),
	)
)

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// endSpan records err on the span, if any, and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func recordDecision(ctx context.Context, operation string, approved bool) {
	decisionCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("approved", strconv.FormatBool(approved)),
	))
}

func customerAttr(id int64) attribute.KeyValue {
	return attribute.Int64("credit.customer_id", id)
}
