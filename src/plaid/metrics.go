package plaid

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"fintrack-server/src/linking"
)

var (
	plaidMeter           = otel.Meter("fintrack/plaid")
	plaidCallDuration, _ = plaidMeter.Float64Histogram("plaid.request.duration", metric.WithDescription("Plaid API call duration in seconds"), metric.WithUnit("s"))
	plaidCallTotal, _    = plaidMeter.Int64Counter("plaid.request.total", metric.WithDescription("Plaid API calls by operation and outcome"))
)

func observe(ctx context.Context, op string, start time.Time, errp *error) {
	outcome := "success"
	if *errp != nil {
		outcome = string(linking.KindOf(*errp))
	}
	attrs := metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	)
	plaidCallDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	plaidCallTotal.Add(ctx, 1, attrs)
}
