package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/josh-kwaku/payment-attempts/internal/attempt"
	"github.com/josh-kwaku/payment-attempts/internal/domain"
	"github.com/josh-kwaku/payment-attempts/internal/logging"
	"github.com/josh-kwaku/payment-attempts/internal/metrics"
)

const tracerName = "payment-attempts"

type PaymentAttemptService struct {
	events paymentEventRepository
	tracer trace.Tracer
}

func NewPaymentAttemptService(events paymentEventRepository) *PaymentAttemptService {
	return &PaymentAttemptService{
		events: events,
		tracer: otel.Tracer(tracerName),
	}
}

// GetPaymentAttempts loads the event log of a payment request and replays it.
// A request with no events at all is reported as not found.
func (s *PaymentAttemptService) GetPaymentAttempts(ctx context.Context, paymentRequestID uuid.UUID) (attempt.Result, error) {
	ctx, span := s.tracer.Start(ctx, "GetPaymentAttempts",
		trace.WithAttributes(attribute.String("payment_request_id", paymentRequestID.String())),
	)
	defer span.End()

	log := logging.FromContext(ctx).With("payment_request_id", paymentRequestID)

	events, err := s.events.GetByPaymentRequestID(ctx, paymentRequestID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load events")
		metrics.RecordReconstruction("error")
		return attempt.Result{}, fmt.Errorf("GetPaymentAttempts: %w", err)
	}
	if len(events) == 0 {
		metrics.RecordReconstruction("not_found")
		return attempt.Result{}, fmt.Errorf("GetPaymentAttempts: %w", domain.ErrNotFound)
	}

	result := attempt.Reconstruct(events)

	span.SetAttributes(
		attribute.Int("events", len(events)),
		attribute.Int("attempts", len(result.Attempts)),
		attribute.Int("events_excluded", result.Diagnostics.Excluded()),
	)
	recordDiagnostics(result.Diagnostics)
	for _, a := range result.Attempts {
		metrics.RecordAttemptBuilt(string(a.PaymentMethod))
	}
	metrics.RecordReconstruction("ok")

	d := result.Diagnostics
	if d.Excluded() > 0 {
		log.Warn("events excluded from reconstruction: missing correlation key",
			"card", d.ExcludedCardEvents,
			"pisp", d.ExcludedPispEvents,
			"lightning", d.ExcludedLightningEvents,
		)
	}
	if d.UnbuiltDirectDebitEvents > 0 || d.UnclassifiedEvents > 0 {
		log.Debug("events without an attempt builder",
			"direct_debit", d.UnbuiltDirectDebitEvents,
			"unclassified", d.UnclassifiedEvents,
		)
	}

	log.Info("payment attempts reconstructed",
		"events", len(events),
		"attempts", len(result.Attempts),
	)
	return result, nil
}

func recordDiagnostics(d attempt.Diagnostics) {
	metrics.RecordEventsExcluded("card_missing_key", d.ExcludedCardEvents)
	metrics.RecordEventsExcluded("pisp_missing_key", d.ExcludedPispEvents)
	metrics.RecordEventsExcluded("lightning_missing_key", d.ExcludedLightningEvents)
	metrics.RecordEventsExcluded("direct_debit_unbuilt", d.UnbuiltDirectDebitEvents)
	metrics.RecordEventsExcluded("unclassified", d.UnclassifiedEvents)
}
