package attempt

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/payment-attempts/internal/domain"
)

var (
	testPaymentRequestID = uuid.MustParse("6f1c2a4e-8d3b-4c5a-9e7f-0a1b2c3d4e5f")
	baseTime             = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
)

func at(minutes int) time.Time {
	return baseTime.Add(time.Duration(minutes) * time.Minute)
}

func amount(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func cardEvent(t domain.PaymentEventType, authID, status string, amt int64, minute int) domain.PaymentEvent {
	return domain.PaymentEvent{
		ID:                          uuid.New(),
		PaymentRequestID:            testPaymentRequestID,
		EventType:                   t,
		InsertedAt:                  at(minute),
		Amount:                      amount(amt),
		Currency:                    domain.CurrencyEUR,
		Status:                      status,
		PaymentProcessor:            domain.PaymentProcessorCyberSource,
		CardAuthorizationResponseID: authID,
	}
}

func checkoutEvent(t domain.PaymentEventType, authID, status string, amt int64, minute int) domain.PaymentEvent {
	e := cardEvent(t, authID, status, amt, minute)
	e.PaymentProcessor = domain.PaymentProcessorCheckout
	return e
}

func pispEvent(t domain.PaymentEventType, initiationID string, processor domain.PaymentProcessor, status string, amt int64, minute int) domain.PaymentEvent {
	return domain.PaymentEvent{
		ID:                      uuid.New(),
		PaymentRequestID:        testPaymentRequestID,
		EventType:               t,
		InsertedAt:              at(minute),
		Amount:                  amount(amt),
		Currency:                domain.CurrencyGBP,
		Status:                  status,
		PaymentProcessor:        processor,
		PispPaymentInitiationID: initiationID,
	}
}

func refundEvent(t domain.PaymentEventType, initiationID, payoutID string, amt int64, minute int) domain.PaymentEvent {
	e := pispEvent(t, initiationID, domain.PaymentProcessorYapily, "", amt, minute)
	e.RefundPayoutID = payoutID
	return e
}

func lightningEvent(t domain.PaymentEventType, rHash string, amt int64, minute int) domain.PaymentEvent {
	return domain.PaymentEvent{
		ID:               uuid.New(),
		PaymentRequestID: testPaymentRequestID,
		EventType:        t,
		InsertedAt:       at(minute),
		Amount:           amount(amt),
		Currency:         domain.CurrencyBTC,
		PaymentProcessor: domain.PaymentProcessorLightning,
		LightningRHash:   rHash,
	}
}
