// Package attempt rebuilds payment attempts from a payment request's event log.
// Every call is a pure fold over the supplied events; nothing is cached or stored.
package attempt

import "github.com/josh-kwaku/payment-attempts/internal/domain"

type Rail string

const (
	RailCard         Rail = "card"
	RailPisp         Rail = "pisp"
	RailLightning    Rail = "lightning"
	RailDirectDebit  Rail = "direct_debit"
	RailUnclassified Rail = "unclassified"
)

var railByEventType = map[domain.PaymentEventType]Rail{
	domain.PaymentEventTypeCardPayerAuthenticationSetup:   RailCard,
	domain.PaymentEventTypeCardPayerAuthenticationFailure: RailCard,
	domain.PaymentEventTypeCardAuthorization:              RailCard,
	domain.PaymentEventTypeCardCapture:                    RailCard,
	domain.PaymentEventTypeCardSale:                       RailCard,
	domain.PaymentEventTypeCardVoid:                       RailCard,
	domain.PaymentEventTypeCardRefund:                     RailCard,
	domain.PaymentEventTypeCardWebhook:                    RailCard,

	domain.PaymentEventTypePispInitiate:        RailPisp,
	domain.PaymentEventTypePispCallback:        RailPisp,
	domain.PaymentEventTypePispWebhook:         RailPisp,
	domain.PaymentEventTypePispSettle:          RailPisp,
	domain.PaymentEventTypePispSettleFailure:   RailPisp,
	domain.PaymentEventTypePispRefundInitiated: RailPisp,
	domain.PaymentEventTypePispRefundSettled:   RailPisp,
	domain.PaymentEventTypePispRefundCancelled: RailPisp,

	domain.PaymentEventTypeLightningInvoiceCreated: RailLightning,
	domain.PaymentEventTypeLightningInvoicePaid:    RailLightning,
	domain.PaymentEventTypeLightningInvoiceExpired: RailLightning,

	domain.PaymentEventTypeDirectDebitPaymentInitiated: RailDirectDebit,
	domain.PaymentEventTypeDirectDebitPaymentCreated:   RailDirectDebit,
	domain.PaymentEventTypeDirectDebitPaymentFailed:    RailDirectDebit,
	domain.PaymentEventTypeDirectDebitPaymentConfirmed: RailDirectDebit,
	domain.PaymentEventTypeDirectDebitPaymentPaidOut:   RailDirectDebit,
}

// Classify tags an event type with the payment rail it belongs to.
func Classify(t domain.PaymentEventType) Rail {
	if r, ok := railByEventType[t]; ok {
		return r
	}
	return RailUnclassified
}

// isCardAuthentication reports whether the event belongs to 3-D Secure payer
// authentication, which happens before the processor assigns an authorization id.
func isCardAuthentication(t domain.PaymentEventType) bool {
	return t == domain.PaymentEventTypeCardPayerAuthenticationSetup ||
		t == domain.PaymentEventTypeCardPayerAuthenticationFailure
}
