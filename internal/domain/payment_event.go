package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentEventType string

const (
	PaymentEventTypeUnknown PaymentEventType = "unknown"

	PaymentEventTypeCardPayerAuthenticationSetup   PaymentEventType = "card_payer_authentication_setup"
	PaymentEventTypeCardPayerAuthenticationFailure PaymentEventType = "card_payer_authentication_failure"
	PaymentEventTypeCardAuthorization              PaymentEventType = "card_authorization"
	PaymentEventTypeCardCapture                    PaymentEventType = "card_capture"
	PaymentEventTypeCardSale                       PaymentEventType = "card_sale"
	PaymentEventTypeCardVoid                       PaymentEventType = "card_void"
	PaymentEventTypeCardRefund                     PaymentEventType = "card_refund"
	PaymentEventTypeCardWebhook                    PaymentEventType = "card_webhook"

	PaymentEventTypePispInitiate        PaymentEventType = "pisp_initiate"
	PaymentEventTypePispCallback        PaymentEventType = "pisp_callback"
	PaymentEventTypePispWebhook         PaymentEventType = "pisp_webhook"
	PaymentEventTypePispSettle          PaymentEventType = "pisp_settle"
	PaymentEventTypePispSettleFailure   PaymentEventType = "pisp_settle_failure"
	PaymentEventTypePispRefundInitiated PaymentEventType = "pisp_refund_initiated"
	PaymentEventTypePispRefundSettled   PaymentEventType = "pisp_refund_settled"
	PaymentEventTypePispRefundCancelled PaymentEventType = "pisp_refund_cancelled"

	PaymentEventTypeLightningInvoiceCreated PaymentEventType = "lightning_invoice_created"
	PaymentEventTypeLightningInvoicePaid    PaymentEventType = "lightning_invoice_paid"
	PaymentEventTypeLightningInvoiceExpired PaymentEventType = "lightning_invoice_expired"

	PaymentEventTypeDirectDebitPaymentInitiated PaymentEventType = "direct_debit_payment_initiated"
	PaymentEventTypeDirectDebitPaymentCreated   PaymentEventType = "direct_debit_payment_created"
	PaymentEventTypeDirectDebitPaymentFailed    PaymentEventType = "direct_debit_payment_failed"
	PaymentEventTypeDirectDebitPaymentConfirmed PaymentEventType = "direct_debit_payment_confirmed"
	PaymentEventTypeDirectDebitPaymentPaidOut   PaymentEventType = "direct_debit_payment_paid_out"
)

type PaymentProcessor string

const (
	PaymentProcessorNone        PaymentProcessor = "none"
	PaymentProcessorCyberSource PaymentProcessor = "cybersource"
	PaymentProcessorCheckout    PaymentProcessor = "checkout"
	PaymentProcessorStripe      PaymentProcessor = "stripe"
	PaymentProcessorModulr      PaymentProcessor = "modulr"
	PaymentProcessorPlaid       PaymentProcessor = "plaid"
	PaymentProcessorYapily      PaymentProcessor = "yapily"
	PaymentProcessorTrueLayer   PaymentProcessor = "truelayer"
	PaymentProcessorGoCardless  PaymentProcessor = "gocardless"
	PaymentProcessorLightning   PaymentProcessor = "lightning"
	PaymentProcessorSimulator   PaymentProcessor = "simulator"
)

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyBTC Currency = "BTC"
)

// PaymentEvent is one immutable entry in a payment request's event log.
// Correlation keys are empty when the processor did not supply them.
type PaymentEvent struct {
	ID               uuid.UUID
	PaymentRequestID uuid.UUID
	EventType        PaymentEventType
	InsertedAt       time.Time
	Amount           decimal.Decimal
	Currency         Currency
	Status           string
	ErrorMessage     string
	ErrorReason      string
	PaymentProcessor PaymentProcessor

	CardAuthorizationResponseID string
	CardRequestID               string
	PispPaymentInitiationID     string
	LightningRHash              string
	RefundPayoutID              string

	TokenisedCardID string
	WalletName      string

	PispBankStatus                   string
	PaymentInitiationInstitutionID   string
	PaymentInitiationInstitutionName string

	ReconciledTransactionID string
}
