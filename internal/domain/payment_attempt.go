package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodNone        PaymentMethod = "none"
	PaymentMethodCard        PaymentMethod = "card"
	PaymentMethodPisp        PaymentMethod = "pisp"
	PaymentMethodLightning   PaymentMethod = "lightning"
	PaymentMethodDirectDebit PaymentMethod = "directDebit"
)

type PaymentResult string

const (
	PaymentResultNone          PaymentResult = "none"
	PaymentResultAuthorized    PaymentResult = "authorized"
	PaymentResultPartiallyPaid PaymentResult = "partially_paid"
	PaymentResultFullyPaid     PaymentResult = "fully_paid"
	PaymentResultOverPaid      PaymentResult = "over_paid"
)

// PaymentAttempt is a derived view of one try at paying a request. It is rebuilt
// from the event log on every read and never stored.
type PaymentAttempt struct {
	AttemptKey       string
	PaymentRequestID uuid.UUID
	InitiatedAt      *time.Time
	PaymentMethod    PaymentMethod
	Currency         Currency
	AttemptedAmount  decimal.Decimal
	PaymentProcessor PaymentProcessor

	InstitutionID   string
	InstitutionName string
	TokenisedCardID string
	WalletName      string

	CardAuthorisedAt                     *time.Time
	CardAuthorisedAmount                 decimal.Decimal
	CardAuthoriseFailedAt                *time.Time
	CardPayerAuthenticationSetupFailedAt *time.Time

	AuthorisedAt     *time.Time
	AuthorisedAmount decimal.Decimal

	SettledAt               *time.Time
	SettledAmount           decimal.Decimal
	SettleFailedAt          *time.Time
	ReconciledTransactionID string

	CaptureAttempts []CaptureAttempt
	RefundAttempts  []RefundAttempt
}

type CaptureAttempt struct {
	CapturedAt          *time.Time
	CapturedAmount      decimal.Decimal
	CaptureFailedAt     *time.Time
	CaptureFailureError string
}

type RefundAttempt struct {
	RefundPayoutID        string
	RefundInitiatedAt     *time.Time
	RefundInitiatedAmount decimal.Decimal
	RefundSettledAt       *time.Time
	RefundSettledAmount   decimal.Decimal
	RefundCancelledAt     *time.Time
	RefundCancelledAmount decimal.Decimal
	IsCardVoid            bool
}
