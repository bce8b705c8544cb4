package attempt

import (
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/payment-attempts/internal/domain"
)

// GetPaymentAttemptStatus reports how much of the attempted amount was
// actually received, net of settled refunds.
func GetPaymentAttemptStatus(a domain.PaymentAttempt) domain.PaymentResult {
	var received decimal.Decimal
	switch a.PaymentMethod {
	case domain.PaymentMethodPisp, domain.PaymentMethodLightning:
		received = a.SettledAmount
	case domain.PaymentMethodCard:
		received = a.CardAuthorisedAmount
	}

	refunded := decimal.Zero
	for _, r := range a.RefundAttempts {
		refunded = refunded.Add(r.RefundSettledAmount)
	}
	paid := received.Sub(refunded)

	switch {
	case paid.IsPositive() && paid.Equal(a.AttemptedAmount):
		return domain.PaymentResultFullyPaid
	case paid.IsPositive() && paid.GreaterThan(a.AttemptedAmount):
		return domain.PaymentResultOverPaid
	case paid.IsPositive() && paid.LessThan(a.AttemptedAmount):
		return domain.PaymentResultPartiallyPaid
	case a.SettleFailedAt != nil:
		return domain.PaymentResultNone
	case a.SettledAt == nil && a.AuthorisedAt != nil:
		return domain.PaymentResultAuthorized
	default:
		return domain.PaymentResultNone
	}
}

// IsCardPaymentVoided reports whether nothing of the card authorisation is
// left outstanding after captures and voids.
func IsCardPaymentVoided(a domain.PaymentAttempt) bool {
	return GetAmountAvailableToVoid(a).IsZero()
}

func GetAmountAvailableToRefund(a domain.PaymentAttempt) decimal.Decimal {
	return totalCaptured(a).Sub(totalRefunded(a, false))
}

func GetAmountAvailableToVoid(a domain.PaymentAttempt) decimal.Decimal {
	return a.CardAuthorisedAmount.Sub(totalCaptured(a)).Sub(totalRefunded(a, true))
}

func totalCaptured(a domain.PaymentAttempt) decimal.Decimal {
	total := decimal.Zero
	for _, c := range a.CaptureAttempts {
		total = total.Add(c.CapturedAmount)
	}
	return total
}

func totalRefunded(a domain.PaymentAttempt, voids bool) decimal.Decimal {
	total := decimal.Zero
	for _, r := range a.RefundAttempts {
		if r.IsCardVoid == voids {
			total = total.Add(r.RefundSettledAmount)
		}
	}
	return total
}
