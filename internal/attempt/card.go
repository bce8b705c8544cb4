package attempt

import (
	"time"

	"github.com/josh-kwaku/payment-attempts/internal/domain"
)

type cardGroup struct {
	key    string
	events []domain.PaymentEvent
	// setups indexes payer-authentication setup events by card request id.
	setups map[string]domain.PaymentEvent
}

type cardReducer func(g cardGroup, a domain.PaymentAttempt) domain.PaymentAttempt

// cardReducers run in this order. Void and refund both replace RefundAttempts,
// so a group with successful voids and refunds keeps only the refunds.
var cardReducers = []cardReducer{
	applyCardAuthorisation,
	applyCardCaptures,
	applyCardSales,
	applyCardWebhooks,
	applyCardVoids,
	applyCardRefunds,
	applyCardWallet,
}

func buildCardAttempt(g cardGroup) domain.PaymentAttempt {
	a := newAttempt(g.key, domain.PaymentMethodCard, g.events)
	for _, reduce := range cardReducers {
		a = reduce(g, a)
	}
	return a
}

func applyCardAuthorisation(g cardGroup, a domain.PaymentAttempt) domain.PaymentAttempt {
	auth, ok := first(g.events, domain.PaymentEventTypeCardAuthorization)
	if !ok {
		return a
	}

	source := auth
	if setup, ok := g.setups[auth.CardRequestID]; ok && auth.CardRequestID != "" {
		source = setup
	}
	a = withIdentity(a, source, domain.PaymentMethodCard)
	if a.TokenisedCardID == "" {
		a.TokenisedCardID = auth.TokenisedCardID
	}

	switch outcomeOf(auth, stageAuthorise) {
	case OutcomeAuthorised, OutcomeSoftDeclined, OutcomeCardVerified:
		a.CardAuthorisedAt = timePtr(auth.InsertedAt)
		a.CardAuthorisedAmount = auth.Amount
	default:
		a.CardAuthoriseFailedAt = timePtr(auth.InsertedAt)
	}
	return a
}

func applyCardCaptures(g cardGroup, a domain.PaymentAttempt) domain.PaymentAttempt {
	for _, e := range filter(g.events, domain.PaymentEventTypeCardCapture) {
		if outcomeOf(e, stageCapture) == OutcomeCaptured {
			a.CaptureAttempts = append(a.CaptureAttempts, capturedAttempt(e))
			continue
		}
		a.CaptureAttempts = append(a.CaptureAttempts, failedCaptureAttempt(e))
		a.CardAuthoriseFailedAt = timePtr(e.InsertedAt)
	}
	return a
}

// applyCardSales handles combined authorise-and-capture events. The first
// successful sale ends the scan; soft declines authorise without capturing.
func applyCardSales(g cardGroup, a domain.PaymentAttempt) domain.PaymentAttempt {
	sales := filter(g.events, domain.PaymentEventTypeCardSale)
	if len(sales) == 0 {
		return a
	}
	if a.InitiatedAt == nil {
		a = withIdentity(a, sales[0], domain.PaymentMethodCard)
	}

	for _, e := range sales {
		if outcomeOf(e, stageCapture) == OutcomeCaptured {
			if a.CardAuthorisedAt == nil {
				a.CardAuthorisedAt = timePtr(e.InsertedAt)
				a.CardAuthorisedAmount = e.Amount
			}
			a.CaptureAttempts = append(a.CaptureAttempts, capturedAttempt(e))
			if a.TokenisedCardID == "" {
				a.TokenisedCardID = e.TokenisedCardID
			}
			break
		}

		if outcomeOf(e, stageAuthorise) == OutcomeSoftDeclined {
			if a.CardAuthorisedAt == nil {
				a.CardAuthorisedAt = timePtr(e.InsertedAt)
				a.CardAuthorisedAmount = e.Amount
			}
			continue
		}

		a.CardAuthoriseFailedAt = timePtr(e.InsertedAt)
		a.CaptureAttempts = append(a.CaptureAttempts, failedCaptureAttempt(e))
	}
	return a
}

// applyCardWebhooks folds processor notifications. A captured notification only
// records a capture when no explicit capture was seen, otherwise the same money
// would be counted twice.
func applyCardWebhooks(g cardGroup, a domain.PaymentAttempt) domain.PaymentAttempt {
	webhooks := filter(g.events, domain.PaymentEventTypeCardWebhook)
	if len(webhooks) == 0 {
		return a
	}
	if a.InitiatedAt == nil {
		a = withIdentity(a, webhooks[0], domain.PaymentMethodCard)
	}

	hasCaptureEvent := has(g.events, domain.PaymentEventTypeCardCapture)
	for _, e := range webhooks {
		o := outcomeOf(e, stageWebhook)
		if o != OutcomeAuthorised && o != OutcomeCardVerified && o != OutcomeCaptured {
			continue
		}
		if a.CardAuthorisedAmount.IsZero() {
			a.CardAuthorisedAt = timePtr(e.InsertedAt)
			a.CardAuthorisedAmount = e.Amount
		}
		if o == OutcomeCaptured && !hasCaptureEvent && len(a.CaptureAttempts) == 0 {
			a.CaptureAttempts = append(a.CaptureAttempts, capturedAttempt(e))
		}
	}
	return a
}

func applyCardVoids(g cardGroup, a domain.PaymentAttempt) domain.PaymentAttempt {
	var voids []domain.RefundAttempt
	for _, e := range filter(g.events, domain.PaymentEventTypeCardVoid) {
		if outcomeOf(e, stageVoid) == OutcomeVoided {
			voids = append(voids, settledRefundAttempt(e, true))
		}
	}
	if len(voids) > 0 {
		a.RefundAttempts = voids
	}
	return a
}

func applyCardRefunds(g cardGroup, a domain.PaymentAttempt) domain.PaymentAttempt {
	var refunds []domain.RefundAttempt
	for _, e := range filter(g.events, domain.PaymentEventTypeCardRefund) {
		if outcomeOf(e, stageRefund) == OutcomeRefunded {
			refunds = append(refunds, settledRefundAttempt(e, false))
		}
	}
	if len(refunds) > 0 {
		a.RefundAttempts = refunds
	}
	return a
}

func applyCardWallet(g cardGroup, a domain.PaymentAttempt) domain.PaymentAttempt {
	for _, e := range g.events {
		if e.WalletName != "" {
			a.WalletName = e.WalletName
			break
		}
	}
	return a
}

// buildCardAuthenticationFailures returns one failed attempt per payer
// authentication failure, or per setup event that reported an error or an
// unexpected status. These never merge into an authorised group.
func buildCardAuthenticationFailures(events []domain.PaymentEvent) []domain.PaymentAttempt {
	var attempts []domain.PaymentAttempt
	for _, e := range events {
		if !isAuthenticationFailure(e) {
			continue
		}
		key := e.CardRequestID
		if key == "" {
			key = e.PaymentRequestID.String()
		}
		a := withIdentity(newAttempt(key, domain.PaymentMethodCard, nil), e, domain.PaymentMethodCard)
		a.CardPayerAuthenticationSetupFailedAt = timePtr(e.InsertedAt)
		attempts = append(attempts, a)
	}
	return attempts
}

func isAuthenticationFailure(e domain.PaymentEvent) bool {
	switch e.EventType {
	case domain.PaymentEventTypeCardPayerAuthenticationFailure:
		return true
	case domain.PaymentEventTypeCardPayerAuthenticationSetup:
		return e.ErrorMessage != "" || e.ErrorReason != "" ||
			outcomeOf(e, stageAuthenticate) != OutcomeAuthenticated
	default:
		return false
	}
}

// newAttempt starts an attempt for a correlation group. The rail fixes the
// method even when no event in the group carries identity fields.
func newAttempt(key string, method domain.PaymentMethod, events []domain.PaymentEvent) domain.PaymentAttempt {
	a := domain.PaymentAttempt{AttemptKey: key, PaymentMethod: method}
	if len(events) > 0 {
		a.PaymentRequestID = events[0].PaymentRequestID
	}
	return a
}

func withIdentity(a domain.PaymentAttempt, e domain.PaymentEvent, method domain.PaymentMethod) domain.PaymentAttempt {
	a.InitiatedAt = timePtr(e.InsertedAt)
	a.PaymentRequestID = e.PaymentRequestID
	a.PaymentMethod = method
	a.Currency = e.Currency
	a.AttemptedAmount = e.Amount
	a.PaymentProcessor = e.PaymentProcessor
	if method == domain.PaymentMethodCard {
		a.TokenisedCardID = e.TokenisedCardID
	}
	return a
}

func capturedAttempt(e domain.PaymentEvent) domain.CaptureAttempt {
	return domain.CaptureAttempt{
		CapturedAt:     timePtr(e.InsertedAt),
		CapturedAmount: e.Amount,
	}
}

func failedCaptureAttempt(e domain.PaymentEvent) domain.CaptureAttempt {
	return domain.CaptureAttempt{
		CaptureFailedAt:     timePtr(e.InsertedAt),
		CaptureFailureError: errorText(e),
	}
}

// settledRefundAttempt models a card void or refund, which the processor
// settles at the moment it accepts it.
func settledRefundAttempt(e domain.PaymentEvent, isVoid bool) domain.RefundAttempt {
	return domain.RefundAttempt{
		RefundInitiatedAt:     timePtr(e.InsertedAt),
		RefundInitiatedAmount: e.Amount,
		RefundSettledAt:       timePtr(e.InsertedAt),
		RefundSettledAmount:   e.Amount,
		IsCardVoid:            isVoid,
	}
}

func errorText(e domain.PaymentEvent) string {
	if e.ErrorMessage != "" {
		return e.ErrorMessage
	}
	return e.ErrorReason
}

func timePtr(t time.Time) *time.Time {
	return &t
}
