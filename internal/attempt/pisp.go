package attempt

import "github.com/josh-kwaku/payment-attempts/internal/domain"

type pispReducer func(events []domain.PaymentEvent, a domain.PaymentAttempt) domain.PaymentAttempt

var pispReducers = []pispReducer{
	applyPispIdentity,
	applyPispAuthorisation,
	applyPispSettlement,
}

func buildPispAttempt(g group[string]) domain.PaymentAttempt {
	a := newAttempt(g.Key, domain.PaymentMethodPisp, g.Events)
	for _, reduce := range pispReducers {
		a = reduce(g.Events, a)
	}
	return a
}

func applyPispIdentity(events []domain.PaymentEvent, a domain.PaymentAttempt) domain.PaymentAttempt {
	e, ok := firstByPriority(events,
		domain.PaymentEventTypePispInitiate,
		domain.PaymentEventTypePispCallback,
		domain.PaymentEventTypePispWebhook,
		domain.PaymentEventTypePispSettle,
	)
	if !ok {
		return a
	}
	a = withIdentity(a, e, domain.PaymentMethodPisp)
	a.InstitutionID = e.PaymentInitiationInstitutionID
	a.InstitutionName = e.PaymentInitiationInstitutionName
	return a
}

func applyPispAuthorisation(events []domain.PaymentEvent, a domain.PaymentAttempt) domain.PaymentAttempt {
	for _, e := range filter(events, domain.PaymentEventTypePispCallback, domain.PaymentEventTypePispWebhook) {
		if isPispAuthorised(e) {
			a.AuthorisedAt = timePtr(e.InsertedAt)
			a.AuthorisedAmount = e.Amount
			break
		}
	}
	return a
}

func applyPispSettlement(events []domain.PaymentEvent, a domain.PaymentAttempt) domain.PaymentAttempt {
	if settle, ok := first(events, domain.PaymentEventTypePispSettle); ok {
		a.SettledAt = timePtr(settle.InsertedAt)
		a.SettledAmount = settle.Amount
		a.ReconciledTransactionID = settle.ReconciledTransactionID
		a.RefundAttempts = pispRefundAttempts(events)
		return a
	}
	if failure, ok := first(events, domain.PaymentEventTypePispSettleFailure); ok {
		a.SettleFailedAt = timePtr(failure.InsertedAt)
	}
	return a
}

// pispRefundAttempts builds one refund per payout. A payout without an
// initiated event is skipped; a cancelled payout is reported as cancelled even
// if a settlement was also recorded.
func pispRefundAttempts(events []domain.PaymentEvent) []domain.RefundAttempt {
	payouts := correlate(events, func(e domain.PaymentEvent) (string, bool) {
		switch e.EventType {
		case domain.PaymentEventTypePispRefundInitiated,
			domain.PaymentEventTypePispRefundSettled,
			domain.PaymentEventTypePispRefundCancelled:
			return e.RefundPayoutID, e.RefundPayoutID != ""
		default:
			return "", false
		}
	})

	var refunds []domain.RefundAttempt
	for _, payout := range payouts {
		initiated, ok := first(payout.Events, domain.PaymentEventTypePispRefundInitiated)
		if !ok {
			continue
		}
		r := domain.RefundAttempt{
			RefundPayoutID:        payout.Key,
			RefundInitiatedAt:     timePtr(initiated.InsertedAt),
			RefundInitiatedAmount: initiated.Amount,
		}
		if cancelled, ok := first(payout.Events, domain.PaymentEventTypePispRefundCancelled); ok {
			r.RefundCancelledAt = timePtr(cancelled.InsertedAt)
			r.RefundCancelledAmount = cancelled.Amount
		} else if settled, ok := first(payout.Events, domain.PaymentEventTypePispRefundSettled); ok {
			r.RefundSettledAt = timePtr(settled.InsertedAt)
			r.RefundSettledAmount = settled.Amount
		}
		refunds = append(refunds, r)
	}
	return refunds
}
