package attempt

import "github.com/josh-kwaku/payment-attempts/internal/domain"

func buildLightningAttempt(g group[string]) domain.PaymentAttempt {
	a := newAttempt(g.Key, domain.PaymentMethodLightning, g.Events)

	if e, ok := firstByPriority(g.Events,
		domain.PaymentEventTypeLightningInvoiceCreated,
		domain.PaymentEventTypeLightningInvoicePaid,
		domain.PaymentEventTypeLightningInvoiceExpired,
	); ok {
		a = withIdentity(a, e, domain.PaymentMethodLightning)
	}

	if paid, ok := first(g.Events, domain.PaymentEventTypeLightningInvoicePaid); ok {
		a.SettledAt = timePtr(paid.InsertedAt)
		a.SettledAmount = paid.Amount
		a.ReconciledTransactionID = paid.ReconciledTransactionID
	} else if expired, ok := first(g.Events, domain.PaymentEventTypeLightningInvoiceExpired); ok {
		a.SettleFailedAt = timePtr(expired.InsertedAt)
	}
	return a
}
