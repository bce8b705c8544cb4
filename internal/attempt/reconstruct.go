package attempt

import "github.com/josh-kwaku/payment-attempts/internal/domain"

// Diagnostics counts events that did not contribute to any attempt. It never
// changes the attempts themselves.
type Diagnostics struct {
	ExcludedCardEvents       int
	ExcludedPispEvents       int
	ExcludedLightningEvents  int
	UnbuiltDirectDebitEvents int
	UnclassifiedEvents       int
}

// Excluded is the number of typed events dropped for a missing correlation key.
func (d Diagnostics) Excluded() int {
	return d.ExcludedCardEvents + d.ExcludedPispEvents + d.ExcludedLightningEvents
}

type Result struct {
	Attempts    []domain.PaymentAttempt
	Diagnostics Diagnostics
}

// Reconstruct derives the attempts for one payment request. Card attempts come
// first, then failed payer authentications, then PISP and Lightning attempts;
// within each rail attempts are ordered by their earliest event.
func Reconstruct(events []domain.PaymentEvent) Result {
	p := partitionEvents(events)

	var attempts []domain.PaymentAttempt
	for _, g := range p.card {
		attempts = append(attempts, buildCardAttempt(cardGroup{
			key:    g.Key,
			events: g.Events,
			setups: p.authenticationSetups,
		}))
	}
	attempts = append(attempts, buildCardAuthenticationFailures(p.cardAuthentication)...)
	for _, g := range p.pisp {
		attempts = append(attempts, buildPispAttempt(g))
	}
	for _, g := range p.lightning {
		attempts = append(attempts, buildLightningAttempt(g))
	}

	return Result{Attempts: attempts, Diagnostics: p.diagnostics}
}

func GetPaymentAttempts(events []domain.PaymentEvent) []domain.PaymentAttempt {
	return Reconstruct(events).Attempts
}
