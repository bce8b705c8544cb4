package attempt

import (
	"slices"

	"github.com/josh-kwaku/payment-attempts/internal/domain"
)

type group[K comparable] struct {
	Key    K
	Events []domain.PaymentEvent
}

// sortByInsertedAt returns a copy of events in insertion order. The sort is
// stable so events sharing a timestamp keep their input order.
func sortByInsertedAt(events []domain.PaymentEvent) []domain.PaymentEvent {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b domain.PaymentEvent) int {
		return a.InsertedAt.Compare(b.InsertedAt)
	})
	return sorted
}

// correlate groups events by the key returned from keyFn, skipping events for
// which keyFn reports false. Each group is in insertion order and groups are
// ordered by their earliest event.
func correlate[K comparable](events []domain.PaymentEvent, keyFn func(domain.PaymentEvent) (K, bool)) []group[K] {
	index := make(map[K]int)
	var groups []group[K]

	for _, e := range sortByInsertedAt(events) {
		key, ok := keyFn(e)
		if !ok {
			continue
		}
		i, seen := index[key]
		if !seen {
			i = len(groups)
			index[key] = i
			groups = append(groups, group[K]{Key: key})
		}
		groups[i].Events = append(groups[i].Events, e)
	}
	return groups
}

// partition is the classified and correlated view of one payment request's events.
type partition struct {
	card      []group[string]
	pisp      []group[string]
	lightning []group[string]

	// cardAuthentication holds payer-authentication events in insertion order;
	// authenticationSetups indexes one setup event per card request id.
	cardAuthentication   []domain.PaymentEvent
	authenticationSetups map[string]domain.PaymentEvent

	diagnostics Diagnostics
}

func partitionEvents(events []domain.PaymentEvent) partition {
	p := partition{authenticationSetups: make(map[string]domain.PaymentEvent)}

	for _, e := range sortByInsertedAt(events) {
		switch Classify(e.EventType) {
		case RailCard:
			if isCardAuthentication(e.EventType) {
				p.cardAuthentication = append(p.cardAuthentication, e)
				if e.EventType == domain.PaymentEventTypeCardPayerAuthenticationSetup && e.CardRequestID != "" {
					p.indexSetup(e)
				}
				continue
			}
			if e.CardAuthorizationResponseID == "" {
				p.diagnostics.ExcludedCardEvents++
			}
		case RailPisp:
			if e.PispPaymentInitiationID == "" {
				p.diagnostics.ExcludedPispEvents++
			}
		case RailLightning:
			if e.LightningRHash == "" {
				p.diagnostics.ExcludedLightningEvents++
			}
		case RailDirectDebit:
			p.diagnostics.UnbuiltDirectDebitEvents++
		default:
			p.diagnostics.UnclassifiedEvents++
		}
	}

	// Payer-authentication events only surface as standalone failures, even
	// when the processor already echoed an authorization id on them.
	p.card = correlate(events, railKey(RailCard, func(e domain.PaymentEvent) string {
		if isCardAuthentication(e.EventType) {
			return ""
		}
		return e.CardAuthorizationResponseID
	}))
	p.pisp = correlate(events, railKey(RailPisp, func(e domain.PaymentEvent) string {
		return e.PispPaymentInitiationID
	}))
	p.lightning = correlate(events, railKey(RailLightning, func(e domain.PaymentEvent) string {
		return e.LightningRHash
	}))
	return p
}

// indexSetup keeps the first successful setup per card request id, falling
// back to the first setup when every one of them failed.
func (p *partition) indexSetup(e domain.PaymentEvent) {
	current, ok := p.authenticationSetups[e.CardRequestID]
	if !ok || (isAuthenticationFailure(current) && !isAuthenticationFailure(e)) {
		p.authenticationSetups[e.CardRequestID] = e
	}
}

func railKey(rail Rail, field func(domain.PaymentEvent) string) func(domain.PaymentEvent) (string, bool) {
	return func(e domain.PaymentEvent) (string, bool) {
		if Classify(e.EventType) != rail {
			return "", false
		}
		key := field(e)
		return key, key != ""
	}
}

func first(events []domain.PaymentEvent, types ...domain.PaymentEventType) (domain.PaymentEvent, bool) {
	for _, e := range events {
		if slices.Contains(types, e.EventType) {
			return e, true
		}
	}
	return domain.PaymentEvent{}, false
}

// firstByPriority returns the first event of the earliest listed type that is present.
func firstByPriority(events []domain.PaymentEvent, types ...domain.PaymentEventType) (domain.PaymentEvent, bool) {
	for _, t := range types {
		if e, ok := first(events, t); ok {
			return e, true
		}
	}
	return domain.PaymentEvent{}, false
}

func filter(events []domain.PaymentEvent, types ...domain.PaymentEventType) []domain.PaymentEvent {
	var out []domain.PaymentEvent
	for _, e := range events {
		if slices.Contains(types, e.EventType) {
			out = append(out, e)
		}
	}
	return out
}

func has(events []domain.PaymentEvent, types ...domain.PaymentEventType) bool {
	_, ok := first(events, types...)
	return ok
}
