package attempt

import "github.com/josh-kwaku/payment-attempts/internal/domain"

// Outcome is the canonical meaning of a processor status literal.
type Outcome string

const (
	OutcomeDeclined      Outcome = "declined"
	OutcomeAuthorised    Outcome = "authorised"
	OutcomeSoftDeclined  Outcome = "soft_declined"
	OutcomeCardVerified  Outcome = "card_verified"
	OutcomeCaptured      Outcome = "captured"
	OutcomeVoided        Outcome = "voided"
	OutcomeRefunded      Outcome = "refunded"
	OutcomeAuthenticated Outcome = "authenticated"
)

// stage selects which of a processor's status vocabularies applies. The same
// literal can mean different things at different stages: CyberSource reports
// PENDING for both an accepted capture and an accepted refund.
type stage int

const (
	stageAuthorise stage = iota
	stageCapture
	stageWebhook
	stageVoid
	stageRefund
	stageAuthenticate
	stagePispAuthorise
)

type vocabulary struct {
	stages map[stage]map[string]Outcome
	// rejectBankStatus, when set, vetoes a PISP authorisation whose bank
	// sub-status equals it.
	rejectBankStatus string
}

var vocabularies = map[domain.PaymentProcessor]vocabulary{
	domain.PaymentProcessorCyberSource: {stages: map[stage]map[string]Outcome{
		stageAuthorise: {
			"AUTHORIZED":                OutcomeAuthorised,
			"AUTHORIZED_PENDING_REVIEW": OutcomeSoftDeclined,
		},
		stageCapture: {
			"AUTHORIZED": OutcomeCaptured,
			"PENDING":    OutcomeCaptured,
		},
		stageWebhook: {
			"AUTHORIZED": OutcomeAuthorised,
		},
		stageVoid: {
			"VOIDED":   OutcomeVoided,
			"REVERSED": OutcomeVoided,
		},
		stageRefund: {
			"PENDING": OutcomeRefunded,
		},
		stageAuthenticate: {
			"COMPLETED": OutcomeAuthenticated,
		},
	}},
	domain.PaymentProcessorCheckout: {stages: map[stage]map[string]Outcome{
		stageAuthorise: {
			"Authorized":    OutcomeAuthorised,
			"Card Verified": OutcomeCardVerified,
		},
		stageCapture: {
			"Captured": OutcomeCaptured,
		},
		stageWebhook: {
			"Authorized":    OutcomeAuthorised,
			"Card Verified": OutcomeCardVerified,
			"Captured":      OutcomeCaptured,
		},
		stageVoid: {
			"Voided": OutcomeVoided,
		},
		stageRefund: {
			"Refunded": OutcomeRefunded,
		},
	}},
	domain.PaymentProcessorPlaid: {stages: map[stage]map[string]Outcome{
		stagePispAuthorise: {
			"PAYMENT_STATUS_INITIATED": OutcomeAuthorised,
			"PAYMENT_STATUS_EXECUTED":  OutcomeAuthorised,
		},
	}},
	domain.PaymentProcessorYapily: {
		stages: map[stage]map[string]Outcome{
			stagePispAuthorise: {
				"COMPLETED": OutcomeAuthorised,
				"PENDING":   OutcomeAuthorised,
			},
		},
		rejectBankStatus: "REJECTED",
	},
	domain.PaymentProcessorTrueLayer: {stages: map[stage]map[string]Outcome{
		stagePispAuthorise: {
			"authorized": OutcomeAuthorised,
			"executed":   OutcomeAuthorised,
			"settled":    OutcomeAuthorised,
		},
	}},
	domain.PaymentProcessorModulr: {stages: map[stage]map[string]Outcome{
		stagePispAuthorise: {
			"AUTHORISED": OutcomeAuthorised,
			"EXECUTED":   OutcomeAuthorised,
		},
	}},
	domain.PaymentProcessorSimulator: {stages: map[stage]map[string]Outcome{
		stagePispAuthorise: {
			"AUTHORISED": OutcomeAuthorised,
		},
	}},
}

var cardStages = []stage{stageAuthorise, stageCapture, stageWebhook, stageVoid, stageRefund, stageAuthenticate}

// cardProcessors are merged, in order, into the vocabulary used for card stages
// a processor publishes no table for: every stage of the simulator or of events
// recorded without a processor, and payer authentication on Checkout.
var cardProcessors = []domain.PaymentProcessor{
	domain.PaymentProcessorCyberSource,
	domain.PaymentProcessorCheckout,
}

var mergedCardVocabulary = mergeVocabularies(cardProcessors, cardStages)

func mergeVocabularies(processors []domain.PaymentProcessor, stages []stage) map[stage]map[string]Outcome {
	merged := make(map[stage]map[string]Outcome, len(stages))
	for _, s := range stages {
		merged[s] = make(map[string]Outcome)
		for _, p := range processors {
			for status, o := range vocabularies[p].stages[s] {
				if _, ok := merged[s][status]; !ok {
					merged[s][status] = o
				}
			}
		}
	}
	return merged
}

// outcomeOf maps an event's status literal at the given stage. A card stage the
// processor publishes no table for falls back to the merged card vocabulary.
// Unknown literals are declines.
func outcomeOf(e domain.PaymentEvent, s stage) Outcome {
	table := vocabularies[e.PaymentProcessor].stages[s]
	if s != stagePispAuthorise && len(table) == 0 {
		table = mergedCardVocabulary[s]
	}
	if o, ok := table[e.Status]; ok {
		return o
	}
	return OutcomeDeclined
}

func isPispAuthorised(e domain.PaymentEvent) bool {
	if outcomeOf(e, stagePispAuthorise) != OutcomeAuthorised {
		return false
	}
	reject := vocabularies[e.PaymentProcessor].rejectBankStatus
	return reject == "" || e.PispBankStatus != reject
}
