package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/payment-attempts/internal/domain"
)

var PaymentRequestID = uuid.MustParse("00000000-0000-0000-0003-000000000001")

// BaseTime anchors seeded events so tests can reason in minute offsets.
var BaseTime = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

// NewCardEvent builds a CyberSource card event for PaymentRequestID.
func NewCardEvent(eventType domain.PaymentEventType, authID, status string, amount int64, minute int) domain.PaymentEvent {
	return domain.PaymentEvent{
		ID:                          uuid.New(),
		PaymentRequestID:            PaymentRequestID,
		EventType:                   eventType,
		InsertedAt:                  BaseTime.Add(time.Duration(minute) * time.Minute),
		Amount:                      decimal.NewFromInt(amount),
		Currency:                    domain.CurrencyEUR,
		Status:                      status,
		PaymentProcessor:            domain.PaymentProcessorCyberSource,
		CardAuthorizationResponseID: authID,
	}
}

func SeedPaymentEvent(t *testing.T, db *sql.DB, e domain.PaymentEvent) {
	t.Helper()

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	_, err := db.Exec(
		`INSERT INTO payment_request_events (
			id, payment_request_id, event_type, inserted_at, amount, currency,
			status, error_message, error_reason, payment_processor,
			card_authorization_response_id, card_request_id, pisp_payment_initiation_id,
			lightning_r_hash, refund_payout_id, tokenised_card_id, wallet_name,
			pisp_bank_status, payment_initiation_institution_id,
			payment_initiation_institution_name, reconciled_transaction_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21
		)`,
		e.ID, e.PaymentRequestID, e.EventType, e.InsertedAt, e.Amount, e.Currency,
		nullable(e.Status), nullable(e.ErrorMessage), nullable(e.ErrorReason), e.PaymentProcessor,
		nullable(e.CardAuthorizationResponseID), nullable(e.CardRequestID), nullable(e.PispPaymentInitiationID),
		nullable(e.LightningRHash), nullable(e.RefundPayoutID), nullable(e.TokenisedCardID), nullable(e.WalletName),
		nullable(e.PispBankStatus), nullable(e.PaymentInitiationInstitutionID),
		nullable(e.PaymentInitiationInstitutionName), nullable(e.ReconciledTransactionID),
	)
	if err != nil {
		t.Fatalf("seed payment event %s: %v", e.EventType, err)
	}
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
