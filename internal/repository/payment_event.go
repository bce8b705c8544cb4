package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/josh-kwaku/payment-attempts/internal/domain"
)

// Nullable text columns are coalesced so absent correlation keys scan as "".
const paymentEventColumns = `id, payment_request_id, event_type, inserted_at, amount, currency,
	COALESCE(status, ''), COALESCE(error_message, ''), COALESCE(error_reason, ''), payment_processor,
	COALESCE(card_authorization_response_id, ''), COALESCE(card_request_id, ''),
	COALESCE(pisp_payment_initiation_id, ''), COALESCE(lightning_r_hash, ''),
	COALESCE(refund_payout_id, ''), COALESCE(tokenised_card_id, ''), COALESCE(wallet_name, ''),
	COALESCE(pisp_bank_status, ''), COALESCE(payment_initiation_institution_id, ''),
	COALESCE(payment_initiation_institution_name, ''), COALESCE(reconciled_transaction_id, '')`

type PaymentEventRepository struct {
	db *sql.DB
}

func NewPaymentEventRepository(db *sql.DB) *PaymentEventRepository {
	return &PaymentEventRepository{db: db}
}

// GetByPaymentRequestID returns the full event log of a payment request.
// Rows come back in insertion order, but callers must not rely on it: the
// reconstruction engine re-sorts every correlation group.
func (r *PaymentEventRepository) GetByPaymentRequestID(ctx context.Context, paymentRequestID uuid.UUID) ([]domain.PaymentEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paymentEventColumns+` FROM payment_request_events
		WHERE payment_request_id = $1 ORDER BY inserted_at, id`, paymentRequestID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetByPaymentRequestID: %w", err)
	}
	defer rows.Close()

	var events []domain.PaymentEvent
	for rows.Next() {
		e, err := scanPaymentEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("GetByPaymentRequestID: scan: %w", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetByPaymentRequestID: rows: %w", err)
	}
	return events, nil
}

func scanPaymentEvent(s scanner) (*domain.PaymentEvent, error) {
	var e domain.PaymentEvent
	err := s.Scan(
		&e.ID, &e.PaymentRequestID, &e.EventType, &e.InsertedAt, &e.Amount, &e.Currency,
		&e.Status, &e.ErrorMessage, &e.ErrorReason, &e.PaymentProcessor,
		&e.CardAuthorizationResponseID, &e.CardRequestID,
		&e.PispPaymentInitiationID, &e.LightningRHash,
		&e.RefundPayoutID, &e.TokenisedCardID, &e.WalletName,
		&e.PispBankStatus, &e.PaymentInitiationInstitutionID,
		&e.PaymentInitiationInstitutionName, &e.ReconciledTransactionID,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
