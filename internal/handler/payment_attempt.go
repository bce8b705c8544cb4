package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/payment-attempts/internal/attempt"
	"github.com/josh-kwaku/payment-attempts/internal/domain"
	"github.com/josh-kwaku/payment-attempts/internal/logging"
)

type paymentAttemptService interface {
	GetPaymentAttempts(ctx context.Context, paymentRequestID uuid.UUID) (attempt.Result, error)
}

type PaymentAttemptHandler struct {
	attempts paymentAttemptService
}

func NewPaymentAttemptHandler(attempts paymentAttemptService) *PaymentAttemptHandler {
	return &PaymentAttemptHandler{attempts: attempts}
}

type captureAttemptDTO struct {
	CapturedAt          *time.Time      `json:"captured_at,omitempty"`
	CapturedAmount      decimal.Decimal `json:"captured_amount"`
	CaptureFailedAt     *time.Time      `json:"capture_failed_at,omitempty"`
	CaptureFailureError string          `json:"capture_failure_error,omitempty"`
}

type refundAttemptDTO struct {
	RefundPayoutID        string          `json:"refund_payout_id,omitempty"`
	RefundInitiatedAt     *time.Time      `json:"refund_initiated_at,omitempty"`
	RefundInitiatedAmount decimal.Decimal `json:"refund_initiated_amount"`
	RefundSettledAt       *time.Time      `json:"refund_settled_at,omitempty"`
	RefundSettledAmount   decimal.Decimal `json:"refund_settled_amount"`
	RefundCancelledAt     *time.Time      `json:"refund_cancelled_at,omitempty"`
	RefundCancelledAmount decimal.Decimal `json:"refund_cancelled_amount"`
	IsCardVoid            bool            `json:"is_card_void"`
}

type paymentAttemptDTO struct {
	AttemptKey       string          `json:"attempt_key"`
	PaymentRequestID uuid.UUID       `json:"payment_request_id"`
	PaymentMethod    string          `json:"payment_method"`
	PaymentProcessor string          `json:"payment_processor"`
	Status           string          `json:"status"`
	Currency         string          `json:"currency"`
	AttemptedAmount  decimal.Decimal `json:"attempted_amount"`
	InitiatedAt      *time.Time      `json:"initiated_at,omitempty"`

	InstitutionID   string `json:"institution_id,omitempty"`
	InstitutionName string `json:"institution_name,omitempty"`
	TokenisedCardID string `json:"tokenised_card_id,omitempty"`
	WalletName      string `json:"wallet_name,omitempty"`

	CardAuthorisedAt                     *time.Time       `json:"card_authorised_at,omitempty"`
	CardAuthorisedAmount                 *decimal.Decimal `json:"card_authorised_amount,omitempty"`
	CardAuthoriseFailedAt                *time.Time       `json:"card_authorise_failed_at,omitempty"`
	CardPayerAuthenticationSetupFailedAt *time.Time       `json:"card_payer_authentication_setup_failed_at,omitempty"`
	AmountAvailableToRefund              *decimal.Decimal `json:"amount_available_to_refund,omitempty"`
	AmountAvailableToVoid                *decimal.Decimal `json:"amount_available_to_void,omitempty"`
	IsVoided                             *bool            `json:"is_voided,omitempty"`

	AuthorisedAt            *time.Time       `json:"authorised_at,omitempty"`
	AuthorisedAmount        *decimal.Decimal `json:"authorised_amount,omitempty"`
	SettledAt               *time.Time       `json:"settled_at,omitempty"`
	SettledAmount           *decimal.Decimal `json:"settled_amount,omitempty"`
	SettleFailedAt          *time.Time       `json:"settle_failed_at,omitempty"`
	ReconciledTransactionID string           `json:"reconciled_transaction_id,omitempty"`

	CaptureAttempts []captureAttemptDTO `json:"capture_attempts"`
	RefundAttempts  []refundAttemptDTO  `json:"refund_attempts"`
}

type diagnosticsDTO struct {
	ExcludedCardEvents       int `json:"excluded_card_events"`
	ExcludedPispEvents       int `json:"excluded_pisp_events"`
	ExcludedLightningEvents  int `json:"excluded_lightning_events"`
	UnbuiltDirectDebitEvents int `json:"unbuilt_direct_debit_events"`
	UnclassifiedEvents       int `json:"unclassified_events"`
}

// PaymentAttemptsResponse is the read model of a reconstructed payment request.
type PaymentAttemptsResponse struct {
	Attempts    []paymentAttemptDTO `json:"attempts"`
	Diagnostics diagnosticsDTO      `json:"diagnostics"`
}

func NewPaymentAttemptsResponse(result attempt.Result) PaymentAttemptsResponse {
	attempts := make([]paymentAttemptDTO, 0, len(result.Attempts))
	for _, a := range result.Attempts {
		attempts = append(attempts, toPaymentAttemptDTO(a))
	}
	d := result.Diagnostics
	return PaymentAttemptsResponse{
		Attempts: attempts,
		Diagnostics: diagnosticsDTO{
			ExcludedCardEvents:       d.ExcludedCardEvents,
			ExcludedPispEvents:       d.ExcludedPispEvents,
			ExcludedLightningEvents:  d.ExcludedLightningEvents,
			UnbuiltDirectDebitEvents: d.UnbuiltDirectDebitEvents,
			UnclassifiedEvents:       d.UnclassifiedEvents,
		},
	}
}

func toPaymentAttemptDTO(a domain.PaymentAttempt) paymentAttemptDTO {
	dto := paymentAttemptDTO{
		AttemptKey:                           a.AttemptKey,
		PaymentRequestID:                     a.PaymentRequestID,
		PaymentMethod:                        string(a.PaymentMethod),
		PaymentProcessor:                     string(a.PaymentProcessor),
		Status:                               string(attempt.GetPaymentAttemptStatus(a)),
		Currency:                             string(a.Currency),
		AttemptedAmount:                      a.AttemptedAmount,
		InitiatedAt:                          a.InitiatedAt,
		InstitutionID:                        a.InstitutionID,
		InstitutionName:                      a.InstitutionName,
		TokenisedCardID:                      a.TokenisedCardID,
		WalletName:                           a.WalletName,
		CardAuthorisedAt:                     a.CardAuthorisedAt,
		CardAuthoriseFailedAt:                a.CardAuthoriseFailedAt,
		CardPayerAuthenticationSetupFailedAt: a.CardPayerAuthenticationSetupFailedAt,
		AuthorisedAt:                         a.AuthorisedAt,
		SettledAt:                            a.SettledAt,
		SettleFailedAt:                       a.SettleFailedAt,
		ReconciledTransactionID:              a.ReconciledTransactionID,
		CaptureAttempts:                      make([]captureAttemptDTO, 0, len(a.CaptureAttempts)),
		RefundAttempts:                       make([]refundAttemptDTO, 0, len(a.RefundAttempts)),
	}

	if a.PaymentMethod == domain.PaymentMethodCard {
		refundable := attempt.GetAmountAvailableToRefund(a)
		voidable := attempt.GetAmountAvailableToVoid(a)
		voided := attempt.IsCardPaymentVoided(a)
		dto.AmountAvailableToRefund = &refundable
		dto.AmountAvailableToVoid = &voidable
		dto.IsVoided = &voided
	}
	if a.CardAuthorisedAt != nil {
		dto.CardAuthorisedAmount = &a.CardAuthorisedAmount
	}
	if a.AuthorisedAt != nil {
		dto.AuthorisedAmount = &a.AuthorisedAmount
	}
	if a.SettledAt != nil {
		dto.SettledAmount = &a.SettledAmount
	}

	for _, c := range a.CaptureAttempts {
		dto.CaptureAttempts = append(dto.CaptureAttempts, captureAttemptDTO{
			CapturedAt:          c.CapturedAt,
			CapturedAmount:      c.CapturedAmount,
			CaptureFailedAt:     c.CaptureFailedAt,
			CaptureFailureError: c.CaptureFailureError,
		})
	}
	for _, r := range a.RefundAttempts {
		dto.RefundAttempts = append(dto.RefundAttempts, refundAttemptDTO{
			RefundPayoutID:        r.RefundPayoutID,
			RefundInitiatedAt:     r.RefundInitiatedAt,
			RefundInitiatedAmount: r.RefundInitiatedAmount,
			RefundSettledAt:       r.RefundSettledAt,
			RefundSettledAmount:   r.RefundSettledAmount,
			RefundCancelledAt:     r.RefundCancelledAt,
			RefundCancelledAmount: r.RefundCancelledAmount,
			IsCardVoid:            r.IsCardVoid,
		})
	}
	return dto
}

func (h *PaymentAttemptHandler) List(w http.ResponseWriter, r *http.Request) {
	paymentRequestID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondValidationError(w, []FieldError{{Field: "id", Message: "must be a valid UUID"}})
		return
	}

	result, err := h.attempts.GetPaymentAttempts(r.Context(), paymentRequestID)
	if err != nil {
		logging.FromContext(r.Context()).Warn("payment attempt reconstruction failed",
			"payment_request_id", paymentRequestID, "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, NewPaymentAttemptsResponse(result))
}
