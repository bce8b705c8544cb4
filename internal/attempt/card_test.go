package attempt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/payment-attempts/internal/domain"
)

func buildSingleCardAttempt(t *testing.T, events ...domain.PaymentEvent) domain.PaymentAttempt {
	t.Helper()
	attempts := GetPaymentAttempts(events)
	require.Len(t, attempts, 1)
	require.Equal(t, domain.PaymentMethodCard, attempts[0].PaymentMethod)
	return attempts[0]
}

func TestCardAttempt_OneAttemptPerAuthorizationID(t *testing.T) {
	events := []domain.PaymentEvent{
		cardEvent(domain.PaymentEventTypeCardAuthorization, "auth-1", "AUTHORIZED", 100, 1),
		cardEvent(domain.PaymentEventTypeCardCapture, "auth-1", "PENDING", 60, 2),
		cardEvent(domain.PaymentEventTypeCardCapture, "auth-1", "PENDING", 40, 3),
		cardEvent(domain.PaymentEventTypeCardRefund, "auth-1", "PENDING", 10, 4),
		cardEvent(domain.PaymentEventTypeCardWebhook, "auth-1", "AUTHORIZED", 100, 5),
	}

	a := buildSingleCardAttempt(t, events...)
	assert.Equal(t, "auth-1", a.AttemptKey)
	assert.Len(t, a.CaptureAttempts, 2)
	assert.Len(t, a.RefundAttempts, 1)
}

func TestCardAttempt_SingleSuccessfulSale(t *testing.T) {
	a := buildSingleCardAttempt(t, cardEvent(domain.PaymentEventTypeCardSale, "auth-1", "AUTHORIZED", 50, 1))

	assert.Equal(t, domain.CurrencyEUR, a.Currency)
	assert.True(t, a.AttemptedAmount.Equal(amount(50)))
	require.NotNil(t, a.CardAuthorisedAt)
	assert.True(t, a.CardAuthorisedAmount.Equal(amount(50)))
	require.Len(t, a.CaptureAttempts, 1)
	assert.True(t, a.CaptureAttempts[0].CapturedAmount.Equal(amount(50)))
	assert.Nil(t, a.CardAuthoriseFailedAt)
}

func TestCardAttempt_SoftDeclinedSale(t *testing.T) {
	a := buildSingleCardAttempt(t, cardEvent(domain.PaymentEventTypeCardSale, "auth-1", "AUTHORIZED_PENDING_REVIEW", 75, 1))

	require.NotNil(t, a.CardAuthorisedAt)
	assert.True(t, a.CardAuthorisedAmount.Equal(amount(75)))
	assert.Empty(t, a.CaptureAttempts)
	assert.Nil(t, a.CardAuthoriseFailedAt)
}

func TestCardAttempt_SaleStopsAtFirstSuccess(t *testing.T) {
	declined := cardEvent(domain.PaymentEventTypeCardSale, "auth-1", "DECLINED", 50, 1)
	declined.ErrorMessage = "insufficient funds"
	success := cardEvent(domain.PaymentEventTypeCardSale, "auth-1", "AUTHORIZED", 50, 2)
	success.TokenisedCardID = "tok-123"
	ignored := cardEvent(domain.PaymentEventTypeCardSale, "auth-1", "AUTHORIZED", 50, 3)

	a := buildSingleCardAttempt(t, ignored, success, declined)

	assert.Equal(t, at(1), *a.InitiatedAt)
	require.NotNil(t, a.CardAuthoriseFailedAt)
	assert.Equal(t, at(1), *a.CardAuthoriseFailedAt)
	require.NotNil(t, a.CardAuthorisedAt)
	assert.Equal(t, at(2), *a.CardAuthorisedAt)
	assert.Equal(t, "tok-123", a.TokenisedCardID)

	require.Len(t, a.CaptureAttempts, 2)
	assert.Equal(t, "insufficient funds", a.CaptureAttempts[0].CaptureFailureError)
	assert.Nil(t, a.CaptureAttempts[0].CapturedAt)
	require.NotNil(t, a.CaptureAttempts[1].CapturedAt)
	assert.Equal(t, at(2), *a.CaptureAttempts[1].CapturedAt)
}

func TestCardAttempt_SoftDeclineThenSuccessfulSale(t *testing.T) {
	a := buildSingleCardAttempt(t,
		cardEvent(domain.PaymentEventTypeCardSale, "auth-1", "AUTHORIZED_PENDING_REVIEW", 80, 1),
		cardEvent(domain.PaymentEventTypeCardSale, "auth-1", "AUTHORIZED", 80, 2),
	)

	assert.Equal(t, at(1), *a.CardAuthorisedAt)
	require.Len(t, a.CaptureAttempts, 1)
	assert.Equal(t, at(2), *a.CaptureAttempts[0].CapturedAt)
}

func TestCardAttempt_Authorisation(t *testing.T) {
	tests := []struct {
		name       string
		processor  domain.PaymentProcessor
		status     string
		wantAuthed bool
	}{
		{name: "cybersource authorized", processor: domain.PaymentProcessorCyberSource, status: "AUTHORIZED", wantAuthed: true},
		{name: "cybersource soft decline", processor: domain.PaymentProcessorCyberSource, status: "AUTHORIZED_PENDING_REVIEW", wantAuthed: true},
		{name: "checkout authorized", processor: domain.PaymentProcessorCheckout, status: "Authorized", wantAuthed: true},
		{name: "checkout card verified", processor: domain.PaymentProcessorCheckout, status: "Card Verified", wantAuthed: true},
		{name: "cybersource declined", processor: domain.PaymentProcessorCyberSource, status: "DECLINED", wantAuthed: false},
		{name: "unknown literal is a failure", processor: domain.PaymentProcessorCheckout, status: "Mystery", wantAuthed: false},
		{name: "literal from another processor is a failure", processor: domain.PaymentProcessorCyberSource, status: "Authorized", wantAuthed: false},
		{name: "simulator uses card vocabulary of all processors", processor: domain.PaymentProcessorSimulator, status: "Card Verified", wantAuthed: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := cardEvent(domain.PaymentEventTypeCardAuthorization, "auth-1", tc.status, 100, 1)
			e.PaymentProcessor = tc.processor

			a := buildSingleCardAttempt(t, e)

			assert.Equal(t, tc.processor, a.PaymentProcessor)
			if tc.wantAuthed {
				require.NotNil(t, a.CardAuthorisedAt)
				assert.True(t, a.CardAuthorisedAmount.Equal(amount(100)))
				assert.Nil(t, a.CardAuthoriseFailedAt)
			} else {
				assert.Nil(t, a.CardAuthorisedAt)
				assert.True(t, a.CardAuthorisedAmount.IsZero())
				require.NotNil(t, a.CardAuthoriseFailedAt)
			}
		})
	}
}

func TestCardAttempt_IdentityFromAuthenticationSetup(t *testing.T) {
	setup := cardEvent(domain.PaymentEventTypeCardPayerAuthenticationSetup, "", "COMPLETED", 120, 0)
	setup.CardRequestID = "req-1"
	auth := cardEvent(domain.PaymentEventTypeCardAuthorization, "auth-1", "AUTHORIZED", 120, 2)
	auth.CardRequestID = "req-1"
	auth.TokenisedCardID = "tok-9"

	a := buildSingleCardAttempt(t, auth, setup)

	assert.Equal(t, "auth-1", a.AttemptKey)
	assert.Equal(t, at(0), *a.InitiatedAt)
	assert.Equal(t, testPaymentRequestID, a.PaymentRequestID)
	assert.Equal(t, "tok-9", a.TokenisedCardID)
	assert.Equal(t, at(2), *a.CardAuthorisedAt)
}

func TestCardAttempt_FailedCaptureMarksAuthoriseFailure(t *testing.T) {
	failed := cardEvent(domain.PaymentEventTypeCardCapture, "auth-1", "DECLINED", 100, 2)
	failed.ErrorReason = "EXPIRED_AUTHORIZATION"

	a := buildSingleCardAttempt(t,
		cardEvent(domain.PaymentEventTypeCardAuthorization, "auth-1", "AUTHORIZED", 100, 1),
		failed,
	)

	require.NotNil(t, a.CardAuthorisedAt)
	require.NotNil(t, a.CardAuthoriseFailedAt)
	assert.Equal(t, at(2), *a.CardAuthoriseFailedAt)
	require.Len(t, a.CaptureAttempts, 1)
	assert.Equal(t, "EXPIRED_AUTHORIZATION", a.CaptureAttempts[0].CaptureFailureError)
	assert.True(t, a.CaptureAttempts[0].CapturedAmount.IsZero())
}

func TestCardAttempt_Webhooks(t *testing.T) {
	t.Run("captured webhook records capture when none exists", func(t *testing.T) {
		a := buildSingleCardAttempt(t,
			checkoutEvent(domain.PaymentEventTypeCardWebhook, "auth-1", "Authorized", 90, 1),
			checkoutEvent(domain.PaymentEventTypeCardWebhook, "auth-1", "Captured", 90, 2),
		)

		assert.Equal(t, at(1), *a.InitiatedAt)
		assert.Equal(t, at(1), *a.CardAuthorisedAt)
		require.Len(t, a.CaptureAttempts, 1)
		assert.Equal(t, at(2), *a.CaptureAttempts[0].CapturedAt)
	})

	t.Run("captured webhook ignored when a capture event exists", func(t *testing.T) {
		a := buildSingleCardAttempt(t,
			checkoutEvent(domain.PaymentEventTypeCardAuthorization, "auth-1", "Authorized", 90, 1),
			checkoutEvent(domain.PaymentEventTypeCardCapture, "auth-1", "Captured", 90, 2),
			checkoutEvent(domain.PaymentEventTypeCardWebhook, "auth-1", "Captured", 90, 3),
		)

		require.Len(t, a.CaptureAttempts, 1)
		assert.Equal(t, at(2), *a.CaptureAttempts[0].CapturedAt)
	})

	t.Run("captured webhook ignored when a sale already captured", func(t *testing.T) {
		a := buildSingleCardAttempt(t,
			checkoutEvent(domain.PaymentEventTypeCardSale, "auth-1", "Captured", 90, 1),
			checkoutEvent(domain.PaymentEventTypeCardWebhook, "auth-1", "Captured", 90, 2),
		)

		require.Len(t, a.CaptureAttempts, 1)
		assert.Equal(t, at(1), *a.CaptureAttempts[0].CapturedAt)
	})

	t.Run("only the first authorising webhook sets the authorisation", func(t *testing.T) {
		a := buildSingleCardAttempt(t,
			checkoutEvent(domain.PaymentEventTypeCardWebhook, "auth-1", "Declined", 10, 1),
			checkoutEvent(domain.PaymentEventTypeCardWebhook, "auth-1", "Card Verified", 20, 2),
			checkoutEvent(domain.PaymentEventTypeCardWebhook, "auth-1", "Authorized", 30, 3),
		)

		assert.Equal(t, at(1), *a.InitiatedAt)
		assert.Equal(t, at(2), *a.CardAuthorisedAt)
		assert.True(t, a.CardAuthorisedAmount.Equal(amount(20)))
		assert.Empty(t, a.CaptureAttempts)
	})
}

func TestCardAttempt_VoidsAndRefunds(t *testing.T) {
	t.Run("successful voids become instantly settled void refunds", func(t *testing.T) {
		a := buildSingleCardAttempt(t,
			cardEvent(domain.PaymentEventTypeCardAuthorization, "auth-1", "AUTHORIZED", 100, 1),
			cardEvent(domain.PaymentEventTypeCardVoid, "auth-1", "DECLINED", 100, 2),
			cardEvent(domain.PaymentEventTypeCardVoid, "auth-1", "REVERSED", 100, 3),
		)

		require.Len(t, a.RefundAttempts, 1)
		r := a.RefundAttempts[0]
		assert.True(t, r.IsCardVoid)
		assert.Equal(t, at(3), *r.RefundInitiatedAt)
		assert.Equal(t, *r.RefundInitiatedAt, *r.RefundSettledAt)
		assert.True(t, r.RefundInitiatedAmount.Equal(r.RefundSettledAmount))
	})

	t.Run("refunds replace voids", func(t *testing.T) {
		a := buildSingleCardAttempt(t,
			cardEvent(domain.PaymentEventTypeCardAuthorization, "auth-1", "AUTHORIZED", 100, 1),
			cardEvent(domain.PaymentEventTypeCardVoid, "auth-1", "VOIDED", 30, 2),
			cardEvent(domain.PaymentEventTypeCardCapture, "auth-1", "PENDING", 70, 3),
			cardEvent(domain.PaymentEventTypeCardRefund, "auth-1", "PENDING", 20, 4),
			cardEvent(domain.PaymentEventTypeCardRefund, "auth-1", "PENDING", 10, 5),
		)

		require.Len(t, a.RefundAttempts, 2)
		for _, r := range a.RefundAttempts {
			assert.False(t, r.IsCardVoid)
		}
		assert.True(t, a.RefundAttempts[0].RefundSettledAmount.Equal(amount(20)))
		assert.True(t, a.RefundAttempts[1].RefundSettledAmount.Equal(amount(10)))
	})

	t.Run("failed refunds leave voids in place", func(t *testing.T) {
		a := buildSingleCardAttempt(t,
			checkoutEvent(domain.PaymentEventTypeCardAuthorization, "auth-1", "Authorized", 100, 1),
			checkoutEvent(domain.PaymentEventTypeCardVoid, "auth-1", "Voided", 100, 2),
			checkoutEvent(domain.PaymentEventTypeCardRefund, "auth-1", "Declined", 100, 3),
		)

		require.Len(t, a.RefundAttempts, 1)
		assert.True(t, a.RefundAttempts[0].IsCardVoid)
	})
}

func TestCardAttempt_WalletFromFirstEventCarryingOne(t *testing.T) {
	auth := cardEvent(domain.PaymentEventTypeCardAuthorization, "auth-1", "AUTHORIZED", 100, 1)
	capture := cardEvent(domain.PaymentEventTypeCardCapture, "auth-1", "PENDING", 100, 2)
	capture.WalletName = "ApplePay"
	webhook := cardEvent(domain.PaymentEventTypeCardWebhook, "auth-1", "AUTHORIZED", 100, 3)
	webhook.WalletName = "GooglePay"

	a := buildSingleCardAttempt(t, webhook, auth, capture)

	assert.Equal(t, "ApplePay", a.WalletName)
}

func TestCardAuthenticationFailures(t *testing.T) {
	failure := cardEvent(domain.PaymentEventTypeCardPayerAuthenticationFailure, "", "", 100, 1)
	failure.CardRequestID = "req-1"
	setupWithError := cardEvent(domain.PaymentEventTypeCardPayerAuthenticationSetup, "", "COMPLETED", 100, 2)
	setupWithError.CardRequestID = "req-2"
	setupWithError.ErrorMessage = "issuer unavailable"
	setupUnexpected := cardEvent(domain.PaymentEventTypeCardPayerAuthenticationSetup, "", "FAILED", 100, 3)
	setupOK := cardEvent(domain.PaymentEventTypeCardPayerAuthenticationSetup, "", "COMPLETED", 100, 4)
	setupOK.CardRequestID = "req-4"

	attempts := GetPaymentAttempts([]domain.PaymentEvent{setupOK, setupUnexpected, setupWithError, failure})

	require.Len(t, attempts, 3)
	assert.Equal(t, "req-1", attempts[0].AttemptKey)
	assert.Equal(t, "req-2", attempts[1].AttemptKey)
	assert.Equal(t, testPaymentRequestID.String(), attempts[2].AttemptKey)
	for i, a := range attempts {
		assert.Equal(t, domain.PaymentMethodCard, a.PaymentMethod)
		require.NotNil(t, a.CardPayerAuthenticationSetupFailedAt)
		assert.Equal(t, at(i+1), *a.CardPayerAuthenticationSetupFailedAt)
		assert.Nil(t, a.CardAuthorisedAt)
		assert.Nil(t, a.CardAuthoriseFailedAt)
		assert.Empty(t, a.CaptureAttempts)
	}
}

func TestCardAuthenticationFailure_DoesNotMergeIntoGroup(t *testing.T) {
	failure := cardEvent(domain.PaymentEventTypeCardPayerAuthenticationFailure, "", "", 100, 1)
	failure.CardRequestID = "req-1"
	auth := cardEvent(domain.PaymentEventTypeCardAuthorization, "auth-1", "AUTHORIZED", 100, 2)
	auth.CardRequestID = "req-1"

	attempts := GetPaymentAttempts([]domain.PaymentEvent{auth, failure})

	require.Len(t, attempts, 2)
	assert.Equal(t, "auth-1", attempts[0].AttemptKey)
	assert.Nil(t, attempts[0].CardPayerAuthenticationSetupFailedAt)
	assert.NotNil(t, attempts[0].CardAuthorisedAt)
	assert.Equal(t, "req-1", attempts[1].AttemptKey)
	assert.NotNil(t, attempts[1].CardPayerAuthenticationSetupFailedAt)
}

func TestCardAuthenticationFailure_WithAuthorizationIDStaysStandalone(t *testing.T) {
	failure := cardEvent(domain.PaymentEventTypeCardPayerAuthenticationFailure, "auth-x", "", 100, 1)
	failure.CardRequestID = "req-x"

	attempts := GetPaymentAttempts([]domain.PaymentEvent{failure})

	require.Len(t, attempts, 1)
	assert.Equal(t, "req-x", attempts[0].AttemptKey)
	require.NotNil(t, attempts[0].CardPayerAuthenticationSetupFailedAt)
	assert.Equal(t, 0, Reconstruct([]domain.PaymentEvent{failure}).Diagnostics.ExcludedCardEvents)
}

func TestCardAuthenticationSetup_WithAuthorizationIDJoinsNoGroup(t *testing.T) {
	setup := cardEvent(domain.PaymentEventTypeCardPayerAuthenticationSetup, "auth-1", "COMPLETED", 100, 0)
	setup.CardRequestID = "req-1"
	auth := cardEvent(domain.PaymentEventTypeCardAuthorization, "auth-1", "AUTHORIZED", 100, 1)
	auth.CardRequestID = "req-1"

	a := buildSingleCardAttempt(t, setup, auth)

	assert.Equal(t, "auth-1", a.AttemptKey)
	assert.Equal(t, at(0), *a.InitiatedAt)
	assert.Nil(t, a.CardPayerAuthenticationSetupFailedAt)
}

func TestCardAuthenticationSetup_ProcessorWithoutAuthenticationTable(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		wantFailed bool
	}{
		{name: "completed setup is not a failure", status: "COMPLETED"},
		{name: "unknown setup status is a failure", status: "FAILED", wantFailed: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setup := checkoutEvent(domain.PaymentEventTypeCardPayerAuthenticationSetup, "", tc.status, 100, 0)
			setup.CardRequestID = "req-1"
			auth := checkoutEvent(domain.PaymentEventTypeCardAuthorization, "auth-1", "Authorized", 100, 1)
			auth.CardRequestID = "req-1"

			attempts := GetPaymentAttempts([]domain.PaymentEvent{setup, auth})

			assert.Equal(t, "auth-1", attempts[0].AttemptKey)
			assert.NotNil(t, attempts[0].CardAuthorisedAt)
			if !tc.wantFailed {
				require.Len(t, attempts, 1)
				return
			}
			require.Len(t, attempts, 2)
			assert.Equal(t, "req-1", attempts[1].AttemptKey)
			assert.NotNil(t, attempts[1].CardPayerAuthenticationSetupFailedAt)
		})
	}
}

func TestCardAttempt_IdentityFromFirstSuccessfulSetup(t *testing.T) {
	failedSetup := cardEvent(domain.PaymentEventTypeCardPayerAuthenticationSetup, "", "FAILED", 90, 0)
	failedSetup.CardRequestID = "req-1"
	failedSetup.TokenisedCardID = "tok-old"
	retriedSetup := cardEvent(domain.PaymentEventTypeCardPayerAuthenticationSetup, "", "COMPLETED", 120, 1)
	retriedSetup.CardRequestID = "req-1"
	retriedSetup.TokenisedCardID = "tok-new"
	auth := cardEvent(domain.PaymentEventTypeCardAuthorization, "auth-1", "AUTHORIZED", 120, 2)
	auth.CardRequestID = "req-1"

	attempts := GetPaymentAttempts([]domain.PaymentEvent{auth, retriedSetup, failedSetup})

	require.Len(t, attempts, 2)
	card := attempts[0]
	assert.Equal(t, "auth-1", card.AttemptKey)
	assert.Equal(t, at(1), *card.InitiatedAt)
	assert.True(t, card.AttemptedAmount.Equal(amount(120)))
	assert.Equal(t, "tok-new", card.TokenisedCardID)
	assert.Equal(t, "req-1", attempts[1].AttemptKey)
}

func TestCardAttempt_IdentityFromFailedSetupWhenNoneSucceeded(t *testing.T) {
	failedSetup := cardEvent(domain.PaymentEventTypeCardPayerAuthenticationSetup, "", "FAILED", 90, 0)
	failedSetup.CardRequestID = "req-1"
	auth := cardEvent(domain.PaymentEventTypeCardAuthorization, "auth-1", "AUTHORIZED", 90, 2)
	auth.CardRequestID = "req-1"

	attempts := GetPaymentAttempts([]domain.PaymentEvent{auth, failedSetup})

	require.Len(t, attempts, 2)
	assert.Equal(t, at(0), *attempts[0].InitiatedAt)
}
