package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/payment-attempts/internal/domain"
	"github.com/josh-kwaku/payment-attempts/internal/testutil"
)

func TestPaymentEventRepository_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := testutil.SetupTestDB(t)
	repo := NewPaymentEventRepository(db)
	ctx := context.Background()

	capture := testutil.NewCardEvent(domain.PaymentEventTypeCardCapture, "auth-1", "PENDING", 50, 2)
	auth := testutil.NewCardEvent(domain.PaymentEventTypeCardAuthorization, "auth-1", "AUTHORIZED", 50, 1)
	auth.CardRequestID = "req-1"
	auth.WalletName = "google_pay"
	testutil.SeedPaymentEvent(t, db, capture)
	testutil.SeedPaymentEvent(t, db, auth)

	events, err := repo.GetByPaymentRequestID(ctx, testutil.PaymentRequestID)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, domain.PaymentEventTypeCardAuthorization, events[0].EventType)
	assert.Equal(t, "req-1", events[0].CardRequestID)
	assert.Equal(t, "google_pay", events[0].WalletName)
	assert.True(t, events[0].InsertedAt.Equal(auth.InsertedAt))
	assert.True(t, events[0].Amount.Equal(auth.Amount))

	assert.Equal(t, domain.PaymentEventTypeCardCapture, events[1].EventType)
	assert.Empty(t, events[1].CardRequestID)
	assert.Empty(t, events[1].ErrorMessage)
}
