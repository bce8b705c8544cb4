package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/josh-kwaku/payment-attempts/internal/domain"
)

type paymentEventRepository interface {
	GetByPaymentRequestID(ctx context.Context, paymentRequestID uuid.UUID) ([]domain.PaymentEvent, error)
}
