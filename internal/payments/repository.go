// Package payments records rent payments and their review by an admin.
package payments

import (
	"context"
	"time"

	"github.com/rantaucash/rantaucash-api/internal/domain"
)

// PaymentFilter narrows ListPayments. Zero values match everything.
type PaymentFilter struct {
	UserID string
	Status domain.PaymentStatus
}

// Repository defines payment persistence. Lookups return ErrPaymentNotFound
// when no row matches.
type Repository interface {
	ListPayments(ctx context.Context, filter PaymentFilter) ([]*domain.Payment, error)
	GetPayment(ctx context.Context, id string) (*domain.Payment, error)
	CreatePayment(ctx context.Context, payment *domain.Payment) error
	// UpdatePaymentStatus moves a pending payment to status. It returns
	// ErrInvalidTransition when the stored payment is no longer pending.
	UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus, note string, paidAt *time.Time) (*domain.Payment, error)
	DeletePayment(ctx context.Context, id string) error
}
