package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rantaucash/rantaucash-api/internal/domain"
	"github.com/rantaucash/rantaucash-api/internal/pkg/ctxlog"
	"github.com/rantaucash/rantaucash-api/internal/rooms"
)

// RoomReader looks up rooms. Implemented by rooms.Service.
type RoomReader interface {
	GetRoom(ctx context.Context, id string) (*domain.Room, error)
}

// PaymentStatusNotifier is told about every reviewed payment.
type PaymentStatusNotifier interface {
	OnPaymentStatusChanged(ctx context.Context, payment *domain.Payment) error
}

// Viewer is the authenticated caller.
type Viewer struct {
	UserID string
	Role   domain.Role
}

func (v Viewer) isAdmin() bool {
	return v.Role.HasPermission(domain.RoleAdmin)
}

// CreatePaymentInput holds a payment submission.
type CreatePaymentInput struct {
	RoomID string
	Amount int64
	Period string
	Method domain.PaymentMethod
	Note   string
}

// UpdateStatusInput holds an admin review decision.
type UpdateStatusInput struct {
	Status domain.PaymentStatus
	Note   string
}

// Service provides payment business logic.
type Service struct {
	repo     Repository
	rooms    RoomReader
	notifier PaymentStatusNotifier
	now      func() time.Time
}

// NewService creates a new payments service. notifier may be nil.
func NewService(repo Repository, rooms RoomReader, notifier PaymentStatusNotifier) *Service {
	return &Service{
		repo:     repo,
		rooms:    rooms,
		notifier: notifier,
		now:      time.Now,
	}
}

// ListPayments returns payments visible to viewer, newest first. Occupants
// only ever see their own payments regardless of filter.UserID.
func (s *Service) ListPayments(ctx context.Context, viewer Viewer, filter PaymentFilter) ([]*domain.Payment, error) {
	if filter.Status != "" && !validStatus(filter.Status) {
		return nil, ErrInvalidStatus
	}
	if !viewer.isAdmin() {
		filter.UserID = viewer.UserID
	}
	return s.repo.ListPayments(ctx, filter)
}

// GetPayment returns a payment owned by viewer, or any payment for an admin.
func (s *Service) GetPayment(ctx context.Context, viewer Viewer, id string) (*domain.Payment, error) {
	payment, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.isAdmin() && payment.UserID != viewer.UserID {
		return nil, ErrPaymentNotOwned
	}
	return payment, nil
}

// CreatePayment records a pending payment by userID for an existing room.
func (s *Service) CreatePayment(ctx context.Context, userID string, input CreatePaymentInput) (*domain.Payment, error) {
	if _, err := s.rooms.GetRoom(ctx, input.RoomID); err != nil {
		if errors.Is(err, rooms.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("get room: %w", err)
	}

	payment := &domain.Payment{
		UserID: userID,
		RoomID: input.RoomID,
		Amount: input.Amount,
		Period: input.Period,
		Method: input.Method,
		Status: domain.PaymentStatusPending,
		Note:   strings.TrimSpace(input.Note),
	}
	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}
	paymentsSubmitted.Inc()

	ctxlog.FromContext(ctx).Info("payment submitted",
		"payment_id", payment.ID,
		"room_id", payment.RoomID,
		"period", payment.Period,
	)
	return payment, nil
}

// UpdateStatus moves a pending payment to paid or rejected and notifies the
// payer. Notification failure does not undo the review.
func (s *Service) UpdateStatus(ctx context.Context, id string, input UpdateStatusInput) (*domain.Payment, error) {
	if input.Status != domain.PaymentStatusPaid && input.Status != domain.PaymentStatusRejected {
		return nil, ErrInvalidStatus
	}

	current, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.PaymentStatusPending {
		return nil, ErrInvalidTransition
	}

	note := strings.TrimSpace(input.Note)
	if note == "" {
		note = current.Note
	}

	var paidAt *time.Time
	if input.Status == domain.PaymentStatusPaid {
		t := s.now().UTC()
		paidAt = &t
	}

	payment, err := s.repo.UpdatePaymentStatus(ctx, id, input.Status, note, paidAt)
	if err != nil {
		return nil, err
	}
	paymentsReviewed.WithLabelValues(string(payment.Status)).Inc()

	logger := ctxlog.FromContext(ctx)
	logger.Info("payment reviewed", "payment_id", payment.ID, "status", payment.Status)

	if s.notifier != nil {
		if err := s.notifier.OnPaymentStatusChanged(ctx, payment); err != nil {
			logger.Warn("payment status hook failed",
				"payment_id", payment.ID,
				"error", err,
			)
		}
	}

	return payment, nil
}

// DeletePayment removes a payment.
func (s *Service) DeletePayment(ctx context.Context, id string) error {
	return s.repo.DeletePayment(ctx, id)
}

func validStatus(s domain.PaymentStatus) bool {
	switch s {
	case domain.PaymentStatusPending, domain.PaymentStatusPaid, domain.PaymentStatusRejected:
		return true
	}
	return false
}
