package notifications

import (
	"context"
	"fmt"
	"strings"

	"github.com/rantaucash/rantaucash-api/internal/domain"
	"github.com/rantaucash/rantaucash-api/internal/pkg/ctxlog"
)

// SendInput is a notification written by an admin.
type SendInput struct {
	UserID  string
	Title   string
	Message string
}

// Service provides notifications business logic.
type Service struct {
	repo     Repository
	renderer *Renderer
}

// NewService creates a new notifications service.
func NewService(repo Repository, renderer *Renderer) *Service {
	return &Service{
		repo:     repo,
		renderer: renderer,
	}
}

// ListNotifications returns the user's notifications, newest first.
func (s *Service) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]*domain.Notification, error) {
	return s.repo.ListUserNotifications(ctx, userID, unreadOnly)
}

// MarkRead marks one of the user's notifications as read.
func (s *Service) MarkRead(ctx context.Context, userID, id string) (*domain.Notification, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.repo.MarkRead(ctx, id)
}

// DeleteNotification deletes one of the user's notifications.
func (s *Service) DeleteNotification(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.DeleteNotification(ctx, id)
}

// Send stores a free-form notification for input.UserID.
func (s *Service) Send(ctx context.Context, input SendInput) (*domain.Notification, error) {
	return s.create(ctx, kindManual, input.UserID, strings.TrimSpace(input.Title), strings.TrimSpace(input.Message))
}

// OnUserCreated greets a newly registered user.
func (s *Service) OnUserCreated(ctx context.Context, user *domain.User) error {
	title, msg, err := s.renderer.Render(KindWelcome, TemplateData{Name: user.Name})
	if err != nil {
		return err
	}
	_, err = s.create(ctx, string(KindWelcome), user.ID, title, msg)
	return err
}

// OnPaymentStatusChanged tells the payer how their payment was reviewed.
// Payments still pending are ignored.
func (s *Service) OnPaymentStatusChanged(ctx context.Context, payment *domain.Payment) error {
	var kind Kind
	switch payment.Status {
	case domain.PaymentStatusPaid:
		kind = KindPaymentPaid
	case domain.PaymentStatusRejected:
		kind = KindPaymentRejected
	default:
		return nil
	}

	title, msg, err := s.renderer.Render(kind, TemplateData{
		Amount: payment.Amount,
		Period: payment.Period,
		Method: payment.Method,
		Note:   payment.Note,
		PaidAt: payment.PaidAt,
	})
	if err != nil {
		return err
	}
	_, err = s.create(ctx, string(kind), payment.UserID, title, msg)
	return err
}

func (s *Service) create(ctx context.Context, kind, userID, title, msg string) (*domain.Notification, error) {
	n := &domain.Notification{
		UserID:  userID,
		Title:   title,
		Message: msg,
	}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		return nil, fmt.Errorf("create %s notification: %w", kind, err)
	}
	recordCreated(kind)

	ctxlog.FromContext(ctx).Debug("notification created",
		"notification_id", n.ID,
		"recipient_id", userID,
		"kind", kind,
	)
	return n, nil
}

func (s *Service) owned(ctx context.Context, userID, id string) (*domain.Notification, error) {
	n, err := s.repo.GetNotification(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, ErrNotificationNotOwned
	}
	return n, nil
}
