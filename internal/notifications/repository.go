// Package notifications stores in-app notices addressed to a single user and
// renders the notices sent on registration and payment review.
package notifications

import (
	"context"

	"github.com/rantaucash/rantaucash-api/internal/domain"
)

// Repository defines notification persistence.
type Repository interface {
	// CreateNotification returns ErrRecipientNotFound when UserID does not
	// reference a user.
	CreateNotification(ctx context.Context, n *domain.Notification) error
	GetNotification(ctx context.Context, id string) (*domain.Notification, error)
	// ListUserNotifications returns notifications newest first.
	ListUserNotifications(ctx context.Context, userID string, unreadOnly bool) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id string) (*domain.Notification, error)
	DeleteNotification(ctx context.Context, id string) error
}
