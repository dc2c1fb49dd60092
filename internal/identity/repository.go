// Package identity implements registration, login and profile lookup on top
// of bcrypt password hashes and stateless access tokens.
package identity

import (
	"context"

	"github.com/rantaucash/rantaucash-api/internal/domain"
)

// Repository defines user persistence. Lookups return ErrUserNotFound when no
// row matches; CreateUser returns ErrEmailExists on a uniqueness conflict.
type Repository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}
