// Package rooms manages the rentable units of the property.
package rooms

import (
	"context"

	"github.com/rantaucash/rantaucash-api/internal/domain"
)

// RoomFilter narrows ListRooms. Zero values match everything.
type RoomFilter struct {
	Status domain.RoomStatus
}

// Repository defines room persistence.
//
// Lookups return ErrRoomNotFound when no row matches. Writes return
// ErrRoomNumberExists on a duplicate number and ErrOccupantNotFound when the
// occupant does not reference a user. DeleteRoom returns ErrRoomHasPayments
// while payments still reference the room.
type Repository interface {
	ListRooms(ctx context.Context, filter RoomFilter) ([]*domain.Room, error)
	GetRoom(ctx context.Context, id string) (*domain.Room, error)
	CreateRoom(ctx context.Context, room *domain.Room) error
	UpdateRoom(ctx context.Context, room *domain.Room) error
	DeleteRoom(ctx context.Context, id string) error
}
