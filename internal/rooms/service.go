package rooms

import (
	"context"
	"strings"

	"github.com/rantaucash/rantaucash-api/internal/domain"
	"github.com/rantaucash/rantaucash-api/internal/pkg/ctxlog"
)

// RoomInput holds the writable fields of a room.
type RoomInput struct {
	Number      string
	Name        string
	Description string
	Price       int64
	Status      domain.RoomStatus
	OccupantID  *string
}

// Service provides room business logic.
type Service struct {
	repo Repository
}

// NewService creates a new rooms service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListRooms returns rooms ordered by number.
func (s *Service) ListRooms(ctx context.Context, filter RoomFilter) ([]*domain.Room, error) {
	if filter.Status != "" && !validStatus(filter.Status) {
		return nil, ErrInvalidRoomStatus
	}
	return s.repo.ListRooms(ctx, filter)
}

// GetRoom returns the room with the given ID.
func (s *Service) GetRoom(ctx context.Context, id string) (*domain.Room, error) {
	return s.repo.GetRoom(ctx, id)
}

// CreateRoom stores a new room. Status defaults to available.
func (s *Service) CreateRoom(ctx context.Context, input RoomInput) (*domain.Room, error) {
	room := &domain.Room{}
	if err := apply(room, input); err != nil {
		return nil, err
	}

	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return nil, err
	}

	ctxlog.FromContext(ctx).Info("room created", "room_id", room.ID, "number", room.Number)
	return room, nil
}

// UpdateRoom replaces the writable fields of an existing room.
func (s *Service) UpdateRoom(ctx context.Context, id string, input RoomInput) (*domain.Room, error) {
	room, err := s.repo.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := apply(room, input); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// DeleteRoom removes a room.
func (s *Service) DeleteRoom(ctx context.Context, id string) error {
	if err := s.repo.DeleteRoom(ctx, id); err != nil {
		return err
	}

	ctxlog.FromContext(ctx).Info("room deleted", "room_id", id)
	return nil
}

// apply copies input onto room. Only an occupied room keeps its occupant.
func apply(room *domain.Room, input RoomInput) error {
	status := input.Status
	if status == "" {
		status = domain.RoomStatusAvailable
	}
	if !validStatus(status) {
		return ErrInvalidRoomStatus
	}

	occupant := input.OccupantID
	if occupant != nil && strings.TrimSpace(*occupant) == "" {
		occupant = nil
	}
	if status == domain.RoomStatusOccupied && occupant == nil {
		return ErrOccupantRequired
	}
	if status != domain.RoomStatusOccupied {
		occupant = nil
	}

	room.Number = strings.TrimSpace(input.Number)
	room.Name = strings.TrimSpace(input.Name)
	room.Description = input.Description
	room.Price = input.Price
	room.Status = status
	room.OccupantID = occupant
	return nil
}

func validStatus(s domain.RoomStatus) bool {
	switch s {
	case domain.RoomStatusAvailable, domain.RoomStatusOccupied, domain.RoomStatusMaintenance:
		return true
	}
	return false
}
