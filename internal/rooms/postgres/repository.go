// Package postgres provides PostgreSQL implementation of the rooms repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rantaucash/rantaucash-api/internal/domain"
	"github.com/rantaucash/rantaucash-api/internal/pkg/postgres"
	"github.com/rantaucash/rantaucash-api/internal/rooms"
)

const roomColumns = `id, number, name, description, price, status, occupant_id, created_at, updated_at`

// Repository implements rooms.Repository.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListRooms returns rooms ordered by number.
func (r *Repository) ListRooms(ctx context.Context, filter rooms.RoomFilter) ([]*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms`
	var args []interface{}
	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY number`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	var result []*domain.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		result = append(result, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rooms: %w", err)
	}
	return result, nil
}

// GetRoom retrieves a room by ID.
func (r *Repository) GetRoom(ctx context.Context, id string) (*domain.Room, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, rooms.ErrRoomNotFound
	}

	row := r.db.QueryRow(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id)
	room, err := scanRoom(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, rooms.ErrRoomNotFound
		}
		return nil, fmt.Errorf("get room: %w", err)
	}
	return room, nil
}

// CreateRoom inserts room and fills ID and timestamps.
func (r *Repository) CreateRoom(ctx context.Context, room *domain.Room) error {
	query := `
		INSERT INTO rooms (number, name, description, price, status, occupant_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		room.Number,
		room.Name,
		room.Description,
		room.Price,
		room.Status,
		room.OccupantID,
	).Scan(&room.ID, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		return mapWriteError("create room", err)
	}
	return nil
}

// UpdateRoom writes every mutable column of room.
func (r *Repository) UpdateRoom(ctx context.Context, room *domain.Room) error {
	query := `
		UPDATE rooms
		SET number = $2, name = $3, description = $4, price = $5, status = $6,
		    occupant_id = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		room.ID,
		room.Number,
		room.Name,
		room.Description,
		room.Price,
		room.Status,
		room.OccupantID,
	).Scan(&room.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rooms.ErrRoomNotFound
		}
		return mapWriteError("update room", err)
	}
	return nil
}

// DeleteRoom deletes a room by ID.
func (r *Repository) DeleteRoom(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return rooms.ErrRoomNotFound
	}

	result, err := r.db.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return rooms.ErrRoomHasPayments
		}
		return fmt.Errorf("delete room: %w", err)
	}
	if result.RowsAffected() == 0 {
		return rooms.ErrRoomNotFound
	}
	return nil
}

func mapWriteError(op string, err error) error {
	switch {
	case postgres.IsUniqueViolation(err):
		return rooms.ErrRoomNumberExists
	case postgres.IsForeignKeyViolation(err):
		return rooms.ErrOccupantNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func scanRoom(row pgx.Row) (*domain.Room, error) {
	var room domain.Room
	err := row.Scan(
		&room.ID,
		&room.Number,
		&room.Name,
		&room.Description,
		&room.Price,
		&room.Status,
		&room.OccupantID,
		&room.CreatedAt,
		&room.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &room, nil
}
