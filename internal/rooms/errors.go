package rooms

import "errors"

// Service errors.
var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomNumberExists  = errors.New("room number already exists")
	ErrOccupantRequired  = errors.New("occupied room requires an occupant")
	ErrOccupantNotFound  = errors.New("occupant not found")
	ErrRoomHasPayments   = errors.New("room has payments")
	ErrInvalidRoomStatus = errors.New("invalid room status")
)
