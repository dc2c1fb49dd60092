package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRejected PaymentStatus = "rejected"
)

type PaymentMethod string

const (
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodEwallet  PaymentMethod = "ewallet"
)

// Payment is a rent payment submitted by an occupant for one period (YYYY-MM).
type Payment struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	RoomID    string        `json:"room_id"`
	Amount    int64         `json:"amount"`
	Period    string        `json:"period"`
	Method    PaymentMethod `json:"method"`
	Status    PaymentStatus `json:"status"`
	Note      string        `json:"note"`
	PaidAt    *time.Time    `json:"paid_at"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
