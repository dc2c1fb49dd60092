// Package postgres provides PostgreSQL implementation of the payments repository.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rantaucash/rantaucash-api/internal/domain"
	"github.com/rantaucash/rantaucash-api/internal/payments"
	"github.com/rantaucash/rantaucash-api/internal/pkg/postgres"
)

const paymentColumns = `id, user_id, room_id, amount, period, method, status, note, paid_at, created_at, updated_at`

// Repository implements payments.Repository.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListPayments returns payments matching filter, newest first.
func (r *Repository) ListPayments(ctx context.Context, filter payments.PaymentFilter) ([]*domain.Payment, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.UserID != "" {
		if _, err := uuid.Parse(filter.UserID); err != nil {
			return nil, nil
		}
		args = append(args, filter.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + paymentColumns + ` FROM payments`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var result []*domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return result, nil
}

// GetPayment retrieves a payment by ID.
func (r *Repository) GetPayment(ctx context.Context, id string) (*domain.Payment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, payments.ErrPaymentNotFound
	}

	row := r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, payments.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

// CreatePayment inserts payment and fills ID and timestamps.
func (r *Repository) CreatePayment(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (user_id, room_id, amount, period, method, status, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		payment.UserID,
		payment.RoomID,
		payment.Amount,
		payment.Period,
		payment.Method,
		payment.Status,
		payment.Note,
	).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		return mapCreateError(err)
	}
	return nil
}

// Constraint names Postgres generates for the inline references in
// migrations/000001_init.up.sql.
const (
	roomForeignKey  = "payments_room_id_fkey"
	payerForeignKey = "payments_user_id_fkey"
)

// mapCreateError classifies insert failures. The room can vanish between the
// service's lookup and the insert; the payer can be deleted while their
// token is still valid.
func mapCreateError(err error) error {
	if postgres.IsForeignKeyViolation(err) {
		switch postgres.ViolatedConstraint(err) {
		case roomForeignKey:
			return payments.ErrRoomNotFound
		case payerForeignKey:
			return payments.ErrPayerNotFound
		}
	}
	return fmt.Errorf("create payment: %w", err)
}

// UpdatePaymentStatus moves a pending payment to status.
func (r *Repository) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus, note string, paidAt *time.Time) (*domain.Payment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, payments.ErrPaymentNotFound
	}

	query := `
		UPDATE payments
		SET status = $2, note = $3, paid_at = $4, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + paymentColumns

	p, err := scanPayment(r.db.QueryRow(ctx, query, id, status, note, paidAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetPayment(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, payments.ErrInvalidTransition
		}
		return nil, fmt.Errorf("update payment status: %w", err)
	}
	return p, nil
}

// DeletePayment deletes a payment by ID.
func (r *Repository) DeletePayment(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return payments.ErrPaymentNotFound
	}

	result, err := r.db.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return payments.ErrPaymentNotFound
	}
	return nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.RoomID,
		&p.Amount,
		&p.Period,
		&p.Method,
		&p.Status,
		&p.Note,
		&p.PaidAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
