package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rantaucash/rantaucash-api/internal/payments"
	pg "github.com/rantaucash/rantaucash-api/internal/pkg/postgres"
	"github.com/stretchr/testify/assert"
)

func TestMapCreateError(t *testing.T) {
	fkError := func(constraint string) error {
		return fmt.Errorf("insert: %w", &pgconn.PgError{Code: pg.ForeignKeyViolation, ConstraintName: constraint})
	}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"missing room", fkError("payments_room_id_fkey"), payments.ErrRoomNotFound},
		{"deleted payer", fkError("payments_user_id_fkey"), payments.ErrPayerNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapCreateError(tt.err), tt.want)
		})
	}

	t.Run("other failures are wrapped", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := mapCreateError(cause)
		assert.ErrorIs(t, err, cause)
		assert.NotErrorIs(t, err, payments.ErrRoomNotFound)
		assert.NotErrorIs(t, err, payments.ErrPayerNotFound)
	})

	t.Run("unknown foreign key is not a room error", func(t *testing.T) {
		err := mapCreateError(fkError("payments_other_fkey"))
		assert.NotErrorIs(t, err, payments.ErrRoomNotFound)
	})
}
