package apperror

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestKindHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:      http.StatusBadRequest,
		KindBusinessRule:    http.StatusBadRequest,
		KindUnauthenticated: http.StatusUnauthorized,
		KindForbidden:       http.StatusForbidden,
		KindNotFound:        http.StatusNotFound,
		KindConflict:        http.StatusConflict,
		KindUnavailable:     http.StatusServiceUnavailable,
		KindInternal:        http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.HTTPStatus(), kind.String())
	}
}

func TestFromDBNoRows(t *testing.T) {
	e := FromDB(fmt.Errorf("failed to get order: %w", sql.ErrNoRows))
	assert.Equal(t, KindNotFound, e.Kind)
}

func TestFromDBConstraintViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503", Message: `insert or update on table "orders" violates foreign key constraint`}
	e := FromDB(fmt.Errorf("failed to insert order: %w", pgErr))

	assert.Equal(t, KindValidation, e.Kind)
	assert.Equal(t, "Database constraint violation", e.Message)
	assert.Equal(t, pgErr.Message, e.Details)
}

func TestFromDBInvalidTextRepresentation(t *testing.T) {
	e := FromDB(&pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"})
	assert.Equal(t, KindValidation, e.Kind)
}

func TestFromDBUnknownIsInternalWithRawMessage(t *testing.T) {
	e := FromDB(errors.New("connection reset by peer"))
	assert.Equal(t, KindInternal, e.Kind)
	assert.Equal(t, "connection reset by peer", e.Message)
}

func TestAsKeepsTypedErrors(t *testing.T) {
	wrapped := fmt.Errorf("record movement: %w", ErrInsufficientStock)
	assert.Same(t, ErrInsufficientStock, As(wrapped))
	assert.True(t, errors.Is(wrapped, ErrInsufficientStock))
	assert.False(t, errors.Is(wrapped, ErrCustomerHasOrders))
	assert.Nil(t, As(nil))
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "orders_company_number_key"})
	assert.True(t, IsUniqueViolation(err, ""))
	assert.True(t, IsUniqueViolation(err, "orders_company_number_key"))
	assert.False(t, IsUniqueViolation(err, "users_email_key"))
	assert.False(t, IsUniqueViolation(errors.New("boom"), ""))
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsForeignKeyViolation(err))
}

func TestInvalidTransitionMessage(t *testing.T) {
	e := InvalidTransition("completed", "draft")
	assert.Equal(t, KindBusinessRule, e.Kind)
	assert.Equal(t, "Cannot change order status from completed to draft", e.Error())
}
