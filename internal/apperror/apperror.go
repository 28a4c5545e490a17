// Package apperror defines the error taxonomy shared by use cases and the HTTP layer.
package apperror

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindBusinessRule
	KindUnavailable
)

func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindBusinessRule:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindBusinessRule:
		return "business_rule"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error carries the kind, a translatable message and optional details.
// Message is the English text and doubles as the template when MessageID is unknown.
type Error struct {
	Kind      Kind
	MessageID string
	Data      map[string]interface{}
	Message   string
	Details   string
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinel errors by kind and message id.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.MessageID != "" && t.MessageID == e.MessageID
}

var (
	ErrInsufficientStock = &Error{Kind: KindBusinessRule, MessageID: "error.insufficient_stock", Message: "Insufficient stock quantity"}
	ErrCustomerHasOrders = &Error{Kind: KindBusinessRule, MessageID: "error.customer_has_orders", Message: "Cannot delete this customer because it has associated orders"}
	ErrOrderNotDeletable = &Error{Kind: KindBusinessRule, MessageID: "error.order_not_deletable", Message: "Cannot delete an order that is completed or delivered"}
	ErrEmailTaken        = &Error{Kind: KindConflict, MessageID: "error.email_taken", Message: "A user with this email address has already been registered"}
	ErrInvalidCreds      = &Error{Kind: KindUnauthenticated, MessageID: "error.invalid_credentials", Message: "Invalid email or password"}
	ErrMissingToken      = &Error{Kind: KindUnauthenticated, MessageID: "error.unauthenticated.missing_token", Message: "Missing or invalid authorization header"}
	ErrInvalidToken      = &Error{Kind: KindUnauthenticated, MessageID: "error.unauthenticated.invalid_token", Message: "Invalid or expired token"}
	ErrNoCompany         = &Error{Kind: KindForbidden, MessageID: "error.forbidden.no_company", Message: "Company not found for this user"}
	ErrSystemBusy        = &Error{Kind: KindUnavailable, MessageID: "error.system_busy", Message: "System busy, please try again later"}
)

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func NotFound(resource string) *Error {
	return &Error{
		Kind:      KindNotFound,
		MessageID: "error.not_found",
		Data:      map[string]interface{}{"Resource": resource},
		Message:   resource + " not found",
	}
}

func InvalidTransition(from, to string) *Error {
	return &Error{
		Kind:      KindBusinessRule,
		MessageID: "error.invalid_transition",
		Data:      map[string]interface{}{"From": from, "To": to},
		Message:   fmt.Sprintf("Cannot change order status from %s to %s", from, to),
	}
}

func Internal(err error) *Error {
	msg := "internal server error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// As extracts an *Error from err's chain. Unknown errors become Internal,
// datastore errors go through FromDB first.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return FromDB(err)
}

// FromDB maps datastore errors onto the taxonomy: missing rows are 404,
// integrity violations (SQLSTATE class 23) are 400 with the driver message as details.
func FromDB(err error) *Error {
	if errors.Is(err, sql.ErrNoRows) {
		return &Error{Kind: KindNotFound, MessageID: "error.not_found", Data: map[string]interface{}{"Resource": "Resource"}, Message: "Resource not found", Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "23"):
			return &Error{
				Kind:      KindValidation,
				MessageID: "error.constraint_violation",
				Message:   "Database constraint violation",
				Details:   pgErr.Message,
				Err:       err,
			}
		case pgErr.Code == "22P02":
			return &Error{
				Kind:      KindValidation,
				MessageID: "error.invalid_input",
				Message:   "Invalid input syntax",
				Details:   pgErr.Message,
				Err:       err,
			}
		}
	}
	return Internal(err)
}

// IsUniqueViolation reports whether err is a Postgres unique_violation, optionally on constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// IsForeignKeyViolation reports whether err is a Postgres foreign_key_violation.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
