// internal/pkg/apperror/errors.go
package apperror

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Error kinds. Every error returned by the domain services wraps exactly one of these.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrValidation  = errors.New("validation failed")
	ErrTransaction = errors.New("transaction failed")
)

// Error is a typed domain failure carrying the kind and, where relevant, the entity involved
type Error struct {
	Kind    error
	Entity  string
	ID      any
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == ErrNotFound && e.ID != nil:
		return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
	case e.Kind == ErrNotFound:
		return e.Entity + " not found"
	case e.Kind == ErrTransaction && e.Err != nil:
		return "transaction failed: " + e.Err.Error()
	case e.Entity != "" && e.Message != "":
		return e.Entity + ": " + e.Message
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Kind.Error()
	}
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As
func (e *Error) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NotFound reports a missing entity, e.g. NotFound("menu item", 7)
func NotFound(entity string, id any) *Error {
	return &Error{Kind: ErrNotFound, Entity: entity, ID: id}
}

// Conflict reports a uniqueness or reference violation
func Conflict(entity, format string, args ...any) *Error {
	return &Error{Kind: ErrConflict, Entity: entity, Message: fmt.Sprintf(format, args...)}
}

// DuplicateName is the Conflict raised when a unique name is already taken
func DuplicateName(entity, name string) *Error {
	return Conflict(entity, "name %q already exists", name)
}

// Validation reports malformed input
func Validation(format string, args ...any) *Error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// Transaction reports a storage-level failure while committing a unit of work
func Transaction(err error) *Error {
	return &Error{Kind: ErrTransaction, Err: err}
}

// EntityOf returns the entity named by a typed error, or "" if err carries none
func EntityOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Entity
	}
	return ""
}

// FromDB translates storage errors into the domain taxonomy. Errors that are
// already typed, and errors it does not recognise, are returned unchanged.
func FromDB(err error, entity string) error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &Error{Kind: ErrNotFound, Entity: entity, Err: err}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &Error{Kind: ErrConflict, Entity: entity, Message: "already exists", Err: err}
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return &Error{Kind: ErrConflict, Entity: entity, Message: "violates a reference to another record", Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return &Error{Kind: ErrConflict, Entity: entity, Message: "already exists", Err: err}
		case pgerrcode.ForeignKeyViolation, pgerrcode.RestrictViolation:
			return &Error{Kind: ErrConflict, Entity: entity, Message: "violates a reference to another record", Err: err}
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			return &Error{Kind: ErrValidation, Entity: entity, Message: pgErr.Message, Err: err}
		}
	}

	return err
}

// FromTx classifies the result of a transaction: typed errors raised inside
// the unit of work pass through, anything else is a storage failure.
func FromTx(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return Transaction(err)
}

// Retryable reports whether err is a transient Postgres conflict that a new
// attempt of the same transaction may resolve.
func Retryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}
	return false
}
