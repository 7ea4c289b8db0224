// Package apperror holds the error taxonomy shared by services, repositories
// and handlers. Callers classify errors with errors.Is against the sentinels
// below and errors.As against *ValidationError.
package apperror

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrTypeNotFound        = errors.New("transaction type not found")
	ErrItemNotFound        = errors.New("item not found")
	ErrNotFound            = errors.New("record not found")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

// ValidationError is returned when a request is rejected before it reaches
// the ledger.
type ValidationError struct {
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed: " + e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("field '%s' failed on tag '%s'", f.Field, f.Tag))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func Validation(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// FromDB translates a gorm/driver error into the taxonomy. Errors already in
// the taxonomy pass through untouched.
func FromDB(err error) error {
	if err == nil {
		return nil
	}
	if IsDomain(err) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: duplicate value", ErrConstraintViolation)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: record is still referenced", ErrConstraintViolation)
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}

// IsDomain reports whether err already belongs to the taxonomy.
func IsDomain(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) ||
		errors.Is(err, ErrTypeNotFound) ||
		errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConstraintViolation) ||
		errors.Is(err, ErrStorageUnavailable) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden)
}

// IsCallerFault separates errors the caller can fix from storage faults.
func IsCallerFault(err error) bool {
	return IsDomain(err) && !errors.Is(err, ErrStorageUnavailable)
}
