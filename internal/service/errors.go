package service

import (
	"kkp-asta/internal/apperror"
	"kkp-asta/pkg/validator"
)

// validationError converts validator output into the shared error type.
func validationError(errs []*validator.ErrorResponse) error {
	if len(errs) == 0 {
		return nil
	}
	ve := &apperror.ValidationError{Message: "request rejected"}
	for _, e := range errs {
		ve.Fields = append(ve.Fields, apperror.FieldError{Field: e.FailedField, Tag: e.Tag, Param: e.Value})
	}
	return ve
}
