package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

func init() {
	// Register custom validation for UUID
	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})
}

// StructLevel is handed to cross-field rules registered below.
type StructLevel = validator.StructLevel

// RegisterStructValidation adds a cross-field rule for the given struct types.
func RegisterStructValidation(fn func(StructLevel), types ...interface{}) {
	validate.RegisterStructValidation(fn, types...)
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errs []*ErrorResponse
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []*ErrorResponse{{FailedField: "", Tag: "invalid", Value: err.Error()}}
	}
	for _, err := range verrs {
		errs = append(errs, &ErrorResponse{
			FailedField: err.StructNamespace(),
			Tag:         err.Tag(),
			Value:       err.Param(),
		})
	}
	return errs
}
