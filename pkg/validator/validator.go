package validator

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validator validates struct values against their `validate` tags.
type Validator interface {
	// Validate validates the given struct
	Validate(s any) error
}

type DefaultValidator struct {
	v *validator.Validate
}

// NewDefaultValidator creates a validator that checks every field and reports
// failures in struct field order.
func NewDefaultValidator() *DefaultValidator {
	return &DefaultValidator{v: validator.New(validator.WithRequiredStructEnabled())}
}

func (v DefaultValidator) Validate(s any) error {
	return v.v.Struct(s)
}

// FirstFieldError returns the first field failure carried by err, if any.
func FirstFieldError(err error) (validator.FieldError, bool) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return nil, false
	}
	return ve[0], true
}

// ValidationErrorMessage renders a generic message for a field failure.
func ValidationErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return "is invalid"
	}
}
