package service

import (
	"math"

	"inventory-manager/internal/model"
	"inventory-manager/pkg/validator"
)

// fieldMessages maps product fields to the message shown when their rule fails.
var fieldMessages = map[string]string{
	"Name":         "Product name cannot be empty",
	"Category":     "Category cannot be empty",
	"Price":        "Price cannot be negative",
	"Quantity":     "Quantity cannot be negative",
	"ReorderLevel": "Reorder level cannot be negative",
}

// validateProduct checks the product invariants and reports the first violation.
func validateProduct(v validator.Validator, p model.Product) error {
	if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
		return model.NewValidationError("Price must be a finite number")
	}

	err := v.Validate(p)
	if err == nil {
		return nil
	}

	fe, ok := validator.FirstFieldError(err)
	if !ok {
		return model.NewValidationError(err.Error())
	}
	if msg, known := fieldMessages[fe.Field()]; known {
		return model.NewValidationError(msg)
	}
	return model.NewValidationError(fe.Field() + " " + validator.ValidationErrorMessage(fe))
}
