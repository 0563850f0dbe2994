// package validation provides helper functions for request data validation.
// It uses the go-playground/validator library and includes custom validation rules.
package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// init registers custom validation rules with the validator instance.
// This function runs automatically when the package is imported.
func init() {
	// record_status restricts a field to the record lifecycle states.
	err := validate.RegisterValidation("record_status", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "", "Open", "Investigating", "Resolved", "Closed":
			// Empty strings are handled by the 'required' tag.
			return true
		}

		return false
	})
	if err != nil {
		panic(fmt.Sprintf("failed to register custom validation: %v", err))
	}

	// priority restricts a field to the supported priority levels.
	err = validate.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "", "Low", "Medium", "High", "Critical":
			return true
		}

		return false
	})
	if err != nil {
		panic(fmt.Sprintf("failed to register custom validation: %v", err))
	}
}

// ValidationError is a custom error type that holds a slice of validation error messages.
type ValidationError struct {
	Errors []string
}

// Error returns a single string concatenating all validation error messages.
func (v *ValidationError) Error() string {
	return strings.Join(v.Errors, ", ")
}

// ValidateStruct performs validation on a given struct based on its validation tags.
// If validation fails, it returns a *ValidationError with user-friendly messages.
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		var validationErrors []string

		// Cast the error to validator.ValidationErrors to iterate over individual field errors.
		for _, err := range err.(validator.ValidationErrors) {
			var message string

			switch err.Tag() {
			case "record_status":
				message = fmt.Sprintf(
					"field '%s' must be one of Open, Investigating, Resolved, Closed",
					err.Field(),
				)
			case "priority":
				message = fmt.Sprintf(
					"field '%s' must be one of Low, Medium, High, Critical",
					err.Field(),
				)
			default:
				// Default message for other standard validation tags like 'required', 'min', 'max', etc.
				message = fmt.Sprintf(
					"field '%s' failed on the '%s' tag",
					err.Field(),
					err.Tag(),
				)
			}
			validationErrors = append(validationErrors, message)
		}

		return &ValidationError{Errors: validationErrors}
	}

	return nil
}
