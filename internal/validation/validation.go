package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"cafe-system/internal/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateSeed checks catalog seed data before a catalog is built from it
func ValidateSeed(entries []models.SeedEntry) error {
	if len(entries) == 0 {
		return ValidationError{
			Field:   "menu",
			Message: "menu cannot be empty",
		}
	}

	seen := make(map[string]bool, len(entries))
	for i, entry := range entries {
		if err := validateEntry(entry, i); err != nil {
			return err
		}

		key := entry.Category + "\x00" + entry.Name
		if seen[key] {
			return ValidationError{
				Field:   fmt.Sprintf("menu[%d].name", i),
				Message: fmt.Sprintf("%s is listed twice in %s", entry.Name, entry.Category),
			}
		}
		seen[key] = true
	}
	return nil
}

func validateEntry(entry models.SeedEntry, index int) error {
	if err := validate.Struct(entry); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return ValidationError{
				Field:   fmt.Sprintf("menu[%d].%s", index, strings.ToLower(fe.Field())),
				Message: describe(fe),
			}
		}
		return fmt.Errorf("validate menu[%d]: %w", index, err)
	}

	if entry.Price.IsNegative() {
		return ValidationError{
			Field:   fmt.Sprintf("menu[%d].price", index),
			Message: "price must not be negative",
		}
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
