package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"slotwise/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		case "timezone":
			message = fmt.Sprintf("%s must be a valid IANA timezone", err.Field())
		case "len":
			message = fmt.Sprintf("%s must be exactly %s characters", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}

// CheckCustomFields verifies captured values against their definitions.
// Required fields must be present and every supplied value must match
// its declared type. Values for unknown field ids are rejected so typos
// surface instead of silently persisting.
func CheckCustomFields(defs []model.CustomField, values []model.CustomFieldValue) error {
	byID := make(map[string]*model.CustomField, len(defs))
	for i := range defs {
		byID[defs[i].ID] = &defs[i]
	}

	seen := make(map[string]bool, len(values))
	var errs ValidationErrors

	for _, value := range values {
		def, ok := byID[value.FieldID]
		if !ok {
			errs = append(errs, ValidationError{
				Field:   value.FieldID,
				Message: "unknown custom field",
			})
			continue
		}
		seen[def.ID] = true
		if value.Value == nil {
			continue
		}
		if err := def.CheckValue(value.Value); err != nil {
			errs = append(errs, ValidationError{
				Field:   def.Name,
				Message: err.Error(),
			})
		}
	}

	for i := range defs {
		if defs[i].Required && !seen[defs[i].ID] {
			errs = append(errs, ValidationError{
				Field:   defs[i].Name,
				Message: fmt.Sprintf("%s is required", defs[i].Label),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
