package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"slotwise/pkg/logger"
	"slotwise/pkg/model"
)

type EventTypeValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewEventTypeValidator(log *logger.Logger) *EventTypeValidator {
	v := validator.New()

	log.Info("Event type validator initialized successfully")

	return &EventTypeValidator{
		validate: v,
		logger:   log,
	}
}

func (v *EventTypeValidator) Validate(eventType *model.EventType) error {
	if err := v.validate.Struct(eventType); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return v.checkFieldDefinitions(eventType.CustomFields)
}

func (v *EventTypeValidator) ValidateUpdate(update *model.EventTypeUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	if update.CustomFields != nil {
		return v.checkFieldDefinitions(*update.CustomFields)
	}
	return nil
}

// checkFieldDefinitions enforces what struct tags cannot express on
// nested fields: select types need options, names must be unique.
func (v *EventTypeValidator) checkFieldDefinitions(fields []model.CustomField) error {
	var errs ValidationErrors
	names := make(map[string]bool, len(fields))

	for _, field := range fields {
		if err := v.validate.Struct(field); err != nil {
			var validationErrs validator.ValidationErrors
			if errors.As(err, &validationErrs) {
				errs = append(errs, translateValidationErrors(validationErrs)...)
				continue
			}
			return err
		}
		if names[field.Name] {
			errs = append(errs, ValidationError{
				Field:   field.Name,
				Message: "duplicate custom field name",
			})
		}
		names[field.Name] = true

		switch field.Type {
		case model.FieldTypeSelect, model.FieldTypeMultiselect:
			if len(field.Options) == 0 {
				errs = append(errs, ValidationError{
					Field:   field.Name,
					Message: "select fields require at least one option",
				})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
