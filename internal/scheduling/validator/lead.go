package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"slotwise/pkg/logger"
	"slotwise/pkg/model"
)

type LeadValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewLeadValidator(log *logger.Logger) *LeadValidator {
	v := validator.New()

	log.Info("Lead validator initialized successfully")

	return &LeadValidator{
		validate: v,
		logger:   log,
	}
}

func (v *LeadValidator) Validate(lead *model.Lead) error {
	if err := v.validate.Struct(lead); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *LeadValidator) ValidateUpdate(update *model.LeadUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}
