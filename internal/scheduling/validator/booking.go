package validator

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"slotwise/pkg/logger"
	"slotwise/pkg/model"
)

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}

	if booking.StartTime.Before(time.Now()) {
		return ValidationErrors{
			ValidationError{
				Field:   "StartTime",
				Message: "startTime cannot be in the past",
			},
		}
	}

	return nil
}

func (v *BookingValidator) ValidateUpdate(update *model.BookingUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}

	if update.StartTime != nil && update.EndTime != nil {
		if !update.EndTime.After(*update.StartTime) {
			return ValidationErrors{
				ValidationError{
					Field:   "EndTime",
					Message: "endTime must be after startTime",
				},
			}
		}
	}

	return nil
}

func (v *BookingValidator) ValidateSearch(search *model.BookingSearch) error {
	if search.Email == "" && search.Name == "" && search.Phone == "" {
		return ValidationErrors{
			ValidationError{
				Field:   "search",
				Message: "at least one of email, name or phone is required",
			},
		}
	}
	return nil
}
