package validator

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"slotwise/pkg/logger"
	"slotwise/pkg/model"
)

var timeOfDayRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type SettingsValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewSettingsValidator(log *logger.Logger) *SettingsValidator {
	v := validator.New()

	log.Info("Settings validator initialized successfully")

	return &SettingsValidator{
		validate: v,
		logger:   log,
	}
}

func (v *SettingsValidator) ValidateUpdate(update *model.BookingSettingsUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}

	if update.Availability != nil {
		if err := v.checkAvailability(*update.Availability); err != nil {
			return err
		}
	}

	return nil
}

// checkAvailability verifies weekday names and that each open window is
// a well ordered HH:MM pair. A nil window means the day is closed.
func (v *SettingsValidator) checkAvailability(availability map[string]*model.DayWindow) error {
	known := make(map[string]bool, len(model.Weekdays))
	for _, day := range model.Weekdays {
		known[day] = true
	}

	var errs ValidationErrors
	for day, window := range availability {
		if !known[day] {
			errs = append(errs, ValidationError{
				Field:   day,
				Message: "unknown weekday name",
			})
			continue
		}
		if window == nil {
			continue
		}
		if !timeOfDayRegex.MatchString(window.Start) || !timeOfDayRegex.MatchString(window.End) {
			errs = append(errs, ValidationError{
				Field:   day,
				Message: fmt.Sprintf("window times must be HH:MM, got %q-%q", window.Start, window.End),
			})
			continue
		}
		if window.Start >= window.End {
			errs = append(errs, ValidationError{
				Field:   day,
				Message: fmt.Sprintf("window start %s must be before end %s", window.Start, window.End),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
