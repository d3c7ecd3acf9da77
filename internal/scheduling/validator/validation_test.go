package validator

import (
	"errors"
	"io"
	"strings"
	"testing"

	"slotwise/pkg/logger"
	"slotwise/pkg/model"
)

func newTestLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  "json",
		Output:  io.Discard,
		Service: "test",
	})
}

func leadFieldDefs() []model.CustomField {
	return []model.CustomField{
		{ID: "f-budget", Name: "budget", Label: "Budget", Type: model.FieldTypeNumber, Required: true},
		{ID: "f-region", Name: "region", Label: "Region", Type: model.FieldTypeSelect, Options: []string{"EU", "US"}},
		{ID: "f-topics", Name: "topics", Label: "Topics", Type: model.FieldTypeMultiselect, Options: []string{"sales", "support"}},
	}
}

func TestCheckCustomFields_Valid(t *testing.T) {
	err := CheckCustomFields(leadFieldDefs(), []model.CustomFieldValue{
		{FieldID: "f-budget", Value: 5000},
		{FieldID: "f-region", Value: "EU"},
		{FieldID: "f-topics", Value: []string{"sales"}},
	})
	if err != nil {
		t.Fatalf("valid values rejected: %v", err)
	}
}

func TestCheckCustomFields_StringifiedScalarsAccepted(t *testing.T) {
	// Agents routinely send numbers as strings.
	err := CheckCustomFields(leadFieldDefs(), []model.CustomFieldValue{
		{FieldID: "f-budget", Value: "5000"},
	})
	if err != nil {
		t.Fatalf("stringified number rejected: %v", err)
	}
}

func TestCheckCustomFields_MissingRequired(t *testing.T) {
	err := CheckCustomFields(leadFieldDefs(), nil)
	var errs ValidationErrors
	if !errors.As(err, &errs) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(errs) != 1 || errs[0].Field != "budget" {
		t.Errorf("errors = %v", errs)
	}
}

func TestCheckCustomFields_UnknownFieldID(t *testing.T) {
	err := CheckCustomFields(leadFieldDefs(), []model.CustomFieldValue{
		{FieldID: "f-budget", Value: 1},
		{FieldID: "f-typo", Value: "x"},
	})
	var errs ValidationErrors
	if !errors.As(err, &errs) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	var found bool
	for _, e := range errs {
		if e.Field == "f-typo" && strings.Contains(e.Message, "unknown") {
			found = true
		}
	}
	if !found {
		t.Errorf("unknown field id not reported: %v", errs)
	}
}

func TestCheckCustomFields_TypeMismatch(t *testing.T) {
	err := CheckCustomFields(leadFieldDefs(), []model.CustomFieldValue{
		{FieldID: "f-budget", Value: 100},
		{FieldID: "f-topics", Value: 42},
	})
	var errs ValidationErrors
	if !errors.As(err, &errs) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(errs) != 1 || errs[0].Field != "topics" {
		t.Errorf("errors = %v", errs)
	}
}

func TestCheckCustomFields_NilValueSatisfiesPresence(t *testing.T) {
	// A nil value counts as present but is never type-checked.
	err := CheckCustomFields(leadFieldDefs(), []model.CustomFieldValue{
		{FieldID: "f-budget", Value: nil},
	})
	if err != nil {
		t.Fatalf("nil value rejected: %v", err)
	}
}
