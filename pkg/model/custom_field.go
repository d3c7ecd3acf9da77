package model

import "fmt"

// Custom field definition types. Values are agent-supplied and loosely
// typed; the declared type is checked at write time, not trusted.
const (
	FieldTypeText        = "text"
	FieldTypeTextarea    = "textarea"
	FieldTypeNumber      = "number"
	FieldTypeEmail       = "email"
	FieldTypePhone       = "phone"
	FieldTypeSelect      = "select"
	FieldTypeMultiselect = "multiselect"
	FieldTypeCheckbox    = "checkbox"
	FieldTypeDate        = "date"
)

// CustomField is a field definition attached to BookingSettings (for
// leads) or to an EventType (for bookings of that type).
type CustomField struct {
	ID           string   `json:"id" bson:"id"`
	Name         string   `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Label        string   `json:"label" bson:"label" validate:"required,min=1,max=200"`
	Type         string   `json:"type" bson:"type" validate:"required,oneof=text textarea number email phone select multiselect checkbox date"`
	Required     bool     `json:"required" bson:"required"`
	Placeholder  string   `json:"placeholder,omitempty" bson:"placeholder,omitempty" validate:"omitempty,max=200"`
	Options      []string `json:"options,omitempty" bson:"options,omitempty" validate:"omitempty,max=50,dive,max=200"`
	DefaultValue any      `json:"defaultValue,omitempty" bson:"default_value,omitempty"`
}

// CustomFieldValue is a captured value on a record.
type CustomFieldValue struct {
	FieldID   string `json:"fieldId" bson:"field_id"`
	FieldName string `json:"fieldName" bson:"field_name"`
	Value     any    `json:"value" bson:"value"`
}

// CheckValue verifies a captured value against the declared field type.
// String input is accepted for every scalar type since agents routinely
// stringify values; only shape mismatches are rejected.
func (f *CustomField) CheckValue(value any) error {
	switch f.Type {
	case FieldTypeMultiselect:
		switch v := value.(type) {
		case []string:
			return nil
		case []any:
			for _, item := range v {
				if _, ok := item.(string); !ok {
					return fmt.Errorf("field %q expects a list of strings", f.Name)
				}
			}
			return nil
		case string:
			return nil
		default:
			return fmt.Errorf("field %q expects a list of strings", f.Name)
		}
	case FieldTypeCheckbox:
		switch value.(type) {
		case bool, string:
			return nil
		default:
			return fmt.Errorf("field %q expects a boolean", f.Name)
		}
	case FieldTypeNumber:
		switch value.(type) {
		case int, int64, float64, string:
			return nil
		default:
			return fmt.Errorf("field %q expects a number", f.Name)
		}
	default:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("field %q expects text", f.Name)
		}
		return nil
	}
}
