package model

import "time"

// SettingsID is the fixed id of the BookingSettings singleton document.
const SettingsID = "default"

// Weekdays in calendar order, matching time.Weekday.String() output.
var Weekdays = []string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// DayWindow is one weekday's working hours in HH:MM wall-clock form.
type DayWindow struct {
	Start string `json:"start" bson:"start" validate:"required,len=5"`
	End   string `json:"end" bson:"end" validate:"required,len=5"`
}

// BookingSettings is a singleton record. Readers always receive a fully
// populated value: stored fields are merged over defaults so partially
// written documents never break callers.
type BookingSettings struct {
	ID               string                `json:"id,omitempty" bson:"_id,omitempty"`
	Timezone         string                `json:"timezone" bson:"timezone"`
	Availability     map[string]*DayWindow `json:"availability" bson:"availability"`
	BrandColor       string                `json:"brandColor,omitempty" bson:"brand_color,omitempty"`
	Is24x7           bool                  `json:"is24x7" bson:"is_24x7"`
	AllowOpenEvents  bool                  `json:"allowOpenEvents" bson:"allow_open_events"`
	LeadCustomFields []CustomField         `json:"leadCustomFields,omitempty" bson:"lead_custom_fields,omitempty"`
	UpdatedAt        time.Time             `json:"updatedAt" bson:"updated_at"`
}

// Window returns the configured hours for a weekday name, nil when the
// day is closed or unknown.
func (s *BookingSettings) Window(weekday string) *DayWindow {
	if s.Availability == nil {
		return nil
	}
	return s.Availability[weekday]
}

type BookingSettingsUpdate struct {
	Timezone         string                 `json:"timezone,omitempty" validate:"omitempty,timezone"`
	Availability     *map[string]*DayWindow `json:"availability,omitempty"`
	BrandColor       *string                `json:"brandColor,omitempty" validate:"omitempty,max=32"`
	Is24x7           *bool                  `json:"is24x7,omitempty"`
	AllowOpenEvents  *bool                  `json:"allowOpenEvents,omitempty"`
	LeadCustomFields *[]CustomField         `json:"leadCustomFields,omitempty"`
}
