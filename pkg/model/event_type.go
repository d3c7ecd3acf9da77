package model

import "time"

type EventType struct {
	ID           string        `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string        `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Slug         string        `json:"slug" bson:"slug" validate:"omitempty,max=100"`
	DurationMin  int           `json:"duration" bson:"duration_min" validate:"required,min=1,max=1440"`
	Description  string        `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=2000"`
	IsActive     bool          `json:"isActive" bson:"is_active"`
	Color        string        `json:"color,omitempty" bson:"color,omitempty" validate:"omitempty,max=32"`
	CustomFields []CustomField `json:"customFields,omitempty" bson:"custom_fields,omitempty"`
	CreatedAt    time.Time     `json:"createdAt" bson:"created_at"`
}

type EventTypeUpdate struct {
	Name         string         `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Slug         string         `json:"slug,omitempty" validate:"omitempty,max=100"`
	DurationMin  *int           `json:"duration,omitempty" validate:"omitempty,min=1,max=1440"`
	Description  *string        `json:"description,omitempty" validate:"omitempty,max=2000"`
	IsActive     *bool          `json:"isActive,omitempty"`
	Color        *string        `json:"color,omitempty" validate:"omitempty,max=32"`
	CustomFields *[]CustomField `json:"customFields,omitempty"`
}
