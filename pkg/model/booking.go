package model

import "time"

// Booking statuses. Bookings are created confirmed; pending exists for
// operator-driven flows that stage a booking before confirming it.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// OpenEventTypeID marks bookings whose event type is a free-text name
// rather than a stored EventType record.
const OpenEventTypeID = "open-event"

type Booking struct {
	ID            string             `json:"id,omitempty" bson:"_id,omitempty"`
	EventTypeID   string             `json:"eventTypeId" bson:"event_type_id" validate:"required"`
	EventTypeName string             `json:"eventTypeName" bson:"event_type_name"`
	StartTime     time.Time          `json:"startTime" bson:"start_time" validate:"required"`
	EndTime       time.Time          `json:"endTime" bson:"end_time" validate:"required,gtfield=StartTime"`
	GuestName     string             `json:"guestName" bson:"guest_name" validate:"required,min=1,max=200"`
	GuestEmail    string             `json:"guestEmail" bson:"guest_email" validate:"required,email"`
	GuestPhone    string             `json:"guestPhone,omitempty" bson:"guest_phone,omitempty" validate:"omitempty,max=32"`
	GuestNotes    string             `json:"guestNotes,omitempty" bson:"guest_notes,omitempty" validate:"omitempty,max=2000"`
	Agenda        string             `json:"agenda,omitempty" bson:"agenda,omitempty" validate:"omitempty,max=2000"`
	MeetingURL    string             `json:"meetingUrl,omitempty" bson:"meeting_url,omitempty" validate:"omitempty,max=500"`
	Status        string             `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	CustomFields  []CustomFieldValue `json:"customFields,omitempty" bson:"custom_fields,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"created_at"`
}

// IsTerminal reports whether the booking no longer occupies a slot.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCancelled || b.Status == BookingStatusCompleted
}

type BookingUpdate struct {
	EventTypeID  string             `json:"eventTypeId,omitempty" validate:"omitempty"`
	StartTime    *time.Time         `json:"startTime,omitempty"`
	EndTime      *time.Time         `json:"endTime,omitempty"`
	GuestName    string             `json:"guestName,omitempty" validate:"omitempty,min=1,max=200"`
	GuestEmail   string             `json:"guestEmail,omitempty" validate:"omitempty,email"`
	GuestPhone   *string            `json:"guestPhone,omitempty" validate:"omitempty,max=32"`
	GuestNotes   *string            `json:"guestNotes,omitempty" validate:"omitempty,max=2000"`
	Agenda       *string            `json:"agenda,omitempty" validate:"omitempty,max=2000"`
	MeetingURL   *string            `json:"meetingUrl,omitempty" validate:"omitempty,max=500"`
	Status       string             `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed cancelled completed"`
	CustomFields []CustomFieldValue `json:"customFields,omitempty"`
}

// BookingSearch carries the criteria of a guest lookup. Email matches
// exactly (case-insensitive), name by substring, phone by digit form.
type BookingSearch struct {
	Email            string `json:"email,omitempty"`
	Name             string `json:"name,omitempty"`
	Phone            string `json:"phone,omitempty"`
	IncludeCompleted bool   `json:"includeCompleted,omitempty"`
}
