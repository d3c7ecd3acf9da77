package broadcast

// Domain event names carried in the broadcast envelope. The
// "<domain>.<verb>" form is part of the external contract.
const (
	BookingCreated   = "booking.created"
	BookingUpdated   = "booking.updated"
	BookingConfirmed = "booking.confirmed"
	BookingCancelled = "booking.cancelled"
	BookingCompleted = "booking.completed"
	BookingDeleted   = "booking.deleted"

	LeadCreated = "lead.created"
	LeadUpdated = "lead.updated"

	EventTypeCreated = "event_type.created"
	EventTypeUpdated = "event_type.updated"

	SettingsUpdated = "settings.updated"
)
