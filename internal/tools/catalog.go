package tools

// Definition is one catalog entry. InputSchema is a JSON-Schema-like
// object with type, properties and required; the catalog is the
// name-stable integration surface for agent callers.
type Definition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

func schema(properties map[string]any, required ...string) map[string]any {
	if required == nil {
		required = []string{}
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

func prop(typ, description string) map[string]any {
	return map[string]any{"type": typ, "description": description}
}

var catalog = []Definition{
	{
		Name:        "get_current_datetime",
		Description: "Get the current date and time in the configured timezone, plus a map of weekday names to upcoming dates covering two weeks. Call this before interpreting relative dates like 'Monday' or 'tomorrow'.",
		InputSchema: schema(map[string]any{}),
	},
	{
		Name:        "capture_contact",
		Description: "Capture a contact as a booking or a lead. With requestType 'auto' a booking is created iff both eventTypeId and startTime (or a slotToken) are present, otherwise a lead.",
		InputSchema: schema(map[string]any{
			"requestType":  prop("string", "One of: booking, lead, auto (default auto)"),
			"name":         prop("string", "Contact name (lead path)"),
			"email":        prop("string", "Contact email (lead path)"),
			"guestName":    prop("string", "Guest name (booking path)"),
			"guestEmail":   prop("string", "Guest email (booking path)"),
			"eventTypeId":  prop("string", "Event type id (booking path)"),
			"startTime":    prop("string", "Slot start, RFC 3339 (booking path)"),
			"slotToken":    prop("string", "Opaque slot token from availability_check"),
			"phone":        prop("string", "Contact phone"),
			"notes":        prop("string", "Free-form notes"),
			"customFields": prop("array", "Captured custom field values [{fieldId, fieldName, value}]"),
		}),
	},
	{
		Name:        "get_capture_requirements",
		Description: "List the standard and custom fields to collect before creating a lead or a booking, so you can ask the user exactly the right questions.",
		InputSchema: schema(map[string]any{
			"type":        prop("string", "One of: lead, booking (default lead)"),
			"eventTypeId": prop("string", "Scope booking requirements to one event type"),
		}),
	},
	{
		Name:        "custom_fields_get",
		Description: "Read the custom field definitions attached to leads (global) or to one event type.",
		InputSchema: schema(map[string]any{
			"eventTypeId": prop("string", "Event type id; omit for the global lead fields"),
		}),
	},
	{
		Name:        "custom_fields_set",
		Description: "Replace the custom field definitions for leads (global) or for one event type. Fields without an id get one generated.",
		InputSchema: schema(map[string]any{
			"eventTypeId": prop("string", "Event type id; omit for the global lead fields"),
			"fields":      prop("array", "Field definitions [{id?, name, label, type, required, options?}]"),
		}, "fields"),
	},
	{
		Name:        "booking_list",
		Description: "List bookings with optional status, eventTypeId and RFC 3339 from/to filters. Paginated.",
		InputSchema: schema(map[string]any{
			"status":      prop("string", "One of: pending, confirmed, cancelled, completed"),
			"eventTypeId": prop("string", "Filter by event type id"),
			"from":        prop("string", "Range start, RFC 3339"),
			"to":          prop("string", "Range end, RFC 3339"),
			"limit":       prop("integer", "Page size, 1-100 (default 50)"),
			"offset":      prop("integer", "Items to skip"),
		}),
	},
	{
		Name:        "booking_get",
		Description: "Get one booking by id.",
		InputSchema: schema(map[string]any{
			"id": prop("string", "Booking id"),
		}, "id"),
	},
	{
		Name:        "booking_create",
		Description: "Create a booking. endTime is derived from the event type duration when omitted. Fails with a conflict if the slot is taken and with working-hours details if the time is outside availability.",
		InputSchema: schema(map[string]any{
			"eventTypeId":   prop("string", "Event type id"),
			"eventTypeName": prop("string", "Free-text event name (open events only)"),
			"startTime":     prop("string", "Slot start, RFC 3339"),
			"endTime":       prop("string", "Slot end, RFC 3339 (optional)"),
			"duration":      prop("integer", "Duration in minutes (open events only)"),
			"slotToken":     prop("string", "Opaque slot token from availability_check"),
			"guestName":     prop("string", "Guest name"),
			"guestEmail":    prop("string", "Guest email"),
			"guestPhone":    prop("string", "Guest phone"),
			"guestNotes":    prop("string", "Notes from the guest"),
			"agenda":        prop("string", "Meeting agenda"),
			"customFields":  prop("array", "Captured custom field values"),
		}, "guestName", "guestEmail"),
	},
	{
		Name:        "booking_find",
		Description: "Find bookings by guest email (exact), name (substring) or phone (digits). Returns a hint whether to prefer update over create.",
		InputSchema: schema(map[string]any{
			"email":            prop("string", "Guest email, exact match"),
			"name":             prop("string", "Guest name, substring match"),
			"phone":            prop("string", "Guest phone, digit match"),
			"includeCompleted": prop("boolean", "Include completed and cancelled bookings"),
		}),
	},
	{
		Name:        "booking_upsert",
		Description: "Create a booking, or move the guest's existing active booking when one exists for the same email. Use this to avoid duplicate bookings.",
		InputSchema: schema(map[string]any{
			"eventTypeId":   prop("string", "Event type id"),
			"eventTypeName": prop("string", "Free-text event name (open events only)"),
			"startTime":     prop("string", "Slot start, RFC 3339"),
			"slotToken":     prop("string", "Opaque slot token from availability_check"),
			"guestName":     prop("string", "Guest name"),
			"guestEmail":    prop("string", "Guest email, the dedup key"),
			"guestPhone":    prop("string", "Guest phone"),
			"guestNotes":    prop("string", "Notes from the guest"),
			"agenda":        prop("string", "Meeting agenda"),
		}, "guestName", "guestEmail"),
	},
	{
		Name:        "booking_update",
		Description: "Partially update a booking by id. Working hours and conflicts are not re-checked.",
		InputSchema: schema(map[string]any{
			"id":         prop("string", "Booking id"),
			"startTime":  prop("string", "New start, RFC 3339"),
			"endTime":    prop("string", "New end, RFC 3339"),
			"status":     prop("string", "One of: pending, confirmed, cancelled, completed"),
			"guestName":  prop("string", "Guest name"),
			"guestEmail": prop("string", "Guest email"),
			"guestPhone": prop("string", "Guest phone"),
			"guestNotes": prop("string", "Notes from the guest"),
			"agenda":     prop("string", "Meeting agenda"),
		}, "id"),
	},
	{
		Name:        "booking_cancel",
		Description: "Cancel a booking by id with an optional reason.",
		InputSchema: schema(map[string]any{
			"id":     prop("string", "Booking id"),
			"reason": prop("string", "Cancellation reason"),
		}, "id"),
	},
	{
		Name:        "booking_delete",
		Description: "Permanently delete a booking by id. Prefer booking_cancel unless the record must be removed.",
		InputSchema: schema(map[string]any{
			"id": prop("string", "Booking id"),
		}, "id"),
	},
	{
		Name:        "event_types_list",
		Description: "List event types, optionally only active ones.",
		InputSchema: schema(map[string]any{
			"activeOnly": prop("boolean", "Only return active event types"),
		}),
	},
	{
		Name:        "event_types_create",
		Description: "Create an event type with a name and duration in minutes.",
		InputSchema: schema(map[string]any{
			"name":         prop("string", "Event type name"),
			"duration":     prop("integer", "Duration in minutes"),
			"description":  prop("string", "Description"),
			"isActive":     prop("boolean", "Whether the event type is bookable"),
			"color":        prop("string", "Display color"),
			"customFields": prop("array", "Field definitions for bookings of this type"),
		}, "name", "duration"),
	},
	{
		Name:        "availability_check",
		Description: "List the day's slots for a date (YYYY-MM-DD) and optional event type. Available slots carry a slotToken to pass to booking_create.",
		InputSchema: schema(map[string]any{
			"date":        prop("string", "Calendar date, YYYY-MM-DD"),
			"eventTypeId": prop("string", "Event type id; omit for the default duration"),
		}, "date"),
	},
	{
		Name:        "lead_create",
		Description: "Create a lead. Rejects a duplicate when an active lead with the same email exists.",
		InputSchema: schema(map[string]any{
			"name":                   prop("string", "Contact name"),
			"email":                  prop("string", "Contact email"),
			"phone":                  prop("string", "Contact phone"),
			"company":                prop("string", "Company name"),
			"source":                 prop("string", "One of: website, chatbot, referral, social, other"),
			"priority":               prop("string", "One of: low, medium, high, urgent"),
			"notes":                  prop("string", "Free-form notes"),
			"tags":                   prop("array", "Tags"),
			"interestedIn":           prop("string", "What the contact is interested in"),
			"preferredContactMethod": prop("string", "Preferred contact method"),
			"preferredCallbackTime":  prop("string", "Preferred callback time"),
			"customFields":           prop("array", "Captured custom field values"),
		}, "name", "email"),
	},
	{
		Name:        "lead_list",
		Description: "List leads with optional status, priority, source and email filters. Paginated.",
		InputSchema: schema(map[string]any{
			"status":   prop("string", "One of: new, contacted, qualified, converted, lost"),
			"priority": prop("string", "One of: low, medium, high, urgent"),
			"source":   prop("string", "One of: website, chatbot, referral, social, other"),
			"email":    prop("string", "Exact email match"),
			"limit":    prop("integer", "Page size, 1-100 (default 50)"),
			"offset":   prop("integer", "Items to skip"),
		}),
	},
	{
		Name:        "lead_update",
		Description: "Partially update a lead by id, including status transitions.",
		InputSchema: schema(map[string]any{
			"id":       prop("string", "Lead id"),
			"status":   prop("string", "One of: new, contacted, qualified, converted, lost"),
			"priority": prop("string", "One of: low, medium, high, urgent"),
			"notes":    prop("string", "Free-form notes"),
		}, "id"),
	},
	{
		Name:        "lead_get",
		Description: "Get one lead by id.",
		InputSchema: schema(map[string]any{
			"id": prop("string", "Lead id"),
		}, "id"),
	},
	{
		Name:        "lead_stats",
		Description: "Aggregate lead counts by status, priority and source.",
		InputSchema: schema(map[string]any{}),
	},
}

// Catalog returns the fixed tool definitions.
func Catalog() []Definition {
	return catalog
}
