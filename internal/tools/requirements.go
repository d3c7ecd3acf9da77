package tools

import (
	"context"

	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/model"
)

// fieldSpec describes one standard field an agent should collect before
// calling a create operation.
type fieldSpec struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
}

var leadStandardFields = []fieldSpec{
	{Name: "name", Type: "string", Required: true, Description: "Full name of the contact"},
	{Name: "email", Type: "string", Required: true, Description: "Email address"},
	{Name: "phone", Type: "string", Required: false, Description: "Phone number"},
	{Name: "company", Type: "string", Required: false, Description: "Company name"},
	{Name: "source", Type: "string", Required: false, Description: "One of: website, chatbot, referral, social, other"},
	{Name: "interestedIn", Type: "string", Required: false, Description: "What the contact is interested in"},
	{Name: "preferredContactMethod", Type: "string", Required: false, Description: "How the contact prefers to be reached"},
	{Name: "preferredCallbackTime", Type: "string", Required: false, Description: "When the contact prefers to be reached"},
	{Name: "notes", Type: "string", Required: false, Description: "Free-form notes"},
}

var bookingStandardFields = []fieldSpec{
	{Name: "guestName", Type: "string", Required: true, Description: "Full name of the guest"},
	{Name: "guestEmail", Type: "string", Required: true, Description: "Email address of the guest"},
	{Name: "eventTypeId", Type: "string", Required: true, Description: "Id of the event type to book (or supply a slotToken)"},
	{Name: "startTime", Type: "string", Required: true, Description: "Start of the slot, RFC 3339 (or supply a slotToken)"},
	{Name: "guestPhone", Type: "string", Required: false, Description: "Phone number of the guest"},
	{Name: "guestNotes", Type: "string", Required: false, Description: "Notes from the guest"},
	{Name: "agenda", Type: "string", Required: false, Description: "Meeting agenda"},
}

// getCaptureRequirements tells an agent exactly which questions to ask
// before a create call: the standard field list plus any configured
// custom fields for the requested record kind.
func (r *Router) getCaptureRequirements(ctx context.Context, input map[string]any) (any, error) {
	kind := stringArg(input, "type")

	switch kind {
	case "lead", "":
		fields, err := r.settings.LeadCustomFields(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"type":           "lead",
			"standardFields": leadStandardFields,
			"customFields":   emptyAsList(fields),
		}, nil
	case "booking":
		var custom []model.CustomField
		if eventTypeID := stringArg(input, "eventTypeId"); eventTypeID != "" {
			eventType, err := r.eventTypes.GetByID(ctx, eventTypeID)
			if err != nil {
				return nil, err
			}
			custom = eventType.CustomFields
		}
		return map[string]any{
			"type":           "booking",
			"standardFields": bookingStandardFields,
			"customFields":   emptyAsList(custom),
		}, nil
	default:
		return nil, apperrors.InvalidInput("type must be one of: lead, booking")
	}
}

// customFieldsGet reads the field definitions attached to leads
// (global) or to one event type.
func (r *Router) customFieldsGet(ctx context.Context, input map[string]any) (any, error) {
	if eventTypeID := stringArg(input, "eventTypeId"); eventTypeID != "" {
		eventType, err := r.eventTypes.GetByID(ctx, eventTypeID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"eventTypeId": eventTypeID, "fields": emptyAsList(eventType.CustomFields)}, nil
	}

	fields, err := r.settings.LeadCustomFields(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"scope": "lead", "fields": emptyAsList(fields)}, nil
}

// customFieldsSet replaces the definitions for leads or one event type.
// Fields without an id get one generated before persisting.
func (r *Router) customFieldsSet(ctx context.Context, input map[string]any) (any, error) {
	var req struct {
		EventTypeID string              `json:"eventTypeId,omitempty"`
		Fields      []model.CustomField `json:"fields"`
	}
	if err := decodeInput(input, &req); err != nil {
		return nil, err
	}
	if req.Fields == nil {
		return nil, apperrors.InvalidInput("fields is required")
	}

	if req.EventTypeID != "" {
		eventType, err := r.eventTypes.Update(ctx, req.EventTypeID, &model.EventTypeUpdate{CustomFields: &req.Fields})
		if err != nil {
			return nil, err
		}
		return map[string]any{"eventTypeId": req.EventTypeID, "fields": eventType.CustomFields}, nil
	}

	fields, err := r.settings.SetLeadCustomFields(ctx, req.Fields)
	if err != nil {
		return nil, err
	}
	return map[string]any{"scope": "lead", "fields": fields}, nil
}

// emptyAsList keeps JSON output as [] instead of null.
func emptyAsList(fields []model.CustomField) []model.CustomField {
	if fields == nil {
		return []model.CustomField{}
	}
	return fields
}
