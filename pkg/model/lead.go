package model

import "time"

const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQualified = "qualified"
	LeadStatusConverted = "converted"
	LeadStatusLost      = "lost"

	LeadPriorityLow    = "low"
	LeadPriorityMedium = "medium"
	LeadPriorityHigh   = "high"
	LeadPriorityUrgent = "urgent"

	LeadSourceWebsite  = "website"
	LeadSourceChatbot  = "chatbot"
	LeadSourceReferral = "referral"
	LeadSourceSocial   = "social"
	LeadSourceOther    = "other"
)

type Lead struct {
	ID                     string             `json:"id,omitempty" bson:"_id,omitempty"`
	Name                   string             `json:"name" bson:"name" validate:"required,min=1,max=200"`
	Email                  string             `json:"email" bson:"email" validate:"required,email"`
	Phone                  string             `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,max=32"`
	Company                string             `json:"company,omitempty" bson:"company,omitempty" validate:"omitempty,max=200"`
	Source                 string             `json:"source" bson:"source" validate:"required,oneof=website chatbot referral social other"`
	Status                 string             `json:"status" bson:"status" validate:"required,oneof=new contacted qualified converted lost"`
	Priority               string             `json:"priority" bson:"priority" validate:"required,oneof=low medium high urgent"`
	Notes                  string             `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=5000"`
	Tags                   []string           `json:"tags,omitempty" bson:"tags,omitempty" validate:"omitempty,max=20,dive,max=50"`
	InterestedIn           string             `json:"interestedIn,omitempty" bson:"interested_in,omitempty" validate:"omitempty,max=500"`
	PreferredContactMethod string             `json:"preferredContactMethod,omitempty" bson:"preferred_contact_method,omitempty" validate:"omitempty,max=50"`
	PreferredCallbackTime  string             `json:"preferredCallbackTime,omitempty" bson:"preferred_callback_time,omitempty" validate:"omitempty,max=200"`
	CustomFields           []CustomFieldValue `json:"customFields,omitempty" bson:"custom_fields,omitempty"`
	CreatedAt              time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt              time.Time          `json:"updatedAt" bson:"updated_at"`
}

// IsTerminal reports whether the lead is out of the pipeline. Terminal
// leads do not count toward duplicate-email detection.
func (l *Lead) IsTerminal() bool {
	return l.Status == LeadStatusConverted || l.Status == LeadStatusLost
}

type LeadUpdate struct {
	Name                   string             `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Email                  string             `json:"email,omitempty" validate:"omitempty,email"`
	Phone                  *string            `json:"phone,omitempty" validate:"omitempty,max=32"`
	Company                *string            `json:"company,omitempty" validate:"omitempty,max=200"`
	Source                 string             `json:"source,omitempty" validate:"omitempty,oneof=website chatbot referral social other"`
	Status                 string             `json:"status,omitempty" validate:"omitempty,oneof=new contacted qualified converted lost"`
	Priority               string             `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	Notes                  *string            `json:"notes,omitempty" validate:"omitempty,max=5000"`
	Tags                   *[]string          `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=50"`
	InterestedIn           *string            `json:"interestedIn,omitempty" validate:"omitempty,max=500"`
	PreferredContactMethod *string            `json:"preferredContactMethod,omitempty" validate:"omitempty,max=50"`
	PreferredCallbackTime  *string            `json:"preferredCallbackTime,omitempty" validate:"omitempty,max=200"`
	CustomFields           []CustomFieldValue `json:"customFields,omitempty"`
}

// LeadStats is a pure projection over the lead store.
type LeadStats struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"byStatus"`
	ByPriority map[string]int64 `json:"byPriority"`
	BySource   map[string]int64 `json:"bySource"`
}
