package locale

import "strings"

// InferCountryFromPhone matches an international dialing prefix against
// the known country table. Returns nil when nothing matches.
func InferCountryFromPhone(phone string) *Country {
	normalized := strings.TrimSpace(phone)

	for _, country := range Countries {
		for _, prefix := range country.PhonePrefixes {
			if strings.HasPrefix(normalized, prefix) {
				c := country
				return &c
			}
		}
	}
	return nil
}

// InferTimezoneFromPhone returns the default zone of the country the
// phone number belongs to, or DefaultTimezone when unknown.
func InferTimezoneFromPhone(phone string) string {
	if c := InferCountryFromPhone(phone); c != nil {
		return c.DefaultTimezone
	}
	return DefaultTimezone
}
