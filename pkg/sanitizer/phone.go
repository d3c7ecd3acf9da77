package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"

	"slotwise/pkg/locale"
)

// NormalizePhone formats a phone number to E.164 when it can be parsed.
// The parse region is inferred from the dialing prefix first, then the
// configured fallback regions are tried in order. Unparseable input is
// returned trimmed rather than dropped; phones are optional fields and
// agent callers supply them in every imaginable shape.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	regions := locale.ParseRegions
	if c := locale.InferCountryFromPhone(phone); c != nil {
		regions = append([]string{c.Code}, regions...)
	}

	for _, region := range regions {
		parsed, err := phonenumbers.Parse(phone, region)
		if err != nil {
			continue
		}
		if phonenumbers.IsValidNumber(parsed) {
			return phonenumbers.Format(parsed, phonenumbers.E164)
		}
	}
	return phone
}

// PhoneDigits strips everything but digits. Phone matching in searches
// compares this form so "+1 (555) 010-2000" and "15550102000" meet.
func PhoneDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
