package locale

const DefaultTimezone = "UTC"

type Country struct {
	Code            string   // ISO 3166-1 alpha-2 code
	Name            string
	PhonePrefixes   []string // accepted dialing prefixes, with and without "+"
	DefaultTimezone string   // IANA zone identifier
}

var Countries = map[string]Country{
	"US": {
		Code:            "US",
		Name:            "United States",
		PhonePrefixes:   []string{"+1", "1"},
		DefaultTimezone: "America/New_York",
	},
	"GB": {
		Code:            "GB",
		Name:            "United Kingdom",
		PhonePrefixes:   []string{"+44", "44"},
		DefaultTimezone: "Europe/London",
	},
	"IL": {
		Code:            "IL",
		Name:            "Israel",
		PhonePrefixes:   []string{"+972", "972"},
		DefaultTimezone: "Asia/Jerusalem",
	},
	"AU": {
		Code:            "AU",
		Name:            "Australia",
		PhonePrefixes:   []string{"+61", "61"},
		DefaultTimezone: "Australia/Sydney",
	},
}

// ParseRegions is the region order tried when a phone number arrives
// without an international prefix.
var ParseRegions = []string{"US", "GB", "IL", "AU"}
