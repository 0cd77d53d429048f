package calendar

import "github.com/emersion/go-ical"

// Outlook and Exchange feeds use Windows zone names that time.LoadLocation does not know
var windowsToIANA = map[string]string{
	"Pacific Standard Time":        "America/Los_Angeles",
	"Mountain Standard Time":       "America/Denver",
	"Central Standard Time":        "America/Chicago",
	"Eastern Standard Time":        "America/New_York",
	"GMT Standard Time":            "Europe/London",
	"Central Europe Standard Time": "Europe/Paris",
	"W. Europe Standard Time":      "Europe/Berlin",
	"Turkey Standard Time":         "Europe/Istanbul",
	"Egypt Standard Time":          "Africa/Cairo",
	"Arab Standard Time":           "Asia/Riyadh",
	"Arabian Standard Time":        "Asia/Dubai",
	"Pakistan Standard Time":       "Asia/Karachi",
	"India Standard Time":          "Asia/Kolkata",
	"Bangladesh Standard Time":     "Asia/Dhaka",
	"SE Asia Standard Time":        "Asia/Jakarta",
	"Singapore Standard Time":      "Asia/Singapore",
	"AUS Eastern Standard Time":    "Australia/Sydney",
}

// normalizeComponentTimezones rewrites Windows TZIDs on the date properties of comp
func normalizeComponentTimezones(comp *ical.Component) {
	for _, name := range []string{ical.PropDateTimeStart, ical.PropDateTimeEnd, ical.PropExceptionDates, ical.PropRecurrenceDates} {
		for _, prop := range comp.Props[name] {
			tzid := prop.Params.Get(ical.ParamTimezoneID)
			if ianaName, ok := windowsToIANA[tzid]; ok {
				prop.Params.Set(ical.ParamTimezoneID, ianaName)
			}
		}
	}
}
