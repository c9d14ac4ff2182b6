package view

import (
	"time"

	"golang.org/x/text/language"
)

type Clock int

const (
	Clock24 Clock = iota
	Clock12
)

// Regions whose customary clock is 12-hour.
var twelveHourRegions = map[string]bool{
	"US": true, "CA": true, "AU": true, "NZ": true, "IN": true,
	"PH": true, "PK": true, "BD": true, "EG": true, "SA": true,
}

// ClockFor resolves the preferred clock from an Accept-Language header. Only
// the most preferred language counts; a bare language uses its likely
// region, so "en" behaves like "en-US".
func ClockFor(acceptLanguage string) Clock {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Clock24
	}

	region, confidence := tags[0].Region()
	if confidence == language.No {
		return Clock24
	}
	if twelveHourRegions[region.String()] {
		return Clock12
	}
	return Clock24
}

// FormatTime renders the hour and minute of t in loc.
func FormatTime(t time.Time, clock Clock, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	if clock == Clock12 {
		return t.Format("03:04 PM")
	}
	return t.Format("15:04")
}
