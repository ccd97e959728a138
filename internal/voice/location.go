package voice

import (
	"time"
	_ "time/tzdata"
)

// TimeZone is the zone every reminder is authored against.
const TimeZone = "Europe/Istanbul"

// Istanbul is the loaded TimeZone. Turkey has stayed on UTC+3 since 2016,
// which is what the fallback encodes if the zone database is unavailable.
var Istanbul = loadIstanbul()

func loadIstanbul() *time.Location {
	loc, err := time.LoadLocation(TimeZone)
	if err != nil {
		return time.FixedZone("+03", 3*60*60)
	}
	return loc
}

// Today returns midnight of now's calendar day in Istanbul.
func Today(now time.Time) time.Time {
	y, m, d := now.In(Istanbul).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, Istanbul)
}
