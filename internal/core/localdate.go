// ABOUTME: Local-date boundary math for the daily batch readers
// ABOUTME: A session crossing midnight UTC must land on the correct household-local day
package core

import (
	"fmt"
	"time"
)

// dateLayout is the wire format for local calendar dates.
const dateLayout = "2006-01-02"

// LocalDate converts a UTC instant to the calendar date it falls on in loc.
func LocalDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateLayout)
}

// DayWindowUTC returns the half-open UTC interval [from, to) covering the
// given local calendar date in loc.
func DayWindowUTC(localDate string, loc *time.Location) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, localDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q: %w", localDate, err)
	}
	// AddDate handles DST transitions; the local day is not always 24h.
	return day.UTC(), day.AddDate(0, 0, 1).UTC(), nil
}
